package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/room-measurements/internal/common"
)

func TestValidateClassifySchema(t *testing.T) {
	schema := BuildClassifyJSONSchema(2)
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"ok", `{"is_room":[true,false]}`, false},
		{"too short", `{"is_room":[true]}`, true},
		{"too long", `{"is_room":[true,false,true]}`, true},
		{"wrong item type", `{"is_room":["yes","no"]}`, true},
		{"extra key", `{"is_room":[true,false],"why":"x"}`, true},
		{"missing key", `{}`, true},
		{"not json", `nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONAgainstSchema(schema, []byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJSONAgainstSchema(%s) error = %v, wantErr %v", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeAndSanitizeJSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    []bool
		wantErr bool
	}{
		{"already valid", `{"is_room":[true,false]}`, []bool{true, false}, false},
		{"synonym and strings", `{"results":["yes","No"],"note":"x"}`, []bool{true, false}, false},
		{"bare array of numbers", `[1,0,1]`, []bool{true, false, true}, false},
		{"objects", `{"rooms":[{"is_room":true},{"room":"no"}]}`, []bool{true, false}, false},
		{"garbage item", `{"is_room":[true,"maybe"]}`, []bool{true, false}, false},
		{"no array", `{"answer":"kitchen"}`, nil, true},
		{"bad json", `{`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := NormalizeAndSanitizeJSON([]byte(tt.doc), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeAndSanitizeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			var got ClassifyResult
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatal(err)
			}
			if len(got.IsRoom) != len(tt.want) {
				t.Fatalf("IsRoom = %v, want %v", got.IsRoom, tt.want)
			}
			for i := range tt.want {
				if got.IsRoom[i] != tt.want[i] {
					t.Errorf("IsRoom = %v, want %v", got.IsRoom, tt.want)
					break
				}
			}
		})
	}
}

func TestBuildClassifyPrompt(t *testing.T) {
	sys, user := BuildClassifyPrompt([]Candidate{{Name: "Sunroom Annex", Area: 88}, {Name: "Deck", Area: 120.25}})
	if !strings.Contains(sys, "is_room") {
		t.Errorf("system prompt does not state the output key: %q", sys)
	}
	for _, want := range []string{"Candidates (2)", `1. "Sunroom Annex" (area 88.0 sq ft)`, `2. "Deck" (area 120.2 sq ft)`} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestSendJSON(t *testing.T) {
	var gotReqID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("busy"))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ctx := common.WithRequestID(context.Background(), "req-123")
	raw, err := SendJSON(ctx, srv.Client(), srv.URL+"/ok", map[string]any{"a": 1}, map[string]string{"Authorization": "Bearer k"}, nil)
	if err != nil || string(raw) != `{"ok":true}` {
		t.Fatalf("SendJSON() = %s, %v", raw, err)
	}
	if gotReqID != "req-123" || gotAuth != "Bearer k" {
		t.Errorf("headers: X-Request-ID=%q Authorization=%q", gotReqID, gotAuth)
	}

	_, err = SendJSON(context.Background(), srv.Client(), srv.URL+"/fail", map[string]any{}, nil, nil)
	se, ok := err.(*StatusError)
	if !ok || se.Status != http.StatusServiceUnavailable || !se.Retryable() || se.Body != "busy" {
		t.Errorf("SendJSON(/fail) error = %#v, want retryable StatusError 503", err)
	}
	if gotReqID == "" {
		t.Errorf("SendJSON() should generate a request id when the context has none")
	}
}

func TestClassifierFunc(t *testing.T) {
	var c AmbiguousClassifier = ClassifierFunc(func(_ context.Context, cs []Candidate) ([]bool, error) {
		out := make([]bool, len(cs))
		for i, cand := range cs {
			out[i] = cand.Area > 50
		}
		return out, nil
	})
	got, err := c.ClassifyAmbiguous(context.Background(), []Candidate{{Name: "a", Area: 10}, {Name: "b", Area: 60}})
	if err != nil || len(got) != 2 || got[0] || !got[1] {
		t.Errorf("ClassifyAmbiguous() = %v, %v", got, err)
	}
}
