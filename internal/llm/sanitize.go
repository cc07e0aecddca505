package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// NormalizeAndSanitizeJSON makes a near-miss classifier answer fit the schema:
//   - renames known synonyms (results, rooms, answers -> is_room)
//   - accepts a bare top-level array
//   - coerces "yes"/"no"/"true"/"false"/0/1 items to booleans
//   - removes unknown keys
//
// Items that cannot be coerced become false.
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changed := make([]string, 0, 4)
	var items []any
	switch t := top.(type) {
	case []any:
		items = t
		changed = append(changed, "array->is_room")
	case map[string]any:
		for _, k := range []string{"is_room", "results", "rooms", "answers", "is_rooms"} {
			if v, ok := t[k].([]any); ok {
				items = v
				if k != "is_room" {
					changed = append(changed, k+"->is_room")
				}
				break
			}
		}
		for k := range t {
			if k != "is_room" {
				changed = append(changed, k+"(unknown)")
			}
		}
	}
	if items == nil {
		return nil, changed, fmt.Errorf("sanitize: no answer array found")
	}

	out := make([]bool, len(items))
	for i, it := range items {
		b, ok := coerceBool(it)
		if !ok {
			changed = append(changed, fmt.Sprintf("is_room[%d](type)", i))
		}
		out[i] = b
	}

	bs, err := json.Marshal(ClassifyResult{IsRoom: out})
	if err != nil {
		return nil, changed, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Warn("llm.classify.normalize_sanitize", "changed", changed)
	}
	return bs, changed, nil
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, t == 0 || t == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "room", "1":
			return true, true
		case "false", "no", "n", "0", "":
			return false, true
		}
	case map[string]any:
		for _, k := range []string{"is_room", "room", "value"} {
			if inner, ok := t[k]; ok {
				return coerceBool(inner)
			}
		}
	}
	return false, false
}
