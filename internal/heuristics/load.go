package heuristics

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/room-measurements/internal/common"
)

// Load reads a YAML override file. An empty path yields the built-in table.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heuristics file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("heuristics file %s: %w", path, err)
	}
	return t, nil
}

// Parse overlays YAML on top of the built-in table and validates the result.
// Keys absent from the document keep their default values; lists are replaced
// as a whole.
func Parse(data []byte) (*Table, error) {
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the table against its JSON schema and the invariants the
// schema cannot express.
func (t *Table) Validate() error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	if err := common.ValidateJSONAgainstSchema(BuildTableJSONSchema(), doc); err != nil {
		return common.NewAppError("HEURISTICS_INVALID", "heuristics table rejected", err)
	}
	for _, set := range [][]string{t.NotRoomPatterns, t.NoisePatterns} {
		if _, err := CompilePatterns(set); err != nil {
			return common.NewAppError("HEURISTICS_INVALID", "bad pattern", err)
		}
	}
	for i, tier := range t.WindowTiers {
		last := i == len(t.WindowTiers)-1
		if last && tier.Below != 0 {
			return common.NewAppError("HEURISTICS_INVALID", "last window tier must be unbounded (below: 0)", nil)
		}
		if !last && (tier.Below <= 0 || (i > 0 && tier.Below <= t.WindowTiers[i-1].Below)) {
			return common.NewAppError("HEURISTICS_INVALID", fmt.Sprintf("window tier %d: bounds must be positive and ascending", i), nil)
		}
	}
	return nil
}

// BuildTableJSONSchema returns the JSON-Schema the merged table must satisfy.
func BuildTableJSONSchema() map[string]any {
	str := map[string]any{"type": "string", "minLength": 1}
	strList := map[string]any{"type": "array", "items": str}
	positive := map[string]any{"type": "number", "exclusiveMinimum": 0}
	size := map[string]any{
		"type":       "object",
		"properties": map[string]any{"width": positive, "height": positive},
		"required":   []string{"width", "height"},
	}
	sizeList := map[string]any{"type": "array", "items": size}
	profile := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":                 str,
			"match":                map[string]any{"type": []string{"array", "null"}, "items": str},
			"door":                 size,
			"open_wall":            size,
			"windows":              map[string]any{"type": "string", "enum": []string{WindowsNone, WindowsTiers, WindowsLiving, WindowsFixed}},
			"window":               size,
			"min_area_for_windows": map[string]any{"type": "number", "minimum": 0},
		},
		"required": []string{"name", "windows"},
		"if": map[string]any{
			"properties": map[string]any{"windows": map[string]any{"const": WindowsFixed}},
		},
		"then": map[string]any{"required": []string{"window"}},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version":           str,
			"room_keywords":     map[string]any{"type": "array", "items": str, "minItems": 1},
			"word_keywords":     strList,
			"not_room_patterns": strList,
			"noise_patterns":    strList,
			"header_blocklist":  strList,
			"sentinel": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"length": map[string]any{"type": "number"},
					"width":  map[string]any{"type": "number"},
					"height": map[string]any{"type": "number"},
				},
				"required": []string{"length", "width", "height"},
			},
			"default_height":  positive,
			"default_side":    positive,
			"aspect_ratio":    positive,
			"min_area":        map[string]any{"type": "number", "minimum": 0},
			"dedup_tolerance": map[string]any{"type": "number", "minimum": 0},
			"opening_defaults": map[string]any{
				"type":                 "object",
				"additionalProperties": size,
				"required":             []string{"door", "window", "open_wall"},
			},
			"profiles":        map[string]any{"type": "array", "items": profile},
			"default_profile": profile,
			"window_tiers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"below":    map[string]any{"type": "number", "minimum": 0},
						"standard": sizeList,
						"living":   sizeList,
					},
					"required": []string{"below", "standard", "living"},
				},
				"minItems": 1,
			},
			"adjacency": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "array", "items": str, "minItems": 2, "maxItems": 2},
			},
			"floor_ranks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"match": map[string]any{"type": "array", "items": str, "minItems": 1},
						"rank":  map[string]any{"type": "integer"},
					},
					"required": []string{"match", "rank"},
				},
			},
			"default_floor_rank": map[string]any{"type": "integer"},
		},
		"required": []string{
			"version", "room_keywords", "sentinel", "default_height",
			"opening_defaults", "default_profile", "window_tiers",
		},
	}
}
