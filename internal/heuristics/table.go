// Package heuristics holds the hand-tuned literals used by the measurement
// pipeline: room keywords, noise patterns, the dummy sentinel, opening
// profiles, window tiers and floor ordering. The built-in table can be
// overridden from a YAML file without touching the algorithms.
package heuristics

import (
	"fmt"
	"regexp"
)

// DefaultVersion identifies the built-in table.
const DefaultVersion = "v1"

// Size is a width × height pair in feet.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Sentinel is the placeholder dimension set that must never reach the output.
type Sentinel struct {
	Length float64 `yaml:"length" json:"length"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Window sizing modes for a Profile.
const (
	WindowsNone   = "none"
	WindowsTiers  = "tiers"
	WindowsLiving = "living_tiers"
	WindowsFixed  = "fixed"
)

// Profile describes the openings a room type typically has.
type Profile struct {
	Name  string   `yaml:"name" json:"name"`
	Match []string `yaml:"match" json:"match"`
	Door  *Size    `yaml:"door,omitempty" json:"door,omitempty"`
	// OpenWall replaces Door when the room is connected to an adjacent living space.
	OpenWall *Size `yaml:"open_wall,omitempty" json:"open_wall,omitempty"`
	Windows  string `yaml:"windows" json:"windows"`
	Window   *Size  `yaml:"window,omitempty" json:"window,omitempty"`
	// MinAreaForWindows: windows are only added when the floor area exceeds it.
	MinAreaForWindows float64 `yaml:"min_area_for_windows" json:"min_area_for_windows"`
}

// WindowTier applies to rooms whose area is below Below (0 means no upper bound).
type WindowTier struct {
	Below    float64 `yaml:"below" json:"below"`
	Standard []Size  `yaml:"standard" json:"standard"`
	Living   []Size  `yaml:"living" json:"living"`
}

// FloorRank orders locations; the first rank whose Match hits wins.
type FloorRank struct {
	Match []string `yaml:"match" json:"match"`
	Rank  int      `yaml:"rank" json:"rank"`
}

// Table is the complete, versioned set of tunables.
type Table struct {
	Version string `yaml:"version" json:"version"`

	RoomKeywords    []string `yaml:"room_keywords" json:"room_keywords"`
	WordKeywords    []string `yaml:"word_keywords" json:"word_keywords"`
	NotRoomPatterns []string `yaml:"not_room_patterns" json:"not_room_patterns"`
	NoisePatterns   []string `yaml:"noise_patterns" json:"noise_patterns"`
	HeaderBlocklist []string `yaml:"header_blocklist" json:"header_blocklist"`

	Sentinel       Sentinel `yaml:"sentinel" json:"sentinel"`
	DefaultHeight  float64  `yaml:"default_height" json:"default_height"`
	DefaultSide    float64  `yaml:"default_side" json:"default_side"`
	AspectRatio    float64  `yaml:"aspect_ratio" json:"aspect_ratio"`
	MinArea        float64  `yaml:"min_area" json:"min_area"`
	DedupTolerance float64  `yaml:"dedup_tolerance" json:"dedup_tolerance"`

	OpeningDefaults map[string]Size `yaml:"opening_defaults" json:"opening_defaults"`
	Profiles        []Profile       `yaml:"profiles" json:"profiles"`
	DefaultProfile  Profile         `yaml:"default_profile" json:"default_profile"`
	WindowTiers     []WindowTier    `yaml:"window_tiers" json:"window_tiers"`
	Adjacency       [][]string      `yaml:"adjacency" json:"adjacency"`

	FloorRanks       []FloorRank `yaml:"floor_ranks" json:"floor_ranks"`
	DefaultFloorRank int         `yaml:"default_floor_rank" json:"default_floor_rank"`
}

// Default returns a fresh copy of the built-in table.
func Default() *Table {
	door := func(w float64) *Size { return &Size{Width: w, Height: 6.8} }
	return &Table{
		Version: DefaultVersion,
		RoomKeywords: []string{
			"room", "kitchen", "bedroom", "bathroom", "bath", "living", "dining",
			"hall", "closet", "laundry", "office", "study", "pantry", "mudroom",
			"garage", "family", "master", "guest", "powder", "utility", "entry",
			"foyer", "porch", "loft", "nook", "attic", "storage", "corridor",
			"stair", "vestibule", "library", "nursery", "playroom", "gym",
		},
		WordKeywords: []string{"den", "wc", "bar"},
		NotRoomPatterns: []string{
			`total.*area`,
			`(above|below)\s*grade.*area`,
			`rooms$`,
			`(plan|room|wall|floor)\s*attributes`,
			`object\s*count`,
			`ground\s*surface`,
		},
		NoisePatterns: []string{
			`object\s*count`,
			`kitchen\s*cabinets`,
			`plan\s*attributes`,
			`ground\s*surface`,
			`^volume`,
			`room\s*attributes`,
			`(above|below)\s*grade.*area`,
			`total.*area`,
		},
		HeaderBlocklist: []string{
			"ROOM ATTRIBUTES", "GROUND SURFACE", "VOLUME", "PLAN ATTRIBUTES",
			"FLOOR ATTRIBUTES", "WALL ATTRIBUTES", "OBJECT COUNT",
		},
		Sentinel:       Sentinel{Length: 10, Width: 10, Height: 8},
		DefaultHeight:  8.0,
		DefaultSide:    10.0,
		AspectRatio:    1.2,
		MinArea:        1.0,
		DedupTolerance: 0.1,
		OpeningDefaults: map[string]Size{
			"door":      {Width: 3.0, Height: 6.8},
			"window":    {Width: 4.0, Height: 3.0},
			"open_wall": {Width: 6.0, Height: 8.0},
		},
		Profiles: []Profile{
			{Name: "storage", Match: []string{"cabinet", "storage", "shelf", "rack", "fixture", "pantry"}, Windows: WindowsNone},
			{Name: "private", Match: []string{"bedroom", "office", "study"}, Door: door(3.0), Windows: WindowsTiers},
			{Name: "bathroom", Match: []string{"bath"}, Door: door(2.5), Windows: WindowsFixed, Window: &Size{Width: 2.0, Height: 2.5}, MinAreaForWindows: 50},
			{Name: "closet", Match: []string{"closet"}, Door: door(2.5), Windows: WindowsNone},
			{Name: "living", Match: []string{"living", "kitchen", "dining", "family"}, Door: door(4.0), OpenWall: &Size{Width: 8.0, Height: 8.0}, Windows: WindowsLiving},
			{Name: "hall", Match: []string{"hall", "corridor"}, Windows: WindowsTiers, MinAreaForWindows: 80},
		},
		DefaultProfile: Profile{Name: "default", Door: door(3.0), Windows: WindowsTiers},
		WindowTiers: []WindowTier{
			{Below: 80, Standard: []Size{{3, 3}}, Living: []Size{{3, 3}}},
			{Below: 150, Standard: []Size{{4, 3.5}}, Living: []Size{{4, 3.5}}},
			{Below: 250, Standard: []Size{{4, 3.5}, {3, 3}}, Living: []Size{{6, 4}}},
			{Below: 0, Standard: []Size{{4, 3.5}, {4, 3.5}, {3, 3}}, Living: []Size{{6, 4}, {4, 3.5}}},
		},
		Adjacency: [][]string{
			{"kitchen", "living"},
			{"kitchen", "dining"},
			{"living", "dining"},
			{"kitchen", "family"},
			{"dining", "family"},
		},
		FloorRanks: []FloorRank{
			{Match: []string{"basement", "lower"}, Rank: 0},
			{Match: []string{"ground", "1st"}, Rank: 1},
			{Match: []string{"2nd"}, Rank: 2},
			{Match: []string{"3rd"}, Rank: 3},
		},
		DefaultFloorRank: 10,
	}
}

// CompilePatterns compiles case-insensitive regular expressions.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// IsSentinel reports whether the given dimensions equal the dummy sentinel.
func (t *Table) IsSentinel(length, width, height float64) bool {
	return length == t.Sentinel.Length && width == t.Sentinel.Width && height == t.Sentinel.Height
}

// OpeningDefault returns the default size for an opening type, using door
// defaults for unknown types.
func (t *Table) OpeningDefault(kind string) Size {
	if s, ok := t.OpeningDefaults[kind]; ok {
		return s
	}
	if s, ok := t.OpeningDefaults["door"]; ok {
		return s
	}
	return Size{Width: 3.0, Height: 6.8}
}
