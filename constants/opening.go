package constants

import "strings"

// OpeningType is the canonical kind of a wall opening.
type OpeningType string

const (
	OpeningDoor     OpeningType = "door"
	OpeningWindow   OpeningType = "window"
	OpeningOpenWall OpeningType = "open_wall"
)

var allOpeningTypes = []OpeningType{
	OpeningDoor,
	OpeningWindow,
	OpeningOpenWall,
}

// OpeningTypes returns the canonical opening types as strings.
func OpeningTypes() []string {
	result := make([]string, len(allOpeningTypes))
	for i, t := range allOpeningTypes {
		result[i] = string(t)
	}
	return result
}

// CanonicalOpening maps labels found in estimates and sketches to an OpeningType.
func CanonicalOpening(input string) (OpeningType, bool) {
	if input == "" {
		return OpeningDoor, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]OpeningType{
		"missing wall":                 OpeningOpenWall,
		"missing wall - goes to floor": OpeningOpenWall,
		"open wall":                    OpeningOpenWall,
		"opening":                      OpeningOpenWall,
		"doorway":                      OpeningDoor,
		"entry door":                   OpeningDoor,
		"skylight":                     OpeningWindow,
	}

	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allOpeningTypes {
		if normalized == string(t) {
			return t, true
		}
	}

	return OpeningDoor, false
}

// DefaultExternal reports whether an opening of type t leads outside when the
// source does not say where it opens into.
func DefaultExternal(t OpeningType) bool {
	return t == OpeningWindow
}
