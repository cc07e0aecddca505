package entity

import "github.com/joseph-ayodele/room-measurements/constants"

// RawDimensions are the measurements an extractor found for one room.
// Lengths are in feet, areas in square feet.
type RawDimensions struct {
	Length    float64  `json:"length"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Area      *float64 `json:"area,omitempty"`
	Perimeter *float64 `json:"perimeter,omitempty"`

	// HeightLabel keeps a non-numeric ceiling height ("Sloped", "Peaked").
	HeightLabel string `json:"height_label,omitempty"`

	// Areas already measured by an estimating tool (PDF path only).
	WallArea        *float64 `json:"wall_area,omitempty"`
	CeilingArea     *float64 `json:"ceiling_area,omitempty"`
	WallsAndCeiling *float64 `json:"walls_and_ceiling,omitempty"`
}

// EffectiveArea returns the floor area: Area when present and positive, then
// a measured ceiling area, else Length×Width.
func (d RawDimensions) EffectiveArea() float64 {
	if d.Area != nil && *d.Area > 0 {
		return *d.Area
	}
	if d.CeilingArea != nil && *d.CeilingArea > 0 {
		return *d.CeilingArea
	}
	return d.Length * d.Width
}

// Measured reports whether an estimating tool supplied wall or ceiling areas.
func (d RawDimensions) Measured() bool {
	return d.WallArea != nil || d.CeilingArea != nil || d.WallsAndCeiling != nil
}

// Opening is a door, window or open wall reported for (or estimated for) a room.
type Opening struct {
	Type       constants.OpeningType `json:"type"`
	Width      float64               `json:"width"`
	Height     float64               `json:"height"`
	Size       string                `json:"size,omitempty"`
	OpensInto  string                `json:"opens_into,omitempty"`
	IsExternal bool                  `json:"is_external,omitempty"`
	IsInternal bool                  `json:"is_internal,omitempty"`
}

// RawRoom is an extracted room candidate. It is created by an extractor,
// renamed or dropped by the classifier and deduplicator, and consumed once
// by the calculator.
type RawRoom struct {
	Floor            string        `json:"floor"`
	Name             string        `json:"name"`
	Dimensions       RawDimensions `json:"raw_dimensions"`
	Openings         []Opening     `json:"openings"`
	SourceConfidence float64       `json:"source_confidence"`
	Fallback         bool          `json:"fallback,omitempty"`
}

// Float returns a pointer to v, for the optional dimension fields.
func Float(v float64) *float64 {
	return &v
}
