package entity

// OpeningSize is an opening as emitted in the final measurements.
type OpeningSize struct {
	Type       string `json:"type"`
	Size       string `json:"size"`
	OpensInto  string `json:"opens_into,omitempty"`
	IsExternal bool   `json:"is_external,omitempty"`
	IsInternal bool   `json:"is_internal,omitempty"`
}

// Measurements are the final, rounded geometry of a room.
type Measurements struct {
	Height                  float64       `json:"height"`
	HeightLabel             string        `json:"height_label,omitempty"`
	WallAreaSqft            float64       `json:"wall_area_sqft"`
	CeilingAreaSqft         float64       `json:"ceiling_area_sqft"`
	FloorAreaSqft           float64       `json:"floor_area_sqft"`
	WallsAndCeilingAreaSqft float64       `json:"walls_and_ceiling_area_sqft"`
	FlooringAreaSy          float64       `json:"flooring_area_sy"`
	CeilingPerimeterLf      float64       `json:"ceiling_perimeter_lf"`
	FloorPerimeterLf        float64       `json:"floor_perimeter_lf"`
	Openings                []OpeningSize `json:"openings"`
}

// Provenance tells a caller how much of a room was parsed versus defaulted.
type Provenance struct {
	Confidence        float64  `json:"confidence"`
	EstimatedOpenings bool     `json:"estimated_openings,omitempty"`
	Fallback          bool     `json:"fallback,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// CalculatedRoom is a room with its final measurements. Never mutated after creation.
type CalculatedRoom struct {
	Name         string       `json:"name"`
	Measurements Measurements `json:"measurements"`
	Provenance   *Provenance  `json:"provenance,omitempty"`
}

// Location groups the rooms of one floor or elevation.
type Location struct {
	Location string           `json:"location"`
	Rooms    []CalculatedRoom `json:"rooms"`
}

// RoomCount returns the number of rooms across all locations.
func RoomCount(locs []Location) int {
	n := 0
	for _, l := range locs {
		n += len(l.Rooms)
	}
	return n
}
