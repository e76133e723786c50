package types

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether both coordinates are unset.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
