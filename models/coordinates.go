package models

// Coordinates is a WGS84 point stored as a JSON column on projects and posts.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
