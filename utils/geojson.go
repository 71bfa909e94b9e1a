package utils

// GeoJSON building blocks for the map layers. Geometry is always a Point with
// [longitude, latitude] ordering per RFC 7946.

// GeoPoint is a GeoJSON Point geometry.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoFeature is a single GeoJSON feature with arbitrary properties.
type GeoFeature struct {
	Type       string                 `json:"type"`
	Geometry   GeoPoint               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// GeoFeatureCollection is the top level GeoJSON document.
type GeoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []GeoFeature `json:"features"`
}

// NewGeoFeature builds a Point feature from latitude/longitude and properties.
func NewGeoFeature(lat, lon float64, props map[string]interface{}) GeoFeature {
	return GeoFeature{
		Type: "Feature",
		Geometry: GeoPoint{
			Type:        "Point",
			Coordinates: [2]float64{lon, lat},
		},
		Properties: props,
	}
}

// NewGeoFeatureCollection wraps features into a FeatureCollection, never nil.
func NewGeoFeatureCollection(features []GeoFeature) GeoFeatureCollection {
	if features == nil {
		features = []GeoFeature{}
	}
	return GeoFeatureCollection{Type: "FeatureCollection", Features: features}
}
