package ors

// strict schemas for the openrouteservice payloads we consume. anything the
// planner needs that is absent here fails parsing at this boundary instead
// of leaking raw provider JSON into the engine.

type geocodeResponse struct {
	Features []geocodeFeature `json:"features"`
}

type geocodeFeature struct {
	Geometry geocodeGeometry `json:"geometry"`
}

type geocodeGeometry struct {
	// GeoJSON order: [lon, lat]
	Coordinates []float64 `json:"coordinates"`
}

type directionsRequest struct {
	// [lon, lat] pairs, origin first
	Coordinates  [][]float64 `json:"coordinates"`
	Preference   string      `json:"preference"`
	Units        string      `json:"units"`
	Language     string      `json:"language"`
	Instructions bool        `json:"instructions"`
	Geometry     bool        `json:"geometry"`
}

type directionsResponse struct {
	Routes []routePayload `json:"routes"`
	Error  *errorPayload  `json:"error"`
}

type routePayload struct {
	Summary *summaryPayload `json:"summary"`
	// encoded polyline
	Geometry string `json:"geometry"`
}

type summaryPayload struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
