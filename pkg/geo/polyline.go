package geo

import (
	"github.com/twpayne/go-polyline"

	"github.com/lintang-b-s/eldx/pkg/util"
)

// PolylineFromCoords encodes an ordered coordinate path into a google encoded
// polyline (precision 5, same encoding openrouteservice returns).
func PolylineFromCoords(coords []Coordinate) string {
	flat := make([][]float64, len(coords))
	for i, c := range coords {
		flat[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(flat))
}

func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrMalformedRouteData, "decode route polyline")
	}
	coords := make([]Coordinate, len(decoded))
	for i, pair := range decoded {
		coords[i] = NewCoordinate(pair[0], pair[1])
	}
	return coords, nil
}
