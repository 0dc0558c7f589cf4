// Package overpass queries the Overpass API (OpenStreetMap) for fuel
// stations around a point. Responses arrive in the OSM JSON element format.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lintang-b-s/eldx/pkg/fuel"
	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/util"
	"github.com/paulmach/osm"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Client struct {
	log        *zap.Logger
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(log *zap.Logger) *Client {
	viper.SetDefault("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("OVERPASS_TIMEOUT", "25s")
	viper.SetDefault("OVERPASS_RATE_LIMIT_RPS", 1.0)

	return &Client{
		log: log,
		httpClient: &http.Client{
			Timeout: viper.GetDuration("OVERPASS_TIMEOUT"),
		},
		baseURL: viper.GetString("OVERPASS_BASE_URL"),
		limiter: rate.NewLimiter(rate.Limit(viper.GetFloat64("OVERPASS_RATE_LIMIT_RPS")), 1),
	}
}

// NearbyFuel returns every amenity=fuel node within radiusKm of center,
// unranked. Ranking is the caller's concern.
func (c *Client) NearbyFuel(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]fuel.GasStation, error) {
	query := fmt.Sprintf(`[out:json];
node["amenity"="fuel"](around:%.0f,%f,%f);
out body;`, radiusKm*1000, center.Lat, center.Lon)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "overpass request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
			"overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload osm.OSM
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "decode overpass response")
	}

	stations := make([]fuel.GasStation, 0, len(payload.Nodes))
	for _, node := range payload.Nodes {
		stations = append(stations, fuel.GasStation{
			Name:      stationName(node.Tags),
			Location:  geo.NewCoordinate(node.Lat, node.Lon),
			Address:   FormatAddress(node.Tags),
			Amenities: ExtractAmenities(node.Tags),
		})
	}

	c.log.Debug("overpass fuel lookup",
		zap.Float64("lat", center.Lat), zap.Float64("lon", center.Lon),
		zap.Int("stations", len(stations)))
	return stations, nil
}

var _ fuel.StationSource = (*Client)(nil)

func stationName(tags osm.Tags) string {
	if name := tags.Find("name"); name != "" {
		return name
	}
	return "Gas Station"
}

// FormatAddress builds a display address from addr:* tags.
func FormatAddress(tags osm.Tags) string {
	parts := []string{}

	street := tags.Find("addr:street")
	houseNumber := tags.Find("addr:housenumber")
	if houseNumber != "" && street != "" {
		parts = append(parts, houseNumber+" "+street)
	} else if street != "" {
		parts = append(parts, street)
	}

	if city := tags.Find("addr:city"); city != "" {
		if state := tags.Find("addr:state"); state != "" {
			city += ", " + state
		}
		parts = append(parts, city)
	}

	if postcode := tags.Find("addr:postcode"); postcode != "" {
		parts = append(parts, postcode)
	}

	if len(parts) == 0 {
		return "Unknown address"
	}
	return strings.Join(parts, ", ")
}

// ExtractAmenities maps trucking-relevant OSM tags to display labels.
func ExtractAmenities(tags osm.Tags) []string {
	amenities := []string{}

	if tags.Find("hgv") == "yes" {
		amenities = append(amenities, "Truck Friendly")
	}
	if tags.Find("hgv:parking") == "yes" {
		amenities = append(amenities, "Truck Parking")
	}
	if tags.Find("shower") == "yes" {
		amenities = append(amenities, "Showers")
	}
	if tags.Find("restaurant") == "yes" {
		amenities = append(amenities, "Restaurant")
	}
	if tags.Find("shop") == "convenience" {
		amenities = append(amenities, "Convenience Store")
	}
	if brand := tags.Find("brand"); brand != "" {
		amenities = append(amenities, "Brand: "+brand)
	}

	return amenities
}
