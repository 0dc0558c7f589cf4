// Package ors talks to the openrouteservice API: forward geocoding and
// heavy-goods-vehicle directions. All calls carry a per-request timeout, a
// bounded retry policy for transient failures and a client-side rate limit.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/trip"
	"github.com/lintang-b-s/eldx/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const drivingProfile = "driving-hgv"

type Client struct {
	log        *zap.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(log *zap.Logger) *Client {
	viper.SetDefault("ORS_BASE_URL", "https://api.openrouteservice.org")
	viper.SetDefault("ORS_TIMEOUT", "30s")
	viper.SetDefault("ORS_MAX_RETRIES", 3)
	viper.SetDefault("ORS_RETRY_BACKOFF", "500ms")
	viper.SetDefault("ORS_RATE_LIMIT_RPS", 2.0)

	return &Client{
		log: log,
		httpClient: &http.Client{
			Timeout: viper.GetDuration("ORS_TIMEOUT"),
		},
		baseURL:    viper.GetString("ORS_BASE_URL"),
		apiKey:     viper.GetString("OPENROUTE_API_KEY"),
		limiter:    rate.NewLimiter(rate.Limit(viper.GetFloat64("ORS_RATE_LIMIT_RPS")), 1),
		maxRetries: viper.GetInt("ORS_MAX_RETRIES"),
		backoff:    viper.GetDuration("ORS_RETRY_BACKOFF"),
	}
}

// Geocode resolves a free-text address to a coordinate. A response with no
// features maps to a not-found coded error.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	if address == "" {
		return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"geocode address is empty")
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("text", address)
	query.Set("size", "1")
	endpoint := fmt.Sprintf("%s/geocode/search?%s", c.baseURL, query.Encode())

	body, err := c.do(ctx, util.ErrInternalServerError, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return geo.Coordinate{}, err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, util.ErrInternalServerError,
			"decode geocoding response for %q", address)
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		c.log.Warn("no geocoding result", zap.String("address", address))
		return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrNotFound,
			"no geocoding result for %q", address)
	}

	coords := resp.Features[0].Geometry.Coordinates
	resolved := geo.NewCoordinate(coords[1], coords[0])
	c.log.Debug("address geocoded", zap.String("address", address),
		zap.Float64("lat", resolved.Lat), zap.Float64("lon", resolved.Lon))
	return resolved, nil
}

// Directions fetches one driving-hgv route leg between two coordinates.
func (c *Client) Directions(ctx context.Context, origin, destination geo.Coordinate) (trip.RouteLeg, error) {
	reqPayload := directionsRequest{
		Coordinates: [][]float64{
			{origin.Lon, origin.Lat},
			{destination.Lon, destination.Lat},
		},
		Preference:   "recommended",
		Units:        "mi",
		Language:     "en",
		Instructions: true,
		Geometry:     true,
	}
	payload, err := json.Marshal(reqPayload)
	if err != nil {
		return trip.RouteLeg{}, util.WrapErrorf(err, util.ErrInternalServerError,
			"encode directions request")
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, drivingProfile)

	body, err := c.do(ctx, util.ErrRouteUnavailable, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return trip.RouteLeg{}, err
	}

	var resp directionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trip.RouteLeg{}, util.WrapErrorf(err, util.ErrMalformedRouteData,
			"decode directions response")
	}

	if resp.Error != nil {
		return trip.RouteLeg{}, util.WrapErrorf(nil, util.ErrRouteUnavailable,
			"routing provider error: %s (code: %d)", resp.Error.Message, resp.Error.Code)
	}
	if len(resp.Routes) == 0 {
		return trip.RouteLeg{}, util.WrapErrorf(nil, util.ErrRouteUnavailable,
			"routing provider returned no routes")
	}

	route := resp.Routes[0]
	if route.Summary == nil || route.Geometry == "" {
		return trip.RouteLeg{}, util.WrapErrorf(nil, util.ErrMalformedRouteData,
			"route is missing summary or geometry")
	}

	geometry, err := geo.CoordsFromPolyline(route.Geometry)
	if err != nil {
		return trip.RouteLeg{}, err
	}

	c.log.Info("route leg calculated",
		zap.Float64("distance_miles", route.Summary.Distance),
		zap.Float64("duration_hours", util.SecondsToHours(route.Summary.Duration)))

	return trip.NewRouteLeg(route.Summary.Distance, route.Summary.Duration, geometry), nil
}

// do runs one HTTP exchange with bounded retries. Only transport errors and
// retryable status codes are retried; the request is rebuilt every attempt
// because bodies are single-use. terminalCode is the coded error a
// non-recoverable failure is wrapped in, so geocoding failures are not
// reported as routing failures.
func (c *Client) do(ctx context.Context, terminalCode error, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
			c.log.Warn("retrying provider request", zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "build provider request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, util.WrapErrorf(nil, terminalCode,
				"provider returned status %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, util.WrapErrorf(lastErr, terminalCode,
		"provider unreachable after %d attempts", c.maxRetries+1)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
