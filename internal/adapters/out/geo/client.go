// Package geo resolves street addresses to coordinates through an external
// Nominatim-compatible geocoding service, with an optional Redis cache in
// front of it.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// HTTPGeocoder resolves addresses against a Nominatim-style search endpoint.
// Any failure to produce usable coordinates, including transport errors and
// empty result sets, is reported as ports.ErrGeocodingFailed so callers can
// treat the address as unresolvable.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGeocoder creates a geocoder talking to the service at baseURL.
func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves the address or fails with ports.ErrGeocodingFailed.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, fmt.Errorf("%w: geocoding service returned %d", ports.ErrGeocodingFailed, resp.StatusCode)
	}

	var results []searchResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}

	if len(results) == 0 {
		return kernel.GeoPoint{}, fmt.Errorf("%w: no results for address", ports.ErrGeocodingFailed)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeocodingFailed, err)
	}

	return point, nil
}
