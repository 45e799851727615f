package ports

import (
	"context"
	"errors"

	"relay/internal/core/domain/model/kernel"
)

// ErrGeocodingFailed is returned when the geocoding collaborator cannot
// resolve an address. A handoff initiation that hits this error aborts
// without committing anything: no segment row, no phase change.
var ErrGeocodingFailed = errors.New("address could not be geocoded")

// Geocoder resolves a free-text street address into coordinates.
// It is called synchronously from handoff initiation; caching and retry
// policy are the implementation's concern, not the core's.
type Geocoder interface {
	// Geocode resolves the address or fails with ErrGeocodingFailed.
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
