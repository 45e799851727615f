package kernel_test

import (
	"testing"

	"relay/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create valid point within bounds", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(48.8566, 2.3522)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, 48.8566, p.Lat(), 1e-9)
		assert.InDelta(t, 2.3522, p.Lon(), 1e-9)
	})

	t.Run("should accept boundary latitudes and longitudes", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{90, 0}, {-90, 0}, {0, 180}, {0, -180},
		} {
			p, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
			require.NoError(t, p.Validate())
		}
	})

	t.Run("should fail with latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.001, 0)

		require.Error(t, err)
	})

	t.Run("should fail with longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.Error(t, err)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var p kernel.GeoPoint

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)
	lyon, _ := kernel.NewGeoPoint(45.7640, 4.8357)

	t.Run("should be zero at identity", func(t *testing.T) {
		km, err := paris.DistanceKm(paris)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		there, err := paris.DistanceKm(lyon)
		require.NoError(t, err)

		back, err := lyon.DistanceKm(paris)
		require.NoError(t, err)

		assert.InDelta(t, there, back, 1e-9)
	})

	t.Run("should match known distance Paris-Lyon", func(t *testing.T) {
		km, err := paris.DistanceKm(lyon)

		require.NoError(t, err)
		// Great-circle distance is roughly 392 km.
		assert.InDelta(t, 392, km, 5)
	})

	t.Run("should fail on unconstructed point", func(t *testing.T) {
		var zero kernel.GeoPoint

		_, err := paris.DistanceKm(zero)

		require.Error(t, err)
	})
}

func TestGeoPoint_WithinRadiusKm(t *testing.T) {
	paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)
	lyon, _ := kernel.NewGeoPoint(45.7640, 4.8357)

	t.Run("should include points exactly at the radius", func(t *testing.T) {
		km, err := paris.DistanceKm(lyon)
		require.NoError(t, err)

		within, err := paris.WithinRadiusKm(lyon, km)

		require.NoError(t, err)
		assert.True(t, within, "Boundary distance must count as within")
	})

	t.Run("should exclude points beyond the radius", func(t *testing.T) {
		within, err := paris.WithinRadiusKm(lyon, 100)

		require.NoError(t, err)
		assert.False(t, within)
	})

	t.Run("should include identical points for any radius", func(t *testing.T) {
		within, err := paris.WithinRadiusKm(paris, 0)

		require.NoError(t, err)
		assert.True(t, within)
	})
}
