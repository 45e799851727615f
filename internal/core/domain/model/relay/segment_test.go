package relay_test

import (
	"testing"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSegment(t *testing.T) {
	point := meridianPoint(t, 0.5)
	code, err := relay.ConfirmationCodeFromString("AB2CD3")
	require.NoError(t, err)

	t.Run("should create an unconfirmed segment", func(t *testing.T) {
		id := kernel.NewUUID()
		parcelID := kernel.NewUUID()
		from := kernel.NewUUID()
		to := kernel.NewUUID()
		createdAt := time.Now()

		segment, err := relay.NewSegment(
			id, parcelID, from, to,
			"18 Rue de la Paix, Lyon",
			point, code,
			relay.Shares{Outgoing: 50, Incoming: 50},
			createdAt,
		)

		require.NoError(t, err)
		require.NoError(t, segment.Validate())
		assert.Equal(t, id, segment.ID())
		assert.Equal(t, parcelID, segment.ParcelID())
		assert.Equal(t, from, segment.FromCourierID())
		assert.Equal(t, to, segment.ToCourierID())
		assert.Equal(t, "18 Rue de la Paix, Lyon", segment.Address())
		assert.Equal(t, point, segment.Point())
		assert.Equal(t, code, segment.Code())
		assert.False(t, segment.Confirmed())
		assert.Equal(t, 50, segment.OutgoingShare())
		assert.Equal(t, 50, segment.IncomingShare())
		assert.Equal(t, createdAt, segment.CreatedAt())
	})

	t.Run("should reject a handoff to the same courier", func(t *testing.T) {
		courierID := kernel.NewUUID()

		_, err := relay.NewSegment(
			kernel.NewUUID(), kernel.NewUUID(), courierID, courierID,
			"18 Rue de la Paix, Lyon",
			point, code,
			relay.Shares{Outgoing: 50, Incoming: 50},
			time.Now(),
		)

		assert.ErrorIs(t, err, relay.ErrHandoffToSelf)
	})

	t.Run("should reject an empty address", func(t *testing.T) {
		_, err := relay.NewSegment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"",
			point, code,
			relay.Shares{Outgoing: 50, Incoming: 50},
			time.Now(),
		)

		require.Error(t, err)
	})

	t.Run("should reject invalid shares", func(t *testing.T) {
		_, err := relay.NewSegment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"18 Rue de la Paix, Lyon",
			point, code,
			relay.Shares{Outgoing: -1, Incoming: 50},
			time.Now(),
		)

		require.Error(t, err)
	})
}

func TestRestoreSegment(t *testing.T) {
	point := meridianPoint(t, 0.5)
	code, err := relay.ConfirmationCodeFromString("AB2CD3")
	require.NoError(t, err)

	segment, err := relay.RestoreSegment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"18 Rue de la Paix, Lyon",
		point, code,
		relay.Shares{Outgoing: 50, Incoming: 50},
		true,
		time.Now(),
	)

	require.NoError(t, err)
	assert.True(t, segment.Confirmed())
}

func TestSegment_Validate(t *testing.T) {
	t.Run("should reject zero value segment", func(t *testing.T) {
		var s relay.Segment

		assert.ErrorIs(t, s.Validate(), relay.ErrSegmentIsNotConstructed)
	})

	t.Run("should reject nil segment", func(t *testing.T) {
		var s *relay.Segment

		assert.ErrorIs(t, s.Validate(), relay.ErrSegmentIsNotConstructed)
	})
}

func TestSegment_MatchesConfirmation(t *testing.T) {
	parcelID := kernel.NewUUID()
	receiver := kernel.NewUUID()
	code, err := relay.ConfirmationCodeFromString("AB2CD3")
	require.NoError(t, err)

	segment, err := relay.NewSegment(
		kernel.NewUUID(), parcelID, kernel.NewUUID(), receiver,
		"18 Rue de la Paix, Lyon",
		meridianPoint(t, 0.5), code,
		relay.Shares{Outgoing: 50, Incoming: 50},
		time.Now(),
	)
	require.NoError(t, err)

	t.Run("should match the receiving courier with the right code", func(t *testing.T) {
		assert.True(t, segment.MatchesConfirmation(receiver, "ab2cd3"))
	})

	t.Run("should reject other couriers", func(t *testing.T) {
		assert.False(t, segment.MatchesConfirmation(kernel.NewUUID(), "AB2CD3"))
	})

	t.Run("should reject a wrong code", func(t *testing.T) {
		assert.False(t, segment.MatchesConfirmation(receiver, "AB2CD4"))
	})

	t.Run("should never match once confirmed", func(t *testing.T) {
		require.NoError(t, segment.Confirm())

		assert.False(t, segment.MatchesConfirmation(receiver, "AB2CD3"))
	})
}

func TestSegment_Confirm(t *testing.T) {
	segment := segmentAt(t, kernel.NewUUID(), meridianPoint(t, 0.5), relay.Shares{Outgoing: 50, Incoming: 50})

	require.NoError(t, segment.Confirm())
	assert.True(t, segment.Confirmed())

	assert.ErrorIs(t, segment.Confirm(), relay.ErrInvalidCode)
}
