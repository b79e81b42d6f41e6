package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateOverlapCheck(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	approved := &Booking{
		ItemID: 10, InitiatorID: 2, OwnerID: 1,
		Start: base.Add(time.Hour), End: base.Add(3 * time.Hour),
		Status: StatusApproved,
	}
	require.NoError(t, repo.Create(ctx, approved))
	require.Equal(t, int64(1), approved.ID)

	t.Run("overlap with approved is refused", func(t *testing.T) {
		err := repo.Create(ctx, &Booking{
			ItemID: 10, InitiatorID: 3,
			Start: base.Add(2 * time.Hour), End: base.Add(4 * time.Hour),
			Status: StatusWaiting,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("interval endpoints are inclusive", func(t *testing.T) {
		err := repo.Create(ctx, &Booking{
			ItemID: 10, InitiatorID: 3,
			Start: base.Add(3 * time.Hour), End: base.Add(4 * time.Hour),
			Status: StatusWaiting,
		})
		assert.ErrorIs(t, err, ErrConflict)

		err = repo.Create(ctx, &Booking{
			ItemID: 10, InitiatorID: 3,
			Start: base, End: base.Add(time.Hour),
			Status: StatusWaiting,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("other item is untouched", func(t *testing.T) {
		err := repo.Create(ctx, &Booking{
			ItemID: 20, InitiatorID: 3,
			Start: base.Add(2 * time.Hour), End: base.Add(4 * time.Hour),
			Status: StatusWaiting,
		})
		require.NoError(t, err)
	})

	t.Run("waiting bookings do not block", func(t *testing.T) {
		waiting := &Booking{
			ItemID: 10, InitiatorID: 3,
			Start: base.Add(5 * time.Hour), End: base.Add(6 * time.Hour),
			Status: StatusWaiting,
		}
		require.NoError(t, repo.Create(ctx, waiting))

		err := repo.Create(ctx, &Booking{
			ItemID: 10, InitiatorID: 4,
			Start: base.Add(5 * time.Hour), End: base.Add(6 * time.Hour),
			Status: StatusWaiting,
		})
		require.NoError(t, err)
	})
}

func TestMemoryScopedLookups(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b := &Booking{
		ItemID: 10, InitiatorID: 2, OwnerID: 1,
		Start: base, End: base.Add(time.Hour),
		Status: StatusWaiting,
	}
	require.NoError(t, repo.Create(ctx, b))

	t.Run("owner lookup", func(t *testing.T) {
		got, err := repo.GetByIDForOwner(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		_, err = repo.GetByIDForOwner(ctx, b.ID, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("participant lookup", func(t *testing.T) {
		for _, userID := range []int64{1, 2} {
			got, err := repo.GetByIDForParticipant(ctx, b.ID, userID)
			require.NoError(t, err)
			assert.Equal(t, b.ID, got.ID)
		}

		_, err := repo.GetByIDForParticipant(ctx, b.ID, 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, b.ID, StatusApproved))
		got, err := repo.GetByIDForOwner(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)

		assert.ErrorIs(t, repo.UpdateStatus(ctx, 999, StatusApproved), ErrNotFound)
	})
}

func TestMemorySearchOrderingAndPagination(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	add := func(initiatorID, ownerID int64, start time.Duration, status Status) *Booking {
		b := &Booking{
			ItemID: 10, InitiatorID: initiatorID, OwnerID: ownerID,
			Start: base.Add(start), End: base.Add(start + 30*time.Minute),
			Status: status,
		}
		require.NoError(t, repo.Create(ctx, b))
		return b
	}

	// Same start on purpose; ids break the tie ascending.
	early1 := add(2, 1, time.Hour, StatusWaiting)
	early2 := add(2, 1, time.Hour, StatusWaiting)
	late := add(2, 1, 5*time.Hour, StatusWaiting)
	add(3, 1, 2*time.Hour, StatusWaiting) // other initiator

	q := SearchQuery{
		State: SearchAll, UserID: 2, Viewpoint: ViewpointInitiator,
		Limit: 10, Now: base,
	}

	t.Run("start descending with id tie-break", func(t *testing.T) {
		got, err := repo.Search(ctx, q)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, late.ID, got[0].ID)
		assert.Equal(t, early1.ID, got[1].ID)
		assert.Equal(t, early2.ID, got[2].ID)
	})

	t.Run("offset past the end is empty", func(t *testing.T) {
		beyond := q
		beyond.Offset = 10
		got, err := repo.Search(ctx, beyond)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("limit truncates the page", func(t *testing.T) {
		limited := q
		limited.Limit = 2
		got, err := repo.Search(ctx, limited)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, late.ID, got[0].ID)
	})

	t.Run("owner viewpoint includes all bookings on owned items", func(t *testing.T) {
		owner := q
		owner.UserID = 1
		owner.Viewpoint = ViewpointOwner
		got, err := repo.Search(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("unknown state", func(t *testing.T) {
		bad := q
		bad.State = SearchState("SOMEDAY")
		_, err := repo.Search(ctx, bad)
		assert.ErrorIs(t, err, ErrUnsupportedState)
	})
}

func TestMemoryWasItemBookedBy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &Booking{
		ItemID: 10, InitiatorID: 2, OwnerID: 1,
		Start: base, End: base.Add(time.Hour),
		Status: StatusApproved,
	}))
	require.NoError(t, repo.Create(ctx, &Booking{
		ItemID: 10, InitiatorID: 3, OwnerID: 1,
		Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour),
		Status: StatusRejected,
	}))

	now := base.Add(4 * time.Hour)

	booked, err := repo.WasItemBookedBy(ctx, 10, 2, now)
	require.NoError(t, err)
	assert.True(t, booked)

	// rejected bookings never count
	booked, err = repo.WasItemBookedBy(ctx, 10, 3, now)
	require.NoError(t, err)
	assert.False(t, booked)

	// not finished yet
	booked, err = repo.WasItemBookedBy(ctx, 10, 2, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, booked)
}
