package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/clock"
	"gearshare/internal/pkg/apperror"
)

type fakeUsers map[int64]string

func (f fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

func (f fakeUsers) Get(_ context.Context, id int64) (*UserInfo, error) {
	name, ok := f[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &UserInfo{ID: id, Name: name}, nil
}

type fakeItems map[int64]ItemInfo

func (f fakeItems) Info(_ context.Context, id int64) (*ItemInfo, error) {
	i, ok := f[id]
	if !ok {
		return nil, apperror.New(http.StatusNotFound, "item not found")
	}
	return &i, nil
}

func newTestService(users fakeUsers, items fakeItems) (Service, *clock.Fixed) {
	clk := &clock.Fixed{Instant: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(NewMemoryRepository(), users, items, clk, zerolog.Nop())
	return svc, clk
}

func TestCreateValidation(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "booker"}
	items := fakeItems{
		10: {ID: 10, OwnerID: 1, Name: "drill", Available: true},
		11: {ID: 11, OwnerID: 1, Name: "broken saw", Available: false},
	}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 2,
			Start: now.Add(2 * time.Hour), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("end equals start", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 2,
			Start: now.Add(time.Hour), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("start in the past", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 2,
			Start: now.Add(-time.Minute), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("start exactly now passes", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 2,
			Start: now, End: now.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, b.Status)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 99,
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 99, InitiatorID: 2,
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		})
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("unavailable item", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 11, InitiatorID: 2,
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("owner booking own item looks like missing item", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 1,
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		})
		require.ErrorIs(t, err, ErrOwnerSelfBooking)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		assert.Equal(t, "item not found", appErr.Message)
	})
}

func TestCreateSoftHoldAndConflict(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "anna", 3: "boris"}
	items := fakeItems{10: {ID: 10, OwnerID: 1, Name: "drill", Available: true}}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	first, err := svc.Create(ctx, CreateRequest{
		ItemID: 10, InitiatorID: 2,
		Start: now.Add(time.Hour), End: now.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	t.Run("waiting booking does not block an overlapping request", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 3,
			Start: now.Add(2 * time.Hour), End: now.Add(4 * time.Hour),
		})
		require.NoError(t, err)
	})

	_, err = svc.ChangeStatus(ctx, first.ID, true, 1)
	require.NoError(t, err)

	t.Run("approved booking blocks overlap", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 3,
			Start: now.Add(2 * time.Hour), End: now.Add(5 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("touching endpoint counts as overlap", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 3,
			Start: now.Add(3 * time.Hour), End: now.Add(4 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("disjoint period is accepted", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{
			ItemID: 10, InitiatorID: 3,
			Start: now.Add(4 * time.Hour), End: now.Add(5 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, b.Status)
	})
}

func TestChangeStatus(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "booker"}
	items := fakeItems{10: {ID: 10, OwnerID: 1, Name: "drill", Available: true}}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	b, err := svc.Create(ctx, CreateRequest{
		ItemID: 10, InitiatorID: 2,
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	t.Run("initiator cannot decide", func(t *testing.T) {
		_, err := svc.ChangeStatus(ctx, b.ID, true, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger cannot decide", func(t *testing.T) {
		_, err := svc.ChangeStatus(ctx, b.ID, true, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner approves", func(t *testing.T) {
		decided, err := svc.ChangeStatus(ctx, b.ID, true, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, decided.Status)
	})

	t.Run("second decision is rejected", func(t *testing.T) {
		_, err := svc.ChangeStatus(ctx, b.ID, true, 1)
		assert.ErrorIs(t, err, ErrAlreadyDecided)

		_, err = svc.ChangeStatus(ctx, b.ID, false, 1)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	})
}

func TestGetByIDVisibility(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "booker", 3: "stranger"}
	items := fakeItems{10: {ID: 10, OwnerID: 1, Name: "drill", Available: true}}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	b, err := svc.Create(ctx, CreateRequest{
		ItemID: 10, InitiatorID: 2,
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	t.Run("initiator sees booking", func(t *testing.T) {
		got, err := svc.GetByID(ctx, b.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, "drill", got.ItemName)
		assert.Equal(t, "booker", got.InitiatorName)
	})

	t.Run("owner sees booking", func(t *testing.T) {
		got, err := svc.GetByID(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, b.ID, 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 999, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchStatesAndPagination(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "booker", 3: "other owner", 4: "other booker"}
	items := fakeItems{
		10: {ID: 10, OwnerID: 1, Name: "drill", Available: true},
		20: {ID: 20, OwnerID: 3, Name: "ladder", Available: true},
	}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	book := func(itemID, initiatorID int64, start, end time.Duration) *Booking {
		b, err := svc.Create(ctx, CreateRequest{
			ItemID: itemID, InitiatorID: initiatorID,
			Start: now.Add(start), End: now.Add(end),
		})
		require.NoError(t, err)
		return b
	}

	// All created while WAITING so overlap never interferes; decisions
	// come afterwards.
	past := book(10, 2, time.Hour, 2*time.Hour)
	current := book(10, 2, 3*time.Hour, 10*time.Hour)
	waiting := book(10, 2, 5*time.Hour, 6*time.Hour)
	rejected := book(10, 2, 7*time.Hour, 8*time.Hour)
	book(20, 4, 20*time.Hour, 21*time.Hour) // unrelated to owner 1

	_, err := svc.ChangeStatus(ctx, past.ID, true, 1)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, current.ID, true, 1)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, rejected.ID, false, 1)
	require.NoError(t, err)

	clk.Advance(4 * time.Hour)

	ids := func(bookings []*Booking) []int64 {
		out := make([]int64, len(bookings))
		for i, b := range bookings {
			out[i] = b.ID
		}
		return out
	}

	t.Run("ALL is ordered newest start first", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchAll, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, waiting.ID, current.ID, past.ID}, ids(got))
	})

	t.Run("CURRENT straddles now regardless of status", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchCurrent, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID}, ids(got))
	})

	t.Run("PAST is approved and finished", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchPast, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{past.ID}, ids(got))
	})

	t.Run("FUTURE excludes rejected", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchFuture, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{waiting.ID}, ids(got))
	})

	t.Run("WAITING", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchWaiting, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{waiting.ID}, ids(got))
	})

	t.Run("REJECTED", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchRejected, 2, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID}, ids(got))
	})

	t.Run("owner viewpoint scopes to owned items", func(t *testing.T) {
		got, err := svc.ListByOwner(ctx, SearchAll, 1, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, waiting.ID, current.ID, past.ID}, ids(got))

		got, err = svc.ListByOwner(ctx, SearchAll, 3, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(20), got[0].ItemID)
	})

	t.Run("pagination by aligned offset", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchAll, 2, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, waiting.ID}, ids(got))

		got, err = svc.ListByInitiator(ctx, SearchAll, 2, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID, past.ID}, ids(got))
	})

	t.Run("unaligned offset degrades to its page", func(t *testing.T) {
		got, err := svc.ListByInitiator(ctx, SearchAll, 2, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID, past.ID}, ids(got))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ListByInitiator(ctx, SearchAll, 99, 0, 10)
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = svc.ListByOwner(ctx, SearchAll, 99, 0, 10)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestItemEdgeLookups(t *testing.T) {
	users := fakeUsers{1: "owner", 2: "booker"}
	items := fakeItems{10: {ID: 10, OwnerID: 1, Name: "drill", Available: true}}
	svc, clk := newTestService(users, items)
	ctx := context.Background()
	now := clk.Instant

	first, err := svc.Create(ctx, CreateRequest{
		ItemID: 10, InitiatorID: 2,
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateRequest{
		ItemID: 10, InitiatorID: 2,
		Start: now.Add(6 * time.Hour), End: now.Add(7 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, first.ID, true, 1)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, second.ID, true, 1)
	require.NoError(t, err)

	clk.Advance(4 * time.Hour)

	t.Run("last is the latest started approved booking", func(t *testing.T) {
		got, err := svc.LastForItem(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("next is the earliest upcoming approved booking", func(t *testing.T) {
		got, err := svc.NextForItem(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("no bookings yields nil without error", func(t *testing.T) {
		got, err := svc.LastForItem(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = svc.NextForItem(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("was booked by requires a finished booking", func(t *testing.T) {
		booked, err := svc.WasBookedBy(ctx, 10, 2)
		require.NoError(t, err)
		assert.True(t, booked)

		booked, err = svc.WasBookedBy(ctx, 10, 1)
		require.NoError(t, err)
		assert.False(t, booked)
	})
}

func TestParseSearchState(t *testing.T) {
	for _, token := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		state, err := ParseSearchState(token)
		require.NoError(t, err)
		assert.Equal(t, SearchState(token), state)
	}

	_, err := ParseSearchState("SOMEDAY")
	require.ErrorIs(t, err, ErrUnsupportedState)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Unknown state: SOMEDAY", appErr.Message)
}
