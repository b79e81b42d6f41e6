package itemrequest

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/clock"
	"gearshare/internal/item"
	"gearshare/internal/user"
)

type noBookings struct{}

func (noBookings) LastForItem(context.Context, int64) (*item.BookingRef, error) { return nil, nil }
func (noBookings) NextForItem(context.Context, int64) (*item.BookingRef, error) { return nil, nil }
func (noBookings) WasBookedBy(context.Context, int64, int64) (bool, error)      { return false, nil }

type repoRequests struct{ repo Repository }

func (r repoRequests) Exists(ctx context.Context, id int64) (bool, error) {
	return r.repo.ExistsByID(ctx, id)
}

type requestFixture struct {
	svc     Service
	items   item.Service
	clk     *clock.Fixed
	askerID int64
	otherID int64
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	ctx := context.Background()
	users := user.NewService(user.NewMemoryRepository(), zerolog.Nop())
	asker, err := users.Create(ctx, user.CreateRequest{Name: "asker", Email: "asker@example.com"})
	require.NoError(t, err)
	other, err := users.Create(ctx, user.CreateRequest{Name: "other", Email: "other@example.com"})
	require.NoError(t, err)

	clk := &clock.Fixed{Instant: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryRepository()
	items := item.NewService(item.NewMemoryRepository(), users, repoRequests{repo}, noBookings{}, clk, zerolog.Nop())

	return &requestFixture{
		svc:     NewService(repo, users, items, clk, zerolog.Nop()),
		items:   items,
		clk:     clk,
		askerID: asker.ID,
		otherID: other.ID,
	}
}

func TestRequestCreate(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	t.Run("success stamps creation time", func(t *testing.T) {
		req, err := f.svc.Create(ctx, f.askerID, "need a drill")
		require.NoError(t, err)
		assert.Equal(t, int64(1), req.ID)
		assert.Equal(t, f.clk.Instant, req.CreatedAt)
	})

	t.Run("blank description", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.askerID, "   ")
		assert.ErrorIs(t, err, ErrDescriptionRequired)
	})

	t.Run("unknown requester", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 999, "need a drill")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestRequestListing(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	older, err := f.svc.Create(ctx, f.askerID, "need a drill")
	require.NoError(t, err)
	f.clk.Advance(time.Hour)
	newer, err := f.svc.Create(ctx, f.askerID, "need a ladder")
	require.NoError(t, err)
	f.clk.Advance(time.Hour)

	var foreign []*ItemRequest
	for _, desc := range []string{"need a saw", "need a tent", "need a pump"} {
		req, err := f.svc.Create(ctx, f.otherID, desc)
		require.NoError(t, err)
		foreign = append(foreign, req)
		f.clk.Advance(time.Hour)
	}

	available := true
	answered, err := f.items.Create(ctx, item.CreateRequest{
		OwnerID: f.otherID, Name: "drill", Description: "answers the wish",
		Available: &available, RequestID: &older.ID,
	})
	require.NoError(t, err)

	t.Run("own requests newest first with answers attached", func(t *testing.T) {
		got, err := f.svc.ListOwn(ctx, f.askerID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
		assert.Empty(t, got[0].Items)
		require.Len(t, got[1].Items, 1)
		assert.Equal(t, answered.ID, got[1].Items[0].ID)
	})

	t.Run("others excludes own requests", func(t *testing.T) {
		got, err := f.svc.ListOthers(ctx, f.otherID, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
	})

	t.Run("others is paginated newest first", func(t *testing.T) {
		got, err := f.svc.ListOthers(ctx, f.askerID, 0, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, foreign[2].ID, got[0].ID)
		assert.Equal(t, foreign[1].ID, got[1].ID)

		got, err = f.svc.ListOthers(ctx, f.askerID, 2, 2)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, foreign[0].ID, got[0].ID)

		// unaligned offset falls back to its page
		got, err = f.svc.ListOthers(ctx, f.askerID, 3, 2)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, foreign[0].ID, got[0].ID)
	})

	t.Run("unknown caller", func(t *testing.T) {
		_, err := f.svc.ListOwn(ctx, 999)
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = f.svc.ListOthers(ctx, 999, 0, 10)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestRequestGetByID(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Create(ctx, f.askerID, "need a drill")
	require.NoError(t, err)

	t.Run("any known user may view", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, req.ID, f.otherID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
		assert.Equal(t, "need a drill", got.Description)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, 999, f.askerID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown caller", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, req.ID, 999)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	exists, err := f.svc.Exists(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
