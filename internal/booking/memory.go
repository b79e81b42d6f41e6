package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded in-memory Repository. Create holds
// the write lock across the overlap check and the insert, which gives the
// same atomicity the advisory lock gives the postgres implementation.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[int64]Booking
	nextID   int64
}

// NewMemoryRepository creates an empty in-memory booking store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[int64]Booking), nextID: 1}
}

func overlapsApproved(b Booking, itemID int64, start, end time.Time) bool {
	return b.ItemID == itemID &&
		b.Status == StatusApproved &&
		!b.Start.After(end) &&
		!b.End.Before(start)
}

func (r *MemoryRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if overlapsApproved(existing, b.ItemID, b.Start, b.End) {
			return ErrConflict
		}
	}

	b.ID = r.nextID
	r.nextID++
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryRepository) GetByIDForOwner(_ context.Context, id, ownerID int64) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok || b.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) GetByIDForParticipant(_ context.Context, id, userID int64) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok || (b.OwnerID != userID && b.InitiatorID != userID) {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	r.bookings[id] = b
	return nil
}

func (r *MemoryRepository) FindOverlapping(_ context.Context, itemID int64, start, end time.Time) ([]*Booking, error) {
	return r.filter(func(b Booking) bool {
		return overlapsApproved(b, itemID, start, end)
	}), nil
}

func (r *MemoryRepository) Search(_ context.Context, q SearchQuery) ([]*Booking, error) {
	statePredicate, err := statePredicate(q.State, q.Now)
	if err != nil {
		return nil, err
	}

	matched := r.filter(func(b Booking) bool {
		if q.Viewpoint == ViewpointOwner {
			if b.OwnerID != q.UserID {
				return false
			}
		} else if b.InitiatorID != q.UserID {
			return false
		}
		return statePredicate(b)
	})

	if q.Offset >= len(matched) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], nil
}

// statePredicate is the single dispatch point for the six search states.
func statePredicate(state SearchState, now time.Time) (func(Booking) bool, error) {
	switch state {
	case SearchAll:
		return func(Booking) bool { return true }, nil
	case SearchCurrent:
		return func(b Booking) bool { return b.Start.Before(now) && b.End.After(now) }, nil
	case SearchPast:
		return func(b Booking) bool { return b.Status == StatusApproved && b.End.Before(now) }, nil
	case SearchFuture:
		return func(b Booking) bool { return b.Status != StatusRejected && b.Start.After(now) }, nil
	case SearchWaiting:
		return func(b Booking) bool { return b.Status == StatusWaiting }, nil
	case SearchRejected:
		return func(b Booking) bool { return b.Status == StatusRejected }, nil
	default:
		return nil, ErrUnsupportedState
	}
}

// filter returns matches ordered by start descending, id ascending.
func (r *MemoryRepository) filter(keep func(Booking) bool) []*Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookings []*Booking
	for _, b := range r.bookings {
		if keep(b) {
			copied := b
			bookings = append(bookings, &copied)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.After(bookings[j].Start)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings
}

func (r *MemoryRepository) FindLastForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	candidates := r.filter(func(b Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved && b.Start.Before(now)
	})
	if len(candidates) == 0 {
		return nil, nil
	}
	// already sorted start descending; the first is the latest
	return candidates[0], nil
}

func (r *MemoryRepository) FindNextForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	candidates := r.filter(func(b Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved && b.Start.After(now)
	})
	if len(candidates) == 0 {
		return nil, nil
	}
	// sorted start descending; the last is the earliest upcoming
	return candidates[len(candidates)-1], nil
}

func (r *MemoryRepository) WasItemBookedBy(_ context.Context, itemID, userID int64, now time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ItemID == itemID && b.InitiatorID == userID &&
			b.Status != StatusRejected && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}
