package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gearshare/internal/clock"
	"gearshare/internal/metrics"
)

// ItemDirectory is the item lookup the booking core consumes.
type ItemDirectory interface {
	Info(ctx context.Context, itemID int64) (*ItemInfo, error)
}

// UserDirectory is the user lookup the booking core consumes.
type UserDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	Get(ctx context.Context, userID int64) (*UserInfo, error)
}

type CreateRequest struct {
	ItemID      int64
	InitiatorID int64
	Start       time.Time
	End         time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// ChangeStatus approves or rejects a WAITING booking on behalf of the
	// item's owner. A booking invisible to the given owner and a missing
	// booking are the same ErrNotFound.
	ChangeStatus(ctx context.Context, bookingID int64, approved bool, ownerID int64) (*Booking, error)
	// GetByID returns the booking when the caller is its initiator or the
	// owner of its item; anyone else gets ErrNotFound.
	GetByID(ctx context.Context, bookingID, callerID int64) (*Booking, error)
	ListByInitiator(ctx context.Context, state SearchState, userID int64, from, size int) ([]*Booking, error)
	ListByOwner(ctx context.Context, state SearchState, ownerID int64, from, size int) ([]*Booking, error)

	// Lookups consumed by the item module.
	LastForItem(ctx context.Context, itemID int64) (*Booking, error)
	NextForItem(ctx context.Context, itemID int64) (*Booking, error)
	WasBookedBy(ctx context.Context, itemID, userID int64) (bool, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	items ItemDirectory
	clk   clock.Clock
	log   zerolog.Logger
}

func NewService(repo Repository, users UserDirectory, items ItemDirectory, clk clock.Clock, log zerolog.Logger) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		clk:   clk,
		log:   log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	now := s.clk.Now()
	if req.Start.Before(now) || !req.End.After(req.Start) {
		return nil, ErrInvalidPeriod
	}

	initiator, err := s.users.Get(ctx, req.InitiatorID)
	if err != nil {
		return nil, err
	}
	itm, err := s.items.Info(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !itm.Available {
		return nil, ErrItemUnavailable
	}
	if itm.OwnerID == req.InitiatorID {
		return nil, ErrOwnerSelfBooking
	}

	overlapping, err := s.repo.FindOverlapping(ctx, req.ItemID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		metrics.IncBookingConflict()
		return nil, ErrConflict
	}

	b := &Booking{
		ItemID:        itm.ID,
		ItemName:      itm.Name,
		InitiatorID:   initiator.ID,
		InitiatorName: initiator.Name,
		OwnerID:       itm.OwnerID,
		Start:         req.Start,
		End:           req.End,
		Status:        StatusWaiting,
	}

	s.log.Info().Int64("itemId", req.ItemID).Int64("userId", req.InitiatorID).
		Msg("creating new booking")
	if err := s.repo.Create(ctx, b); err != nil {
		if err == ErrConflict {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	return b, nil
}

func (s *service) ChangeStatus(ctx context.Context, bookingID int64, approved bool, ownerID int64) (*Booking, error) {
	b, err := s.repo.GetByIDForOwner(ctx, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	// One decision per booking: APPROVED and REJECTED are terminal.
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}
	if err := s.repo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	b.Status = status

	s.log.Info().Int64("bookingId", bookingID).Str("status", string(status)).
		Msg("booking status decided")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, callerID int64) (*Booking, error) {
	return s.repo.GetByIDForParticipant(ctx, bookingID, callerID)
}

func (s *service) ListByInitiator(ctx context.Context, state SearchState, userID int64, from, size int) ([]*Booking, error) {
	return s.search(ctx, state, userID, ViewpointInitiator, from, size)
}

func (s *service) ListByOwner(ctx context.Context, state SearchState, ownerID int64, from, size int) ([]*Booking, error) {
	return s.search(ctx, state, ownerID, ViewpointOwner, from, size)
}

func (s *service) search(ctx context.Context, state SearchState, userID int64, viewpoint Viewpoint, from, size int) ([]*Booking, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	// Offsets are expected to be aligned to the page size; an unaligned
	// offset degrades to the nearest page boundary below it.
	page := 0
	if from != 0 {
		page = from / size
	}

	q := SearchQuery{
		State:     state,
		UserID:    userID,
		Viewpoint: viewpoint,
		Limit:     size,
		Offset:    page * size,
		Now:       s.clk.Now(),
	}

	s.log.Info().Int64("userId", userID).Str("state", string(state)).
		Str("viewpoint", string(viewpoint)).Msg("searching bookings")
	return s.repo.Search(ctx, q)
}

func (s *service) LastForItem(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.FindLastForItem(ctx, itemID, s.clk.Now())
}

func (s *service) NextForItem(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.FindNextForItem(ctx, itemID, s.clk.Now())
}

func (s *service) WasBookedBy(ctx context.Context, itemID, userID int64) (bool, error) {
	return s.repo.WasItemBookedBy(ctx, itemID, userID, s.clk.Now())
}
