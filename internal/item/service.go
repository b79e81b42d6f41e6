package item

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"gearshare/internal/clock"
	"gearshare/internal/user"
)

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, itemID, ownerID int64, req UpdateRequest) (*Item, error)
	// GetByID returns the item with its comments; the owner additionally
	// sees the last and next approved bookings.
	GetByID(ctx context.Context, itemID, viewerID int64) (*Details, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Details, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*Item, error)
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    user.Service
	requests RequestDirectory
	bookings BookingSource
	clk      clock.Clock
	log      zerolog.Logger
}

func NewService(
	repo Repository,
	users user.Service,
	requests RequestDirectory,
	bookings BookingSource,
	clk clock.Clock,
	log zerolog.Logger,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		clk:      clk,
		log:      log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailabilityRequired
	}

	exists, err := s.users.ExistsByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	if req.RequestID != nil {
		found, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrRequestNotFound
		}
	}

	i := &Item{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	s.log.Info().Int64("itemId", i.ID).Int64("ownerId", i.OwnerID).Msg("created new item")
	return i, nil
}

func (s *service) Update(ctx context.Context, itemID, ownerID int64, req UpdateRequest) (*Item, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if i.OwnerID != ownerID {
		return nil, ErrEditingDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		i.Name = *req.Name
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescriptionRequired
		}
		i.Description = *req.Description
	}
	if req.Available != nil {
		i.Available = *req.Available
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}

	s.log.Info().Int64("itemId", itemID).Msg("updated item")
	return i, nil
}

func (s *service) GetByID(ctx context.Context, itemID, viewerID int64) (*Details, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, i, viewerID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]*Details, error) {
	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := make([]*Details, 0, len(items))
	for _, i := range items {
		d, err := s.enrich(ctx, i, ownerID)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *service) enrich(ctx context.Context, i *Item, viewerID int64) (*Details, error) {
	comments, err := s.repo.ListComments(ctx, i.ID)
	if err != nil {
		return nil, err
	}

	d := &Details{Item: *i, Comments: comments}
	if i.OwnerID != viewerID {
		return d, nil
	}

	if d.LastBooking, err = s.bookings.LastForItem(ctx, i.ID); err != nil {
		return nil, err
	}
	if d.NextBooking, err = s.bookings.NextForItem(ctx, i.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) ListByRequest(ctx context.Context, requestID int64) ([]*Item, error) {
	return s.repo.ListByRequest(ctx, requestID)
}

func (s *service) AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextRequired
	}

	booked, err := s.bookings.WasBookedBy(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, ErrCommentNotAllowed
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	cmt := &Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  s.clk.Now(),
	}
	if err := s.repo.CreateComment(ctx, cmt); err != nil {
		return nil, err
	}

	s.log.Info().Int64("itemId", itemID).Int64("authorId", authorID).Msg("created new comment")
	return cmt, nil
}
