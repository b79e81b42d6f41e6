package itemrequest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"gearshare/internal/clock"
	"gearshare/internal/item"
	"gearshare/internal/user"
)

type Service interface {
	Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error)
	// ListOwn returns the caller's requests with the items answering them,
	// newest first.
	ListOwn(ctx context.Context, requesterID int64) ([]*Details, error)
	// ListOthers returns other users' requests paginated by from/size.
	ListOthers(ctx context.Context, requesterID int64, from, size int) ([]*Details, error)
	GetByID(ctx context.Context, requestID, callerID int64) (*Details, error)
	Exists(ctx context.Context, requestID int64) (bool, error)
}

type service struct {
	repo  Repository
	users user.Service
	items item.Service
	clk   clock.Clock
	log   zerolog.Logger
}

func NewService(repo Repository, users user.Service, items item.Service, clk clock.Clock, log zerolog.Logger) Service {
	return &service{repo: repo, users: users, items: items, clk: clk, log: log}
}

func (s *service) Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		RequesterID: requesterID,
		Description: description,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info().Int64("requestId", req.ID).Int64("requesterId", requesterID).Msg("created new item request")
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requesterID int64) ([]*Details, error) {
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, requesterID int64, from, size int) ([]*Details, error) {
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}

	// Offsets are expected to be aligned to the page size; an unaligned
	// offset degrades to the nearest page boundary below it.
	page := 0
	if from != 0 {
		page = from / size
	}

	requests, err := s.repo.ListOthers(ctx, requesterID, size, page*size)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, requests)
}

func (s *service) GetByID(ctx context.Context, requestID, callerID int64) (*Details, error) {
	if err := s.checkUser(ctx, callerID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, req)
}

func (s *service) Exists(ctx context.Context, requestID int64) (bool, error) {
	return s.repo.ExistsByID(ctx, requestID)
}

func (s *service) checkUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrNotFound
	}
	return nil
}

func (s *service) enrich(ctx context.Context, req *ItemRequest) (*Details, error) {
	items, err := s.items.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &Details{ItemRequest: *req, Items: items}, nil
}

func (s *service) enrichAll(ctx context.Context, requests []*ItemRequest) ([]*Details, error) {
	details := make([]*Details, 0, len(requests))
	for _, req := range requests {
		d, err := s.enrich(ctx, req)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}
