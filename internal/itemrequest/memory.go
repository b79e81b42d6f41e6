package itemrequest

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	requests map[int64]ItemRequest
	nextID   int64
}

// NewMemoryRepository creates an empty in-memory request store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{requests: make(map[int64]ItemRequest), nextID: 1}
}

func (r *MemoryRepository) Create(_ context.Context, req *ItemRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.ID = r.nextID
	r.nextID++
	r.requests[req.ID] = *req
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*ItemRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &req, nil
}

func (r *MemoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.requests[id]
	return ok, nil
}

func (r *MemoryRepository) ListByRequester(_ context.Context, requesterID int64) ([]*ItemRequest, error) {
	return r.newestFirst(func(req ItemRequest) bool { return req.RequesterID == requesterID }), nil
}

func (r *MemoryRepository) ListOthers(_ context.Context, requesterID int64, limit, offset int) ([]*ItemRequest, error) {
	all := r.newestFirst(func(req ItemRequest) bool { return req.RequesterID != requesterID })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryRepository) newestFirst(keep func(ItemRequest) bool) []*ItemRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*ItemRequest
	for _, req := range r.requests {
		if keep(req) {
			copied := req
			requests = append(requests, &copied)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID > requests[j].ID
	})
	return requests
}
