package item

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository.
type MemoryRepository struct {
	mu            sync.RWMutex
	items         map[int64]Item
	comments      map[int64][]Comment // keyed by item id
	nextItemID    int64
	nextCommentID int64
}

// NewMemoryRepository creates an empty in-memory item store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:         make(map[int64]Item),
		comments:      make(map[int64][]Comment),
		nextItemID:    1,
		nextCommentID: 1,
	}
}

func (r *MemoryRepository) Create(_ context.Context, i *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i.ID = r.nextItemID
	r.nextItemID++
	r.items[i.ID] = *i
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]*Item, error) {
	return r.filter(func(i Item) bool { return i.OwnerID == ownerID }), nil
}

func (r *MemoryRepository) ListByRequest(_ context.Context, requestID int64) ([]*Item, error) {
	return r.filter(func(i Item) bool { return i.RequestID != nil && *i.RequestID == requestID }), nil
}

func (r *MemoryRepository) Search(_ context.Context, text string) ([]*Item, error) {
	needle := strings.ToLower(text)
	return r.filter(func(i Item) bool {
		return i.Available &&
			(strings.Contains(strings.ToLower(i.Name), needle) ||
				strings.Contains(strings.ToLower(i.Description), needle))
	}), nil
}

func (r *MemoryRepository) filter(keep func(Item) bool) []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Item
	for _, i := range r.items {
		if keep(i) {
			copied := i
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return items
}

func (r *MemoryRepository) Update(_ context.Context, i *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[i.ID]; !ok {
		return ErrNotFound
	}
	r.items[i.ID] = *i
	return nil
}

func (r *MemoryRepository) CreateComment(_ context.Context, cmt *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmt.ID = r.nextCommentID
	r.nextCommentID++
	r.comments[cmt.ItemID] = append(r.comments[cmt.ItemID], *cmt)
	return nil
}

func (r *MemoryRepository) ListComments(_ context.Context, itemID int64) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.comments[itemID]
	comments := make([]*Comment, 0, len(stored))
	for _, cmt := range stored {
		copied := cmt
		comments = append(comments, &copied)
	}
	return comments, nil
}
