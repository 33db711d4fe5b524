package directory

import (
	"context"
	"sync"
	"time"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/server/models"
)

// MemoryRepository is an in-process Repository with the same conditional
// semantics as the DynamoDB one. It backs the offline local server and the
// service tests.
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[string]models.User
	writes int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.User)}
}

func (r *MemoryRepository) Get(ctx context.Context, id string, includeSecret bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if !includeSecret {
		u.PasswordHash = ""
	}
	return &u, nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[user.ID]; ok {
		return common.ErrAlreadyExists
	}
	r.items[user.ID] = *user
	r.writes++
	return nil
}

func (r *MemoryRepository) SetActivated(ctx context.Context, id string, at time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// upserts like the DynamoDB update does
	u := r.items[id]
	u.ID = id
	u.Activated = &at
	r.items[id] = u
	r.writes++
	return &u, nil
}

// WriteCount reports the number of mutations applied; tests use it to assert
// idempotent operations touch storage only once.
func (r *MemoryRepository) WriteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
