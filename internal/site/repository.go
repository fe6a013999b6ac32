package site

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kettlevend/sitescout/internal/category"
)

// Summary is the list-view projection of a location.
type Summary struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Address    string              `json:"address"`
	ModuleType category.ModuleType `json:"module_type"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Repository defines the persistence operations for location
// aggregates. Deletion always removes the whole aggregate and its
// owned records; the categories and financials are composed, never
// shared between locations.
type Repository interface {
	// Save stores a new aggregate or replaces an existing one.
	Save(ctx context.Context, loc *Location) error

	// GetByID retrieves an aggregate by id. Returns ErrNotFound if
	// absent.
	GetByID(ctx context.Context, id string) (*Location, error)

	// Delete removes an aggregate and its owned records. Returns
	// ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all locations, most recently updated
	// first.
	List(ctx context.Context) ([]Summary, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	locations map[string]*Location
}

// NewInMemoryRepository creates a new in-memory location repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		locations: make(map[string]*Location),
	}
}

// Save stores a deep copy of the aggregate to avoid aliasing the
// caller's session copy.
func (r *InMemoryRepository) Save(_ context.Context, loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[loc.ID] = loc.Clone()
	return nil
}

// GetByID returns a deep copy of the stored aggregate.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.locations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return loc.Clone(), nil
}

// Delete removes the aggregate and everything it owns.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[id]; !ok {
		return ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

// List returns summaries ordered by most recent update.
func (r *InMemoryRepository) List(_ context.Context) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.locations))
	for _, loc := range r.locations {
		summaries = append(summaries, Summary{
			ID:         loc.ID,
			Name:       loc.Name,
			Address:    loc.Address,
			ModuleType: loc.ModuleType,
			UpdatedAt:  loc.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}
