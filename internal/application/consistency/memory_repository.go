package consistency

import (
	"context"
	"sync"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// memoryRepository keeps override sets in process memory. It is used when
// no Redis store is configured.
type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]reference.Overrides
}

// NewMemoryOverrideRepository returns an in-process OverrideRepository.
func NewMemoryOverrideRepository() reference.OverrideRepository {
	return &memoryRepository{items: make(map[string]reference.Overrides)}
}

func (r *memoryRepository) Load(_ context.Context, sessionID string) (reference.Overrides, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[sessionID]
	if !ok {
		return reference.Overrides{}, errors.New(errors.ErrCodeSessionNotFound, "no overrides stored").WithDetail("id=" + sessionID)
	}
	return cloneOverrides(o), nil
}

func (r *memoryRepository) Save(_ context.Context, sessionID string, o reference.Overrides) error {
	if sessionID == "" {
		return errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sessionID] = cloneOverrides(o)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, sessionID)
	return nil
}

func cloneOverrides(o reference.Overrides) reference.Overrides {
	return reference.Overrides{
		Language:          o.Language,
		ManualMultiWord:   append([]string(nil), o.ManualMultiWord...),
		DisabledMultiWord: append([]string(nil), o.DisabledMultiWord...),
		ClearedErrors:     append([]string(nil), o.ClearedErrors...),
		ClearedPositions:  append([]reference.Span(nil), o.ClearedPositions...),
	}
}

//Personal.AI order the ending
