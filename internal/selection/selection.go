// Package selection remembers which website a user is currently working on.
// The storage backend is always passed in explicitly.
package selection

import (
	"fmt"
	"log"
	"net/url"

	"github.com/google/uuid"
)

const (
	// Key is the storage key holding the selected website ID
	Key = "selectedWebsiteId"

	// QueryParam is the query parameter that overrides the stored selection
	QueryParam = "websiteId"
)

// Store is a minimal key-value store
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Selector reads and writes the current website selection
type Selector struct {
	store Store
}

// NewSelector creates a Selector backed by store
func NewSelector(store Store) *Selector {
	return &Selector{store: store}
}

// Current returns the selected website ID. A valid override (typically the
// websiteId query parameter or a --website flag) wins over the stored value.
// A stored value that is not a valid ID is removed.
func (s *Selector) Current(override string) (string, bool, error) {
	if override != "" {
		if id, err := uuid.Parse(override); err == nil {
			return id.String(), true, nil
		}
	}

	stored, ok, err := s.store.Get(Key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read selection: %w", err)
	}
	if !ok || stored == "" {
		return "", false, nil
	}

	id, err := uuid.Parse(stored)
	if err != nil {
		log.Printf("Discarding invalid stored website selection %q", stored)
		if err := s.store.Delete(Key); err != nil {
			return "", false, fmt.Errorf("failed to clear invalid selection: %w", err)
		}
		return "", false, nil
	}

	return id.String(), true, nil
}

// Select stores id as the current website
func (s *Selector) Select(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid website id %q: %w", id, err)
	}
	return s.store.Set(Key, parsed.String())
}

// Clear removes the stored selection
func (s *Selector) Clear() error {
	return s.store.Delete(Key)
}

// QueryValue returns the selection override carried by q
func QueryValue(q url.Values) string {
	return q.Get(QueryParam)
}

// WithSelection returns a copy of q with the selection parameter set to id,
// or removed when id is empty.
func WithSelection(q url.Values, id string) url.Values {
	out := make(url.Values, len(q)+1)
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	if id == "" {
		out.Del(QueryParam)
	} else {
		out.Set(QueryParam, id)
	}
	return out
}
