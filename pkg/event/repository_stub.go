package event

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StoreStub is an in-memory Store used by tests of the packages built on
// top of the event store.
type StoreStub struct {
	mu      sync.RWMutex
	records []Record
	colors  map[int64]string
	err     error
}

func NewStoreStub() *StoreStub {
	return &StoreStub{colors: make(map[int64]string)}
}

// Add stores records, assigning an id to those without one.
func (s *StoreStub) Add(records ...Record) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		s.records = append(s.records, r)
		added = append(added, r)
	}
	return added
}

func (s *StoreStub) SetColor(categoryID int64, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors[categoryID] = color
}

// FailWith makes every subsequent fetch return err.
func (s *StoreStub) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FetchRecords returns every stored record except drafts when they are not
// requested. Window filtering is left to the expander.
func (s *StoreStub) FetchRecords(ctx context.Context, window Window, includeDrafts bool) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Status == StatusDraft && !includeDrafts {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *StoreStub) FetchCategoryColors(ctx context.Context) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	colors := make(map[int64]string, len(s.colors))
	for k, v := range s.colors {
		colors[k] = v
	}
	return colors, nil
}

func (s *StoreStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.colors = make(map[int64]string)
	s.err = nil
}
