package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fleetops-backend/internal/tabular"
)

// MemStore is an in-memory Store for tests and for exercising the engines
// without file I/O.
type MemStore struct {
	mu       sync.RWMutex
	datasets map[string]*tabular.Dataset
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{datasets: make(map[string]*tabular.Dataset)}
}

func (s *MemStore) Load(ctx context.Context, name string) (*tabular.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", tabular.ErrDatasetNotFound, name)
	}
	return ds, nil
}

func (s *MemStore) Save(ctx context.Context, name string, ds *tabular.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[name] = ds
	return nil
}

func (s *MemStore) Exists(ctx context.Context, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.datasets[name]
	return ok
}

func (s *MemStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.datasets))
	for name, ds := range s.datasets {
		infos = append(infos, Info{Name: name, Rows: ds.Len(), Columns: ds.Columns})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
