package datasets

import (
	"context"

	"fleetops-backend/internal/query"
	"fleetops-backend/internal/store"
)

type Service struct {
	Store store.Store
}

// List returns every stored dataset with its shape.
func (s *Service) List(ctx context.Context) ([]store.Info, error) {
	return s.Store.List(ctx)
}

// Info returns one dataset's shape.
func (s *Service) Info(ctx context.Context, name string) (*store.Info, error) {
	ds, err := s.Store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return &store.Info{Name: ds.Name, Rows: ds.Len(), Columns: ds.Columns}, nil
}

// Data loads a dataset and runs the filter/sort/paginate pipeline over it.
func (s *Service) Data(ctx context.Context, name string, req query.Request) (*query.Result, error) {
	ds, err := s.Store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return query.Page(ds, req)
}

// ColumnStats computes descriptive statistics for one column.
func (s *Service) ColumnStats(ctx context.Context, name, column string) (*query.ColumnStatsResult, error) {
	ds, err := s.Store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return query.ColumnStats(ds, column)
}
