package uploads

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"fleetops-backend/internal/store"
	"fleetops-backend/internal/tabular"
)

type Service struct {
	Store    store.Store
	MaxBytes int64
}

// UploadResult summarizes a completed dataset replacement.
type UploadResult struct {
	Dataset string   `json:"dataset"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// ReplaceDataset parses a CSV stream (header row first) and replaces the
// named dataset wholesale. There is no merging; the uploaded file becomes
// the dataset.
func (s *Service) ReplaceDataset(ctx context.Context, name string, r io.Reader, size int64) (*UploadResult, error) {
	if s.MaxBytes > 0 && size > s.MaxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", tabular.ErrInvalidArgument, s.MaxBytes)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", tabular.ErrInvalidArgument, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: empty file, header row required", tabular.ErrInvalidArgument)
	}

	ds := tabular.New(name, records[0]...)
	for _, rec := range records[1:] {
		cells := make([]tabular.Cell, len(rec))
		for i, field := range rec {
			cells[i] = tabular.Parse(field)
		}
		ds.AppendRow(cells...)
	}

	if err := s.Store.Save(ctx, name, ds); err != nil {
		return nil, err
	}
	return &UploadResult{Dataset: name, Rows: ds.Len(), Columns: ds.Columns}, nil
}
