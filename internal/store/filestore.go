package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"fleetops-backend/internal/tabular"

	"github.com/rs/zerolog/log"
)

var datasetNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FileStore keeps one CSV file (header row + data rows) per dataset under a
// single directory. Writes go through a per-name mutex and a temp-file
// rename, so concurrent report generation and uploads cannot tear a file;
// readers always see the last fully written version.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) nameLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func (s *FileStore) path(name string) (string, error) {
	if !datasetNameRe.MatchString(name) {
		return "", fmt.Errorf("%w: bad dataset name %q", tabular.ErrInvalidArgument, name)
	}
	return filepath.Join(s.dir, name+".csv"), nil
}

// Load reads the named dataset. A missing file is ErrDatasetNotFound.
func (s *FileStore) Load(ctx context.Context, name string) (*tabular.Dataset, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tabular.ErrDatasetNotFound, name)
		}
		return nil, fmt.Errorf("open dataset %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}
	if len(records) == 0 {
		return tabular.New(name), nil
	}

	ds := tabular.New(name, records[0]...)
	for _, rec := range records[1:] {
		cells := make([]tabular.Cell, len(rec))
		for i, field := range rec {
			cells[i] = tabular.Parse(field)
		}
		ds.AppendRow(cells...)
	}
	return ds, nil
}

// Save replaces the named dataset wholesale. The write is atomic: data goes
// to a temp file in the same directory, then renames over the target.
func (s *FileStore) Save(ctx context.Context, name string, ds *tabular.Dataset) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	l := s.nameLock(name)
	l.Lock()
	defer l.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(ds.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header for %s: %w", name, err)
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i := range record {
			record[i] = row[i].String()
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write row for %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	log.Info().Str("dataset", name).Int("rows", ds.Len()).Msg("dataset saved")
	return nil
}

// Exists reports whether the named dataset file is present.
func (s *FileStore) Exists(ctx context.Context, name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// List returns info for every stored dataset, sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		ds, err := s.Load(ctx, name)
		if err != nil {
			log.Warn().Str("dataset", name).Err(err).Msg("skipping unreadable dataset")
			continue
		}
		infos = append(infos, Info{Name: name, Rows: ds.Len(), Columns: ds.Columns})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
