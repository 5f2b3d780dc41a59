package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"svw.info/wordladder/internal/domain"
)

// FS stores one JSON file per record under <dir>/<difficulty>/<id>.json.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

var errMissingID = fmt.Errorf("%w: record is missing an id", domain.ErrMalformedInput)

func (s *FS) pathFor(id string, d domain.Difficulty) string {
	return filepath.Join(s.dir, d.String(), strings.TrimSpace(id)+".json")
}

// validID rejects ids that would escape the store directory.
func validID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (s *FS) Save(ctx context.Context, r *domain.Record) error {
	if r == nil || !validID(r.ID) {
		return errMissingID
	}
	if err := r.Puzzle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	d := r.Puzzle.Difficulty()
	// a record lives in exactly one tier folder
	for _, other := range domain.Difficulties {
		if other == d {
			continue
		}
		if err := os.Remove(s.pathFor(r.ID, other)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	target := s.pathFor(r.ID, d)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Record, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	for _, d := range domain.Difficulties {
		data, err := os.ReadFile(s.pathFor(id, d))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var out domain.Record
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
}

// List scans every difficulty folder. Unreadable or foreign files are skipped.
func (s *FS) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	var out []domain.PuzzleMeta
	for _, d := range domain.Difficulties {
		dir := filepath.Join(s.dir, d.String())
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var r domain.Record
			if err := json.Unmarshal(data, &r); err != nil || r.ID == "" {
				continue
			}
			out = append(out, r.Meta())
		}
	}
	sortMeta(out)
	return out, nil
}

// sortMeta orders listings newest first, then by id.
func sortMeta(ms []domain.PuzzleMeta) {
	slices.SortFunc(ms, func(a, b domain.PuzzleMeta) int {
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt > b.CreatedAt {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}
