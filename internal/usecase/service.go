package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/ports"
)

// Service composes the ladder ports into the operations exposed by the CLI,
// the HTTP API and the cloud function.
type Service struct {
	Generator ports.Generator
	Verifier  ports.Verifier
	Hinter    ports.Hinter
	Selector  ports.Selector
	Storage   ports.Storage
	Log       *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewService(g ports.Generator, v ports.Verifier, h ports.Hinter, sel ports.Selector, st ports.Storage) *Service {
	return &Service{
		Generator: g, Verifier: v, Hinter: h, Selector: sel, Storage: st,
		Log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// Generate returns the shortest ladder from start to end. With both words
// empty it samples a random pair of base words instead.
func (u *Service) Generate(ctx context.Context, start, end string) (domain.Puzzle, error) {
	if u.Generator == nil {
		return domain.Puzzle{}, errNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return domain.Puzzle{}, err
	}
	switch {
	case start == "" && end == "":
		var err error
		if start, end, err = u.Generator.PickRandomWords(); err != nil {
			return domain.Puzzle{}, err
		}
	case start == "" || end == "":
		return domain.Puzzle{}, fmt.Errorf("%w: need both a start and an end word", domain.ErrMalformedInput)
	}
	p, ok := u.Generator.Generate(start, end)
	if !ok {
		return domain.Puzzle{}, fmt.Errorf("%w: %q and %q", domain.ErrNoLadder, start, end)
	}
	return p, nil
}

func (u *Service) Batch(ctx context.Context, count int, d domain.Difficulty) ([]domain.Puzzle, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Generator.GenerateBatch(ctx, count, d)
}

// Bulk generates perTier puzzles of every difficulty, easy first. A tier that
// misses its quota does not stop the others; the partial result is returned
// together with the joined errors.
func (u *Service) Bulk(ctx context.Context, perTier int) ([]domain.Puzzle, error) {
	if u.Generator == nil {
		return nil, errNotConfigured
	}
	var (
		out  []domain.Puzzle
		errs []error
	)
	for _, d := range domain.Difficulties {
		ps, st, err := u.Generator.GenerateBatch(ctx, perTier, d)
		out = append(out, ps...)
		u.log().Info("bulk tier", "difficulty", d.String(), "count", len(ps), "attempts", st.Attempts)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrQuotaUnmet) {
			return out, err
		}
		errs = append(errs, err)
	}
	return out, errors.Join(errs...)
}

// Balanced builds a pool of twice count puzzles per tier and selects count of
// them according to ratios. Unmet tier quotas are tolerated since the selector
// backfills from the rest of the pool.
func (u *Service) Balanced(ctx context.Context, count int, ratios domain.Ratios) ([]domain.Puzzle, error) {
	if u.Selector == nil {
		return nil, errNotConfigured
	}
	pool, err := u.Bulk(ctx, 2*count)
	if err != nil && !errors.Is(err, domain.ErrQuotaUnmet) {
		return nil, err
	}
	if err != nil {
		u.log().Warn("balanced pool incomplete", "pool", len(pool), "err", err)
	}
	return u.Selector.Select(pool, count, ratios), nil
}

func (u *Service) Verify(ctx context.Context, csv string) (bool, error) {
	if u.Verifier == nil {
		return false, errNotConfigured
	}
	return u.Verifier.VerifyPuzzle(csv)
}

func (u *Service) Hint(ctx context.Context, current, target string) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	h, ok := u.Hinter.Hint(current, target)
	return h, ok, nil
}

// Persistence

// Save assigns an id and creation time when they are missing.
func (u *Service) Save(ctx context.Context, r *domain.Record) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if r.ID == "" {
		r.ID = u.newID()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = u.now().UnixNano()
	}
	return u.Storage.Save(ctx, r)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Record, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

func (u *Service) log() *slog.Logger {
	if u.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return u.Log
}
