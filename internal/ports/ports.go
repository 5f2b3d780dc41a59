package ports

import (
	"context"
	"time"

	"svw.info/wordladder/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Attempts int
	Duration time.Duration
}

// PathFinder answers shortest-ladder queries over a built word graph.
type PathFinder interface {
	ShortestPath(start, end string) ([]string, bool)
}

// Generator creates puzzles from endpoint pairs or random samples.
type Generator interface {
	Generate(start, end string) (domain.Puzzle, bool)
	PickRandomWords() (string, string, error)
	GenerateBatch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Puzzle, Stats, error)
}

// Verifier checks the shape of a comma-separated ladder.
type Verifier interface {
	VerifyPuzzle(csv string) (bool, error)
}

// Hinter returns the next word toward a target.
type Hinter interface {
	Hint(current, target string) (domain.Hint, bool)
}

// Selector assembles a difficulty-balanced set from a pool.
type Selector interface {
	Select(pool []domain.Puzzle, total int, ratios domain.Ratios) []domain.Puzzle
}

// Storage persists and retrieves puzzle records.
type Storage interface {
	Save(ctx context.Context, r *domain.Record) error
	Load(ctx context.Context, id string) (*domain.Record, error)
	List(ctx context.Context) ([]domain.PuzzleMeta, error)
}

// WordSource supplies the dictionary and the curated base words.
type WordSource interface {
	Dictionary(ctx context.Context) ([]string, error)
	BaseWords(ctx context.Context) ([]string, error)
}
