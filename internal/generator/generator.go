package generator

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/validator"
)

// DefaultMaxAttemptsPerPuzzle bounds batch sampling; see GenerateBatch.
const DefaultMaxAttemptsPerPuzzle = 1000

// Graph is the part of the word graph the generator needs.
type Graph interface {
	ShortestPath(start, end string) ([]string, bool)
	BaseWords() []string
	Contains(word string) bool
}

// PuzzleGenerator samples endpoint pairs from the base words and turns them
// into classified puzzles. It is safe for concurrent use.
type PuzzleGenerator struct {
	graph    Graph
	verifier *validator.LadderValidator
	log      *slog.Logger

	maxAttemptsPerPuzzle int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a PuzzleGenerator.
type Option func(*PuzzleGenerator)

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(g *PuzzleGenerator) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRand uses the given source. The generator serializes access to it.
func WithRand(r *rand.Rand) Option { return func(g *PuzzleGenerator) { g.rng = r } }

// WithMaxAttemptsPerPuzzle sets the batch budget per requested puzzle.
// n <= 0 removes the bound and restores the legacy loop, which never returns
// when the requested tier is unreachable.
func WithMaxAttemptsPerPuzzle(n int) Option {
	return func(g *PuzzleGenerator) { g.maxAttemptsPerPuzzle = n }
}

func WithLogger(l *slog.Logger) Option { return func(g *PuzzleGenerator) { g.log = l } }

// New wires a generator over a built graph.
func New(gr Graph, opts ...Option) *PuzzleGenerator {
	g := &PuzzleGenerator{
		graph:                gr,
		verifier:             validator.New(),
		maxAttemptsPerPuzzle: DefaultMaxAttemptsPerPuzzle,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		now := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(now, uint64(time.Now().Nanosecond())))
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	return g
}

// Generate finds the shortest ladder between start and end. The boolean is
// false when no ladder exists.
func (g *PuzzleGenerator) Generate(start, end string) (domain.Puzzle, bool) {
	path, ok := g.graph.ShortestPath(start, end)
	if !ok {
		return domain.Puzzle{}, false
	}
	return domain.NewPuzzle(start, end, path), true
}

// VerifyPuzzle checks a comma-separated ladder by shape only.
func (g *PuzzleGenerator) VerifyPuzzle(csv string) (bool, error) {
	return g.verifier.VerifyPuzzle(csv)
}
