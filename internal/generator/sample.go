package generator

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/ports"
)

// ValidBaseWordsByLength groups the base words that are also dictionary words
// by length in runes. Each bucket is sorted.
func (g *PuzzleGenerator) ValidBaseWordsByLength() map[int][]string {
	by := make(map[int][]string)
	for _, w := range g.graph.BaseWords() {
		if !g.graph.Contains(w) {
			continue
		}
		n := utf8.RuneCountInString(w)
		by[n] = append(by[n], w)
	}
	for _, words := range by {
		slices.Sort(words)
	}
	return by
}

// buckets returns the usable buckets (two or more words) in length order.
func (g *PuzzleGenerator) buckets() [][]string {
	by := g.ValidBaseWordsByLength()
	lengths := make([]int, 0, len(by))
	for n, words := range by {
		if len(words) >= 2 {
			lengths = append(lengths, n)
		}
	}
	slices.Sort(lengths)
	out := make([][]string, len(lengths))
	for i, n := range lengths {
		out[i] = by[n]
	}
	return out
}

// PickRandomWords picks a usable length bucket uniformly, then two distinct
// words from it.
func (g *PuzzleGenerator) PickRandomWords() (string, string, error) {
	b := g.buckets()
	if len(b) == 0 {
		return "", "", domain.ErrInsufficientBaseWords
	}
	start, end := g.pick(b)
	return start, end, nil
}

func (g *PuzzleGenerator) pick(buckets [][]string) (string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	words := buckets[g.rng.IntN(len(buckets))]
	start := words[g.rng.IntN(len(words))]
	end := words[g.rng.IntN(len(words))]
	// buckets hold distinct words and at least two of them
	for end == start {
		end = words[g.rng.IntN(len(words))]
	}
	return start, end
}

// GenerateBatch samples pairs until count puzzles of exactly the requested
// difficulty are found. Non-matching samples are discarded.
//
// The loop is bounded by count * max attempts per puzzle. When the budget
// runs out it returns what it has together with ErrQuotaUnmet; a canceled
// context likewise returns the partial result with ctx.Err(). With no usable
// base-word bucket the result is empty and the error is
// ErrInsufficientBaseWords.
func (g *PuzzleGenerator) GenerateBatch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Puzzle, ports.Stats, error) {
	started := time.Now()
	buckets := g.buckets()
	if len(buckets) == 0 {
		return []domain.Puzzle{}, ports.Stats{}, domain.ErrInsufficientBaseWords
	}

	limit := 0
	if g.maxAttemptsPerPuzzle > 0 {
		limit = saturatingMul(g.maxAttemptsPerPuzzle, max(count, 1))
	}
	puzzles := make([]domain.Puzzle, 0, max(count, 0))
	attempts := 0
	stats := func() ports.Stats {
		return ports.Stats{Attempts: attempts, Duration: time.Since(started)}
	}

	for len(puzzles) < count {
		if limit > 0 && attempts >= limit {
			g.log.Warn("batch quota not met",
				"difficulty", difficulty.String(),
				"want", count,
				"got", len(puzzles),
				"attempts", attempts,
			)
			return puzzles, stats(), fmt.Errorf("%w: %d of %d %s puzzles after %d attempts",
				domain.ErrQuotaUnmet, len(puzzles), count, difficulty, attempts)
		}
		if err := ctx.Err(); err != nil {
			return puzzles, stats(), err
		}
		attempts++
		start, end := g.pick(buckets)
		p, ok := g.Generate(start, end)
		if !ok || p.Difficulty() != difficulty {
			continue
		}
		puzzles = append(puzzles, p)
	}

	g.log.Debug("batch generated",
		"difficulty", difficulty.String(),
		"count", len(puzzles),
		"attempts", attempts,
		"dur", time.Since(started).Round(time.Millisecond),
	)
	return puzzles, stats(), nil
}

// saturatingMul multiplies two positive ints, clamping at math.MaxInt.
func saturatingMul(a, b int) int {
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
