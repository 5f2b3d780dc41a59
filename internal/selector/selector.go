// Package selector assembles fixed-size puzzle sets that approximate a
// requested easy/medium/hard distribution.
package selector

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"svw.info/wordladder/internal/domain"
)

// Balanced picks puzzles per tier from a shuffled pool. It is safe for
// concurrent use.
type Balanced struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a selector; a nil rng is seeded from the clock.
func New(rng *rand.Rand) *Balanced {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	return &Balanced{rng: rng}
}

// Counts is the number of puzzles requested per tier.
type Counts struct {
	Easy, Medium, Hard int
}

// Total sums the tiers.
func (c Counts) Total() int { return c.Easy + c.Medium + c.Hard }

// Allocate rounds total*ratio per tier and then reconciles the sum with
// total: a shortfall goes entirely to Medium; an excess is taken from Hard,
// then Medium, then Easy, never below zero.
func Allocate(total int, r domain.Ratios) Counts {
	c := Counts{
		Easy:   share(total, r.Easy),
		Medium: share(total, r.Medium),
		Hard:   share(total, r.Hard),
	}
	switch diff := total - c.Total(); {
	case diff > 0:
		c.Medium += diff
	case diff < 0:
		excess := -diff
		for _, tier := range []*int{&c.Hard, &c.Medium, &c.Easy} {
			take := min(*tier, excess)
			*tier -= take
			excess -= take
		}
	}
	return c
}

func share(total int, ratio float64) int {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 0
	}
	return int(math.Round(float64(total) * ratio))
}

// Select returns exactly total puzzles whenever pool is non-empty. A tier with
// fewer puzzles than its count repeats them cyclically; tiers with no puzzles
// at all are made up by cycling through the whole pool. An empty pool yields
// an empty result.
func (b *Balanced) Select(pool []domain.Puzzle, total int, ratios domain.Ratios) []domain.Puzzle {
	if total <= 0 {
		return []domain.Puzzle{}
	}
	tiers := b.partition(pool)
	counts := Allocate(total, ratios)

	selected := make([]domain.Puzzle, 0, total)
	for i, n := range []int{counts.Easy, counts.Medium, counts.Hard} {
		selected = appendCyclic(selected, tiers[i], n)
	}
	for len(selected) < total && len(pool) > 0 {
		selected = append(selected, clone(pool[len(selected)%len(pool)]))
	}
	return selected
}

// partition splits the pool by tier and shuffles each tier independently.
func (b *Balanced) partition(pool []domain.Puzzle) [3][]domain.Puzzle {
	var tiers [3][]domain.Puzzle
	for _, p := range pool {
		d := p.Difficulty()
		tiers[d] = append(tiers[d], p)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range tiers {
		b.rng.Shuffle(len(t), func(i, j int) { t[i], t[j] = t[j], t[i] })
	}
	return tiers
}

func appendCyclic(dst, tier []domain.Puzzle, n int) []domain.Puzzle {
	if len(tier) == 0 {
		return dst
	}
	for i := 0; i < n; i++ {
		dst = append(dst, clone(tier[i%len(tier)]))
	}
	return dst
}

// clone copies the path so duplicates never share backing arrays.
func clone(p domain.Puzzle) domain.Puzzle {
	return domain.NewPuzzle(p.Start, p.End, p.Path)
}
