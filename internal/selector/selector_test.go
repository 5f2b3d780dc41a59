package selector

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/wordladder/internal/domain"
)

// ladder builds a synthetic puzzle with the given number of steps.
func ladder(name string, steps int) domain.Puzzle {
	path := make([]string, steps+1)
	for i := range path {
		path[i] = name + string(rune('a'+i))
	}
	return domain.NewPuzzle(path[0], path[steps], path)
}

func seeded() *Balanced { return New(rand.New(rand.NewPCG(1, 2))) }

func countTiers(ps []domain.Puzzle) Counts {
	var c Counts
	for _, p := range ps {
		switch p.Difficulty() {
		case domain.Easy:
			c.Easy++
		case domain.Medium:
			c.Medium++
		case domain.Hard:
			c.Hard++
		}
	}
	return c
}

func TestSelectSmallPoolScenario(t *testing.T) {
	pool := []domain.Puzzle{ladder("a", 3), ladder("b", 4), ladder("c", 5), ladder("d", 8)}
	got := seeded().Select(pool, 10, domain.Ratios{Easy: 0.5, Medium: 0.3, Hard: 0.2})

	require.Len(t, got, 10)
	c := countTiers(got)
	assert.Equal(t, Counts{Easy: 5, Medium: 3, Hard: 2}, c)
	assert.GreaterOrEqual(t, c.Easy, 1)
	assert.GreaterOrEqual(t, c.Medium, 1)
	assert.GreaterOrEqual(t, c.Hard, 1)
}

func TestSelectTotalInvariant(t *testing.T) {
	pool := []domain.Puzzle{ladder("a", 3), ladder("b", 6)}
	ratios := []domain.Ratios{
		{Easy: 0.4, Medium: 0.4, Hard: 0.2},
		{Easy: 1},
		{Hard: 1},
		{Easy: 0.34, Medium: 0.33, Hard: 0.33},
		{Easy: 0.6, Medium: 0.6, Hard: 0.6},
		{},
	}
	s := seeded()
	for _, r := range ratios {
		for total := 1; total <= 25; total++ {
			got := s.Select(pool, total, r)
			if len(got) != total {
				t.Fatalf("ratios %+v total %d: got %d puzzles", r, total, len(got))
			}
		}
	}
}

func TestSelectPadsFromWholePoolWhenTierMissing(t *testing.T) {
	pool := []domain.Puzzle{ladder("a", 3), ladder("b", 3)}
	got := seeded().Select(pool, 6, domain.Ratios{Easy: 0.5, Hard: 0.5})
	require.Len(t, got, 6)
	assert.Equal(t, Counts{Easy: 6}, countTiers(got))
	// padding indexes the original pool by len(selected)
	assert.Equal(t, "ba", got[3].Start)
	assert.Equal(t, "aa", got[4].Start)
	assert.Equal(t, "ba", got[5].Start)
}

func TestSelectEmptyPool(t *testing.T) {
	got := seeded().Select(nil, 5, domain.DefaultRatios)
	assert.Empty(t, got)
	assert.Empty(t, seeded().Select([]domain.Puzzle{ladder("a", 3)}, 0, domain.DefaultRatios))
}

func TestSelectClonesDuplicates(t *testing.T) {
	pool := []domain.Puzzle{ladder("a", 3)}
	got := seeded().Select(pool, 2, domain.Ratios{Easy: 1})
	require.Len(t, got, 2)
	got[0].Path[0] = "changed"
	assert.Equal(t, "aa", got[1].Path[0])
	assert.Equal(t, "aa", pool[0].Path[0])
}

func TestAllocate(t *testing.T) {
	cases := []struct {
		name   string
		total  int
		ratios domain.Ratios
		want   Counts
	}{
		{"exact", 10, domain.Ratios{Easy: 0.5, Medium: 0.3, Hard: 0.2}, Counts{5, 3, 2}},
		{"shortfall goes to medium", 10, domain.Ratios{Easy: 0.33, Medium: 0.33, Hard: 0.33}, Counts{3, 4, 3}},
		{"excess taken from hard", 10, domain.Ratios{Easy: 0.45, Medium: 0.45, Hard: 0.1}, Counts{5, 5, 0}},
		{"excess cascades past hard", 3, domain.Ratios{Easy: 0.5, Medium: 0.5, Hard: 0.5}, Counts{2, 1, 0}},
		{"excess without hard", 1, domain.Ratios{Easy: 0.5, Medium: 0.5}, Counts{1, 0, 0}},
		{"negative ratio ignored", 4, domain.Ratios{Easy: -1, Medium: 1}, Counts{0, 4, 0}},
		{"zero total", 0, domain.DefaultRatios, Counts{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Allocate(tc.total, tc.ratios)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Allocate(%d, %+v) mismatch (-want +got):\n%s", tc.total, tc.ratios, diff)
			}
			assert.Equal(t, tc.total, got.Total())
		})
	}
}
