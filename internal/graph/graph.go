package graph

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// WordGraph holds the dictionary, the base words and the one-letter adjacency.
type WordGraph struct {
	words     map[string]struct{}
	baseWords map[string]struct{}
	adj       map[string][]string
	edges     int

	workers int
	log     *slog.Logger
}

// Option configures a WordGraph.
type Option func(*WordGraph)

// WithWorkers sets how many goroutines compute neighbor lists. Values < 1 mean 1.
func WithWorkers(n int) Option { return func(g *WordGraph) { g.workers = n } }

// WithLogger sets the logger used to report builds.
func WithLogger(l *slog.Logger) Option { return func(g *WordGraph) { g.log = l } }

// New returns an empty graph.
func New(opts ...Option) *WordGraph {
	g := &WordGraph{
		words:     map[string]struct{}{},
		baseWords: map[string]struct{}{},
		adj:       map[string][]string{},
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(g)
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	return g
}

// Build loads both word sets and builds the adjacency.
func Build(ctx context.Context, dictionary, baseWords []string, opts ...Option) (*WordGraph, error) {
	g := New(opts...)
	if err := g.LoadDictionary(ctx, dictionary); err != nil {
		return nil, err
	}
	g.LoadBaseWords(baseWords)
	return g, nil
}

// LoadDictionary replaces the dictionary and rebuilds the adjacency from scratch.
// It must not run concurrently with queries.
func (g *WordGraph) LoadDictionary(ctx context.Context, words []string) error {
	start := time.Now()
	set := toSet(words)
	adj, edges, err := g.build(ctx, set)
	if err != nil {
		return err
	}
	g.words, g.adj, g.edges = set, adj, edges
	g.log.Info("word graph built",
		"words", len(set),
		"edges", edges,
		"workers", g.workers,
		"dur", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// LoadBaseWords replaces the set of puzzle endpoints. Membership in the
// dictionary is checked at sampling time, not here.
func (g *WordGraph) LoadBaseWords(words []string) {
	g.baseWords = toSet(words)
}

// build computes every neighbor list. Workers own disjoint index ranges of a
// shared slice, so the only synchronization is the final Wait.
func (g *WordGraph) build(ctx context.Context, words map[string]struct{}) (map[string][]string, int, error) {
	list := sortedKeys(words)
	lists := make([][]string, len(list))

	workers := max(g.workers, 1)
	chunk := max((len(list)+workers-1)/workers, 1)
	eg, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(list); lo += chunk {
		hi := min(lo+chunk, len(list))
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				lists[i] = neighbors(list[i], words)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	adj := make(map[string][]string, len(list))
	edges := 0
	for i, w := range list {
		adj[w] = lists[i]
		edges += len(lists[i])
	}
	return adj, edges / 2, nil
}

// neighbors tries every other letter at every position, in position then
// alphabet order.
func neighbors(word string, words map[string]struct{}) []string {
	var out []string
	runes := []rune(word)
	for i, orig := range runes {
		for _, c := range alphabet {
			if c == orig {
				continue
			}
			runes[i] = c
			cand := string(runes)
			if _, ok := words[cand]; ok {
				out = append(out, cand)
			}
		}
		runes[i] = orig
	}
	return out
}

// ShortestPath returns a minimum-step ladder from start to end. The boolean is
// false when either word is not in the dictionary or no ladder exists; that is
// a normal outcome, not an error.
func (g *WordGraph) ShortestPath(start, end string) ([]string, bool) {
	if start == end {
		return []string{start}, true
	}
	if _, ok := g.adj[start]; !ok {
		return nil, false
	}
	if _, ok := g.adj[end]; !ok {
		return nil, false
	}

	visited := map[string]bool{start: true}
	parent := map[string]string{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nbr := range g.adj[cur] {
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			parent[nbr] = cur
			// stop on discovery; every later word is at least as far away
			if nbr == end {
				return reconstruct(parent, start, end), true
			}
			queue = append(queue, nbr)
		}
	}
	return nil, false
}

func reconstruct(parent map[string]string, start, end string) []string {
	path := []string{end}
	for cur := end; cur != start; {
		prev, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	slices.Reverse(path)
	return path
}

// Contains reports dictionary membership.
func (g *WordGraph) Contains(word string) bool {
	_, ok := g.words[word]
	return ok
}

// Neighbors returns a copy of the adjacency list of word.
func (g *WordGraph) Neighbors(word string) []string {
	return slices.Clone(g.adj[word])
}

// Words returns the dictionary, sorted.
func (g *WordGraph) Words() []string { return sortedKeys(g.words) }

// BaseWords returns the base-word set, sorted.
func (g *WordGraph) BaseWords() []string { return sortedKeys(g.baseWords) }

// Len is the number of dictionary words.
func (g *WordGraph) Len() int { return len(g.words) }

// EdgeCount is the number of undirected edges.
func (g *WordGraph) EdgeCount() int { return g.edges }

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
