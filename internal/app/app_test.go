package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/wordladder/internal/config"
	"svw.info/wordladder/internal/domain"
)

func writeWords(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DictionaryPath = filepath.Join(dir, "dict.txt")
	cfg.BaseWordsPath = filepath.Join(dir, "base.txt")
	cfg.PersistPath = filepath.Join(dir, "puzzles")
	cfg.DBPath = filepath.Join(dir, "ladder.db")
	cfg.Seed = 5
	require.NoError(t, os.WriteFile(cfg.DictionaryPath, []byte("cat\ncot\ncog\ndog\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.BaseWordsPath, []byte("cat\ndog\n"), 0o644))
	return cfg
}

func TestNewWithStores(t *testing.T) {
	for _, store := range []string{"fs", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			cfg := writeWords(t, t.TempDir())
			cfg.Store = store

			a, err := New(ctx, cfg, nil, true)
			require.NoError(t, err)
			t.Cleanup(func() { _ = a.Close() })

			assert.Equal(t, 4, a.Graph.Len())
			p, err := a.Service.Generate(ctx, "cat", "dog")
			require.NoError(t, err)
			require.NoError(t, a.Service.Save(ctx, &domain.Record{Puzzle: p}))
			list, err := a.Service.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
			assert.Equal(t, store == "sqlite", a.SQL != nil)
		})
	}
}

// A fixed seed makes the balanced selection repeatable across builds.
func TestSeedMakesBalancedReproducible(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := writeWords(t, dir)
	require.NoError(t, os.WriteFile(cfg.DictionaryPath, []byte("aaaa\nbaaa\nbbaa\nbbba\nbbbb\ncbbb\nccbb\ncccb\ncccc\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.BaseWordsPath, []byte("aaaa\nbaaa\nbbaa\nbbba\nbbbb\ncbbb\nccbb\ncccb\ncccc\n"), 0o644))
	cfg.Seed = 7

	run := func() []domain.Puzzle {
		a, err := New(ctx, cfg, nil, false)
		require.NoError(t, err)
		ps, err := a.Service.Balanced(ctx, 12, domain.DefaultRatios)
		require.NoError(t, err)
		require.Len(t, ps, 12)
		return ps
	}
	first := run()
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(first, run()); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i+1, diff)
		}
	}
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()
	cfg := writeWords(t, t.TempDir())

	bad := cfg
	bad.Source = "ftp"
	_, err := New(ctx, bad, nil, false)
	assert.ErrorContains(t, err, "unknown word source")

	bad = cfg
	bad.Store = "redis"
	_, err = New(ctx, bad, nil, true)
	assert.ErrorContains(t, err, "unknown store")

	bad = cfg
	bad.DictionaryPath = filepath.Join(t.TempDir(), "missing.txt")
	_, err = New(ctx, bad, nil, false)
	assert.ErrorContains(t, err, "load dictionary")
}
