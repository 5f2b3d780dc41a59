package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/ports"
)

func record(id string, created int64, path ...string) *domain.Record {
	return &domain.Record{
		ID:        id,
		CreatedAt: created,
		Puzzle:    domain.NewPuzzle(path[0], path[len(path)-1], path),
	}
}

func newSQLite(t *testing.T) *SQLStore {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// Both stores share the same contract.
func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) ports.Storage{
		"fs":     func(t *testing.T) ports.Storage { return NewFS(t.TempDir()) },
		"sqlite": func(t *testing.T) ports.Storage { return newSQLite(t) },
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := open(t)

			easy := record("e1", 100, "cat", "cot", "cog", "dog")
			hard := record("h1", 200, "aaaa", "baaa", "bbaa", "bbba", "bbbb", "cbbb", "ccbb", "cccb", "cccc")
			require.NoError(t, st.Save(ctx, easy))
			require.NoError(t, st.Save(ctx, hard))

			got, err := st.Load(ctx, "e1")
			require.NoError(t, err)
			if diff := cmp.Diff(easy, got); diff != "" {
				t.Fatalf("load mismatch (-want +got):\n%s", diff)
			}

			list, err := st.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "h1", list[0].ID)
			assert.Equal(t, domain.Hard, list[0].Difficulty)
			assert.Equal(t, 8, list[0].Steps)
			assert.Equal(t, domain.Easy, list[1].Difficulty)

			_, err = st.Load(ctx, "missing")
			assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

			err = st.Save(ctx, &domain.Record{Puzzle: easy.Puzzle})
			assert.True(t, errors.Is(err, domain.ErrMalformedInput), "got %v", err)

			bad := record("b1", 1, "cat", "dog")
			bad.Puzzle.Start = "cow"
			assert.True(t, errors.Is(st.Save(ctx, bad), domain.ErrMalformedInput))
		})
	}
}

func TestFSLayout(t *testing.T) {
	dir := t.TempDir()
	st := NewFS(dir)
	require.NoError(t, st.Save(context.Background(), record("e1", 1, "cat", "cot", "cog", "dog")))
	_, err := os.Stat(filepath.Join(dir, "easy", "e1.json"))
	require.NoError(t, err)
}

func TestFSRejectsTraversal(t *testing.T) {
	st := NewFS(t.TempDir())
	err := st.Save(context.Background(), record("../x", 1, "cat", "cot"))
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))
	_, err = st.Load(context.Background(), "../x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFSListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "medium"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medium", "junk.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medium", "notes.txt"), []byte("x"), 0o644))

	list, err := NewFS(dir).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportDictionary(t *testing.T) {
	ctx := context.Background()
	st := newSQLite(t)

	n, err := st.ImportDictionary(ctx, []string{"cat", "dog", "star"}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = st.ImportDictionary(ctx, []string{"cat", "cot"}, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	three, err := st.DictionaryWords(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "cot", "dog"}, three)

	all, err := st.DictionaryWords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

// Re-saving an id under another tier replaces the record in both stores.
func TestResaveMovesTier(t *testing.T) {
	stores := map[string]func(t *testing.T) ports.Storage{
		"fs":     func(t *testing.T) ports.Storage { return NewFS(t.TempDir()) },
		"sqlite": func(t *testing.T) ports.Storage { return newSQLite(t) },
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := open(t)

			require.NoError(t, st.Save(ctx, record("x", 1, "aaaa", "baaa", "bbaa", "bbba")))
			require.NoError(t, st.Save(ctx, record("x", 2, "aaaa", "baaa", "bbaa", "bbba", "bbbb", "cbbb")))

			got, err := st.Load(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, "cbbb", got.Puzzle.End)
			assert.Equal(t, domain.Medium, got.Puzzle.Difficulty())

			list, err := st.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, domain.Medium, list[0].Difficulty)
		})
	}
}

func TestFSResaveRemovesOldFile(t *testing.T) {
	dir := t.TempDir()
	st := NewFS(dir)
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, record("x", 1, "aaaa", "baaa", "bbaa", "bbba")))
	require.NoError(t, st.Save(ctx, record("x", 2, "aaaa", "baaa", "bbaa", "bbba", "bbbb", "cbbb")))

	_, err := os.Stat(filepath.Join(dir, "easy", "x.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	_, err = os.Stat(filepath.Join(dir, "medium", "x.json"))
	assert.NoError(t, err)
}
