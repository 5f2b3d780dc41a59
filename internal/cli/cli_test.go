package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/infrastructure/storage"
)

type env struct {
	dir  string
	args []string
}

// newEnv writes a small dictionary where cat..dog is the only base pair.
func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	dict := filepath.Join(dir, "dict.txt")
	base := filepath.Join(dir, "base.txt")
	require.NoError(t, os.WriteFile(dict, []byte("cat\ncot\ncog\ndog\nO'Neil\n"), 0o644))
	require.NoError(t, os.WriteFile(base, []byte("cat\ndog\n"), 0o644))
	return env{dir: dir, args: []string{
		"-dictionary", dict, "-base-words", base,
		"-output-dir", filepath.Join(dir, "out"), "-seed", "9", "-max-attempts", "20",
	}}
}

func (e env) run(t *testing.T, cmd string, extra ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	args := append([]string{cmd}, e.args...)
	code := Main(append(args, extra...), &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestMainUsage(t *testing.T) {
	var out, errBuf bytes.Buffer
	assert.Equal(t, ExitArgOrSystemError, Main(nil, &out, &errBuf))
	assert.Contains(t, errBuf.String(), "missing command")

	assert.Equal(t, ExitArgOrSystemError, Main([]string{"solve"}, &out, &errBuf))
	assert.Contains(t, errBuf.String(), "unknown command: solve")

	out.Reset()
	assert.Equal(t, ExitSuccess, Main([]string{"help"}, &out, &errBuf))
	assert.Contains(t, out.String(), "generate-mobile")
}

func TestUnknownFlag(t *testing.T) {
	code, _, stderr := newEnv(t).run(t, "batch", "-random-flag")
	assert.Equal(t, ExitArgOrSystemError, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestGenerateSingle(t *testing.T) {
	e := newEnv(t)

	code, stdout, stderr := e.run(t, "generate", "-start", "CAT", "-end", "dog")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Path: cat -> cot -> cog -> dog")
	assert.Contains(t, stdout, "Difficulty: easy")

	code, stdout, _ = e.run(t, "generate", "-start", "cat", "-end", "dog", "-format", "json")
	require.Equal(t, ExitSuccess, code)
	var p domain.Puzzle
	require.NoError(t, json.Unmarshal([]byte(stdout), &p))
	assert.Equal(t, 3, p.Steps())

	code, stdout, _ = e.run(t, "generate", "-start", "cat", "-end", "dog", "-format", "sql")
	require.Equal(t, ExitSuccess, code)
	sql, err := os.ReadFile(filepath.Join(e.dir, "out", "cat_dog.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(sql), "('cat_dog_001', 'cat', 'dog', 3, 'easy');")
	assert.Contains(t, stdout, "cat_dog.sql")
}

func TestGenerateNoLadder(t *testing.T) {
	code, _, stderr := newEnv(t).run(t, "generate", "-start", "cat", "-end", "zzz")
	assert.Equal(t, ExitInvalid, code)
	assert.Contains(t, stderr, "no ladder")
}

// Only the easy tier is reachable, so bulk writes every file and reports the
// unmet tiers.
func TestGenerateBulk(t *testing.T) {
	e := newEnv(t)
	code, stdout, _ := e.run(t, "generate", "-bulk-count", "2")
	assert.Equal(t, ExitGenerationError, code)
	for _, name := range []string{"easy.txt", "medium.txt", "hard.txt"} {
		_, err := os.Stat(filepath.Join(e.dir, "out", name))
		assert.NoError(t, err, name)
	}
	easy, err := os.ReadFile(filepath.Join(e.dir, "out", "easy.txt"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(easy), "\n"))
	assert.Contains(t, stdout, "Generated 0 hard puzzles")
}

func TestBatch(t *testing.T) {
	e := newEnv(t)
	code, stdout, stderr := e.run(t, "batch", "-count", "3", "-difficulty", "easy", "-format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	data, err := os.ReadFile(filepath.Join(e.dir, "out", "batch_easy.json"))
	require.NoError(t, err)
	var ps []domain.Puzzle
	require.NoError(t, json.Unmarshal(data, &ps))
	assert.Len(t, ps, 3)
	assert.Contains(t, stdout, "Generated 3 json puzzles")

	code, _, _ = e.run(t, "batch", "-difficulty", "extreme")
	assert.Equal(t, ExitArgOrSystemError, code)

	code, _, _ = e.run(t, "batch", "-format", "xml")
	assert.Equal(t, ExitArgOrSystemError, code)
}

func TestBatchQuotaUnmetStillWrites(t *testing.T) {
	e := newEnv(t)
	out := filepath.Join(e.dir, "hard.txt")
	code, _, stderr := e.run(t, "batch", "-count", "1", "-difficulty", "hard", "-output", out)
	assert.Equal(t, ExitGenerationError, code)
	assert.Contains(t, stderr, "quota not met")
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestGenerateMobile(t *testing.T) {
	e := newEnv(t)
	code, stdout, stderr := e.run(t, "generate-mobile", "-count", "5")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Generated 5 balanced mobile puzzles")
	assert.Contains(t, stdout, "Easy: 40.0%")
	sql, err := os.ReadFile(filepath.Join(e.dir, "out", "mobile_puzzles.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(sql), "-- Generated 5 puzzles")

	code, _, _ = e.run(t, "generate-mobile", "-hard-ratio", "-1")
	assert.Equal(t, ExitArgOrSystemError, code)
}

func TestExportDict(t *testing.T) {
	e := newEnv(t)
	code, stdout, stderr := e.run(t, "export-dict", "-schema=false")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Exported 4 dictionary words")
	sql, err := os.ReadFile(filepath.Join(e.dir, "out", "dictionary.sql"))
	require.NoError(t, err)
	assert.NotContains(t, string(sql), "CREATE TABLE")
	assert.Contains(t, string(sql), "('cog', 3)")
}

func TestImportDict(t *testing.T) {
	e := newEnv(t)
	db := filepath.Join(e.dir, "words.db")
	code, stdout, stderr := e.run(t, "import-dict", "-db", db)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Imported 4 new dictionary words")

	st, err := storage.OpenSQLite(db)
	require.NoError(t, err)
	defer st.Close()
	words, err := st.DictionaryWords(t.Context(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "cog", "cot", "dog"}, words)
}

func TestVerify(t *testing.T) {
	cases := []struct {
		puzzle string
		code   int
		out    string
	}{
		{"cat,cot,cog,dog", ExitSuccess, "Puzzle is valid"},
		{"cat,dog", ExitInvalid, "Puzzle is invalid"},
		{"cat", ExitInvalid, "Error:"},
	}
	for _, tc := range cases {
		var out, errBuf bytes.Buffer
		code := Main([]string{"verify", "-puzzle", tc.puzzle}, &out, &errBuf)
		assert.Equal(t, tc.code, code, tc.puzzle)
		assert.Contains(t, out.String(), tc.out, tc.puzzle)
	}
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	p, err := resolveOutput(dir, "", "easy", "txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "easy.txt"), p)

	p, err = resolveOutput(dir, "sub/x.sql", "ignored", "sql")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "x.sql"), p)

	abs := filepath.Join(t.TempDir(), "abs.json")
	p, err = resolveOutput(dir, abs, "ignored", "json")
	require.NoError(t, err)
	assert.Equal(t, abs, p)
}
