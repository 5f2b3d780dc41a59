// Package cli implements the wordladder command: puzzle generation, batch and
// mobile exports, dictionary export and ladder verification.
package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"svw.info/wordladder/internal/app"
	"svw.info/wordladder/internal/config"
	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/export"
	"svw.info/wordladder/internal/infrastructure/storage"
	"svw.info/wordladder/internal/validator"
)

const (
	ExitSuccess          = 0
	ExitInvalid          = 1
	ExitArgOrSystemError = 2
	ExitGenerationError  = 3
)

// Main runs the command named by args[0]; args excludes argv[0].
func Main(args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if len(args) == 0 {
		fmt.Fprintln(stderr, "missing command (expected: generate|batch|generate-mobile|export-dict|import-dict|verify)")
		return ExitArgOrSystemError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &command{cfg: config.FromEnv(), stdout: stdout, stderr: stderr}
	switch args[0] {
	case "help", "-h", "--help":
		printHelp(stdout)
		return ExitSuccess
	case "generate":
		return c.generate(ctx, args[1:])
	case "batch":
		return c.batch(ctx, args[1:])
	case "generate-mobile":
		return c.mobile(ctx, args[1:])
	case "export-dict":
		return c.exportDict(ctx, args[1:])
	case "import-dict":
		return c.importDict(ctx, args[1:])
	case "verify":
		return c.verify(args[1:])
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		return ExitArgOrSystemError
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wordladder generate [-start <word> -end <word>] [-format text|json|sql] [-output <path>] [-bulk-count <n>]")
	fmt.Fprintln(w, "  wordladder batch [-count <n>] [-difficulty easy|medium|hard] [-format text|json|sql] [-output <path>]")
	fmt.Fprintln(w, "  wordladder generate-mobile [-count <n>] [-easy-ratio <f>] [-medium-ratio <f>] [-hard-ratio <f>] [-output <path>]")
	fmt.Fprintln(w, "  wordladder export-dict [-output <path>]")
	fmt.Fprintln(w, "  wordladder import-dict [-db <path>]")
	fmt.Fprintln(w, "  wordladder verify -puzzle <a,b,c>")
	fmt.Fprintln(w, "Common flags: -dictionary -base-words -source -seed -log-level -output-dir -schema -sql-batch")
}

type command struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func (c *command) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	c.cfg.RegisterFlags(fs)
	c.cfg.RegisterExportFlags(fs)
	return fs
}

func (c *command) parse(fs *flag.FlagSet, args []string) bool {
	if err := fs.Parse(args); err != nil {
		if strings.Contains(err.Error(), "flag provided but not defined") {
			fmt.Fprintln(c.stderr, "unknown flag")
		} else {
			fmt.Fprintln(c.stderr, err)
		}
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(c.stderr, "unexpected positional arguments: %q\n", strings.Join(fs.Args(), " "))
		return false
	}
	return true
}

func (c *command) logger() *slog.Logger { return config.NewLogger(c.cfg.LogLevel, c.stderr) }

func (c *command) load(ctx context.Context) (*app.App, int) {
	a, err := app.New(ctx, c.cfg, c.logger(), false)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return nil, ExitArgOrSystemError
	}
	return a, ExitSuccess
}

func (c *command) sqlExporter() *export.SQLExporter {
	return &export.SQLExporter{BatchSize: c.cfg.SQLBatchSize, IncludeSchema: c.cfg.IncludeSchema, IncludeComments: true}
}

// exitFor maps generation errors to exit codes.
func (c *command) exitFor(err error) int {
	fmt.Fprintln(c.stderr, err)
	switch {
	case errors.Is(err, domain.ErrQuotaUnmet), errors.Is(err, domain.ErrInsufficientBaseWords):
		return ExitGenerationError
	case errors.Is(err, domain.ErrNoLadder), errors.Is(err, domain.ErrMalformedInput):
		return ExitInvalid
	default:
		return ExitArgOrSystemError
	}
}

// resolveOutput places relative paths under the output directory and creates
// the parent directory.
func resolveOutput(outputDir, output, defaultName, ext string) (string, error) {
	p := output
	switch {
	case p == "":
		p = filepath.Join(outputDir, defaultName+"."+ext)
	case !filepath.IsAbs(p):
		p = filepath.Join(outputDir, p)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	return p, nil
}

func extension(format string) (string, error) {
	switch format {
	case "text":
		return "txt", nil
	case "json":
		return "json", nil
	case "sql":
		return "sql", nil
	default:
		return "", fmt.Errorf("unknown format %q (want text|json|sql)", format)
	}
}

// render writes puzzles in format to path.
func (c *command) render(path, format string, puzzles []domain.Puzzle) error {
	var buf bytes.Buffer
	switch format {
	case "sql":
		buf.WriteString(c.sqlExporter().ExportPuzzles(puzzles))
	case "json":
		if err := export.JSON(&buf, puzzles); err != nil {
			return err
		}
	default:
		if err := export.Text(&buf, puzzles); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c *command) generate(ctx context.Context, args []string) int {
	fs := c.flagSet("generate")
	start := fs.String("start", "", "start word (random when both are empty)")
	end := fs.String("end", "", "end word")
	format := fs.String("format", "text", "text|json|sql")
	output := fs.String("output", "", "output file")
	fs.IntVar(&c.cfg.BulkPuzzleCount, "bulk-count", c.cfg.BulkPuzzleCount, "puzzles per difficulty in bulk mode")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	ext, err := extension(*format)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return ExitArgOrSystemError
	}
	a, code := c.load(ctx)
	if a == nil {
		return code
	}
	defer a.Close()

	if *start == "" && *end == "" {
		return c.bulk(ctx, a, *format, ext, *output)
	}

	p, err := a.Service.Generate(ctx, strings.ToLower(*start), strings.ToLower(*end))
	if err != nil {
		return c.exitFor(err)
	}
	switch *format {
	case "json":
		b, err := p.MarshalJSON()
		if err != nil {
			return c.exitFor(err)
		}
		fmt.Fprintln(c.stdout, string(b))
	case "sql":
		path, err := resolveOutput(c.cfg.OutputDir, *output, p.Start+"_"+p.End, ext)
		if err == nil {
			err = c.render(path, *format, []domain.Puzzle{p})
		}
		if err != nil {
			return c.exitFor(err)
		}
		fmt.Fprintf(c.stdout, "SQL puzzle exported to %s\n", path)
	default:
		_ = export.Describe(c.stdout, p)
	}
	return ExitSuccess
}

// bulk writes BulkPuzzleCount puzzles per tier: one file per tier for text
// and json, a single file for sql.
func (c *command) bulk(ctx context.Context, a *app.App, format, ext, output string) int {
	var (
		all  []domain.Puzzle
		errs []error
	)
	for _, d := range domain.Difficulties {
		ps, _, err := a.Service.Batch(ctx, c.cfg.BulkPuzzleCount, d)
		if err != nil && !errors.Is(err, domain.ErrQuotaUnmet) {
			return c.exitFor(err)
		}
		if err != nil {
			errs = append(errs, err)
		}
		if format == "sql" {
			all = append(all, ps...)
			continue
		}
		path, err := resolveOutput(c.cfg.OutputDir, "", d.String(), ext)
		if err == nil {
			err = c.render(path, format, ps)
		}
		if err != nil {
			return c.exitFor(err)
		}
		fmt.Fprintf(c.stdout, "Generated %d %s puzzles in %s\n", len(ps), d, path)
	}
	if format == "sql" {
		path, err := resolveOutput(c.cfg.OutputDir, output, "bulk_puzzles", ext)
		if err == nil {
			err = c.render(path, format, all)
		}
		if err != nil {
			return c.exitFor(err)
		}
		fmt.Fprintf(c.stdout, "Generated %d puzzles in SQL format to %s\n", len(all), path)
	}
	if err := errors.Join(errs...); err != nil {
		return c.exitFor(err)
	}
	return ExitSuccess
}

func (c *command) batch(ctx context.Context, args []string) int {
	fs := c.flagSet("batch")
	count := fs.Int("count", 10, "number of puzzles")
	diffName := fs.String("difficulty", "medium", "easy|medium|hard")
	format := fs.String("format", "text", "text|json|sql")
	output := fs.String("output", "", "output file")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	ext, err := extension(*format)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return ExitArgOrSystemError
	}
	d, err := domain.ParseDifficulty(*diffName)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return ExitArgOrSystemError
	}
	if *count < 1 {
		fmt.Fprintln(c.stderr, "count must be positive")
		return ExitArgOrSystemError
	}
	a, code := c.load(ctx)
	if a == nil {
		return code
	}
	defer a.Close()

	ps, _, genErr := a.Service.Batch(ctx, *count, d)
	if genErr != nil && !errors.Is(genErr, domain.ErrQuotaUnmet) {
		return c.exitFor(genErr)
	}
	path, err := resolveOutput(c.cfg.OutputDir, *output, "batch_"+d.String(), ext)
	if err == nil {
		err = c.render(path, *format, ps)
	}
	if err != nil {
		return c.exitFor(err)
	}
	fmt.Fprintf(c.stdout, "Generated %d %s puzzles and saved to %s\n", len(ps), *format, path)
	if genErr != nil {
		return c.exitFor(genErr)
	}
	return ExitSuccess
}

func (c *command) mobile(ctx context.Context, args []string) int {
	fs := c.flagSet("generate-mobile")
	count := fs.Int("count", 1000, "total puzzles")
	output := fs.String("output", "", "output file")
	r := domain.DefaultRatios
	fs.Float64Var(&r.Easy, "easy-ratio", r.Easy, "share of easy puzzles")
	fs.Float64Var(&r.Medium, "medium-ratio", r.Medium, "share of medium puzzles")
	fs.Float64Var(&r.Hard, "hard-ratio", r.Hard, "share of hard puzzles")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	if *count < 1 || r.Easy < 0 || r.Medium < 0 || r.Hard < 0 {
		fmt.Fprintln(c.stderr, "count must be positive and ratios non-negative")
		return ExitArgOrSystemError
	}
	a, code := c.load(ctx)
	if a == nil {
		return code
	}
	defer a.Close()

	fmt.Fprintln(c.stdout, "Generating base puzzles for mobile optimization...")
	ps, err := a.Service.Balanced(ctx, *count, r)
	if err != nil {
		return c.exitFor(err)
	}
	path, err := resolveOutput(c.cfg.OutputDir, *output, "mobile_puzzles", "sql")
	if err == nil {
		err = c.render(path, "sql", ps)
	}
	if err != nil {
		return c.exitFor(err)
	}
	fmt.Fprintf(c.stdout, "Generated %d balanced mobile puzzles and saved to %s\n", len(ps), path)
	fmt.Fprintf(c.stdout, "Distribution: Easy: %.1f%%, Medium: %.1f%%, Hard: %.1f%%\n", r.Easy*100, r.Medium*100, r.Hard*100)
	return ExitSuccess
}

func (c *command) dictionary(ctx context.Context) ([]string, int) {
	src, closeSrc, err := app.OpenSource(ctx, c.cfg)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return nil, ExitArgOrSystemError
	}
	defer closeSrc()
	words, err := src.Dictionary(ctx)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return nil, ExitArgOrSystemError
	}
	return words, ExitSuccess
}

func (c *command) exportDict(ctx context.Context, args []string) int {
	fs := c.flagSet("export-dict")
	output := fs.String("output", "", "output file")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	words, code := c.dictionary(ctx)
	if code != ExitSuccess {
		return code
	}
	path, err := resolveOutput(c.cfg.OutputDir, *output, "dictionary", "sql")
	if err == nil {
		err = os.WriteFile(path, []byte(c.sqlExporter().ExportDictionary(words)), 0o644)
	}
	if err != nil {
		return c.exitFor(err)
	}
	fmt.Fprintf(c.stdout, "Exported %d dictionary words to %s\n", len(words), path)
	return ExitSuccess
}

// importDict loads the dictionary straight into the sqlite store.
func (c *command) importDict(ctx context.Context, args []string) int {
	fs := c.flagSet("import-dict")
	fs.StringVar(&c.cfg.DBPath, "db", c.cfg.DBPath, "sqlite database path")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	words, code := c.dictionary(ctx)
	if code != ExitSuccess {
		return code
	}
	st, err := storage.OpenSQLite(c.cfg.DBPath)
	if err != nil {
		return c.exitFor(err)
	}
	defer st.Close()
	n, err := st.ImportDictionary(ctx, words, c.cfg.SQLBatchSize)
	if err != nil {
		return c.exitFor(err)
	}
	fmt.Fprintf(c.stdout, "Imported %d new dictionary words into %s\n", n, c.cfg.DBPath)
	return ExitSuccess
}

func (c *command) verify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	puzzle := fs.String("puzzle", "", "comma-separated ladder, e.g. cat,cot,cog,dog")
	if !c.parse(fs, args) {
		return ExitArgOrSystemError
	}
	ok, err := validator.New().VerifyPuzzle(*puzzle)
	if err != nil {
		fmt.Fprintf(c.stdout, "Error: %v\n", err)
		return ExitInvalid
	}
	if !ok {
		fmt.Fprintln(c.stdout, "Puzzle is invalid")
		return ExitInvalid
	}
	fmt.Fprintln(c.stdout, "Puzzle is valid")
	return ExitSuccess
}
