// Package app wires a word source, the word graph and the ladder ports into a
// usecase.Service according to a config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"svw.info/wordladder/internal/config"
	"svw.info/wordladder/internal/generator"
	"svw.info/wordladder/internal/graph"
	"svw.info/wordladder/internal/hint"
	"svw.info/wordladder/internal/infrastructure/storage"
	"svw.info/wordladder/internal/ports"
	"svw.info/wordladder/internal/selector"
	"svw.info/wordladder/internal/usecase"
	"svw.info/wordladder/internal/validator"
	"svw.info/wordladder/internal/wordsource"
)

const selectorStream = 0x5851f42d4c957f2d

type App struct {
	Graph     *graph.WordGraph
	Generator *generator.PuzzleGenerator
	Service   *usecase.Service
	SQL       *storage.SQLStore // nil unless Store is sqlite

	closers []func() error
}

// Close releases the store and word source connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// OpenSource returns the configured word source. The closer is never nil.
func OpenSource(ctx context.Context, cfg config.Config) (ports.WordSource, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", "file":
		return wordsource.Files{DictionaryPath: cfg.DictionaryPath, BaseWordsPath: cfg.BaseWordsPath}, noop, nil
	case "bigquery", "bq":
		bq, err := wordsource.NewBigQuery(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable)
		if err != nil {
			return nil, noop, err
		}
		return bq, bq.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown word source %q (want file|bigquery)", cfg.Source)
	}
}

// LoadGraph reads both word lists from src and builds the graph.
func LoadGraph(ctx context.Context, src ports.WordSource, log *slog.Logger) (*graph.WordGraph, error) {
	dict, err := src.Dictionary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	base, err := src.BaseWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load base words: %w", err)
	}
	return graph.Build(ctx, dict, base, graph.WithLogger(log))
}

// OpenStorage returns the configured puzzle store. sql is set for sqlite.
func OpenStorage(cfg config.Config) (st ports.Storage, sql *storage.SQLStore, closer func() error, err error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "", "fs":
		if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
			return nil, nil, noop, err
		}
		return storage.NewFS(cfg.PersistPath), nil, noop, nil
	case "sqlite", "sql":
		s, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, noop, err
		}
		return s, s, s.Close, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown store %q (want fs|sqlite)", cfg.Store)
	}
}

// New loads the words and builds every component. withStorage is false for
// callers that never persist, such as the CLI.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, withStorage bool) (*App, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{}
	src, closeSrc, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	g, err := LoadGraph(ctx, src, log)
	_ = closeSrc()
	if err != nil {
		return nil, err
	}
	log.Debug("words loaded", "source", cfg.Source, "dur", time.Since(started).Round(time.Millisecond))
	a.Graph = g

	opts := []generator.Option{
		generator.WithLogger(log),
		generator.WithMaxAttemptsPerPuzzle(cfg.MaxAttemptsPerPuzzle),
	}
	if cfg.Seed != 0 {
		opts = append(opts, generator.WithSeed(cfg.Seed))
	}
	a.Generator = generator.New(g, opts...)

	sel := selector.New(nil)
	if cfg.Seed != 0 {
		// separate stream from the generator's PCG
		sel = selector.New(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^selectorStream)))
	}

	var st ports.Storage
	if withStorage {
		var closer func() error
		st, a.SQL, closer, err = OpenStorage(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closer)
	}

	a.Service = usecase.NewService(a.Generator, validator.New(), hint.NewLadder(g), sel, st)
	a.Service.Log = log
	return a, nil
}

func noop() error { return nil }
