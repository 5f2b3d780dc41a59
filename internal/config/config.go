// Package config holds runtime settings shared by the CLI, the web server and
// the cloud function. Values come from defaults, then WORDLADDER_* environment
// variables, then command-line flags.
package config

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DictionaryPath  string
	BaseWordsPath   string
	OutputDir       string
	BulkPuzzleCount int

	Addr        string
	PersistPath string
	Store       string // fs|sqlite
	DBPath      string

	Source          string // file|bigquery
	BigQueryProject string
	BigQueryDataset string
	BigQueryTable   string

	LogLevel             string
	Seed                 uint64
	MaxAttemptsPerPuzzle int

	IncludeSchema bool
	SQLBatchSize  int
}

func Default() Config {
	return Config{
		DictionaryPath:       "data/dictionary.txt",
		BaseWordsPath:        "data/base_words.txt",
		OutputDir:            "output",
		BulkPuzzleCount:      100,
		Addr:                 ":8080",
		PersistPath:          "./data/puzzles",
		Store:                "fs",
		DBPath:               "wordladder.db",
		Source:               "file",
		BigQueryTable:        "words",
		LogLevel:             "info",
		MaxAttemptsPerPuzzle: 1000,
		IncludeSchema:        true,
		SQLBatchSize:         100,
	}
}

// FromEnv returns the defaults overridden by the environment.
func FromEnv() Config {
	c := Default()
	c.ApplyEnv(os.Getenv)
	return c
}

// ApplyEnv overrides fields from WORDLADDER_* variables. Unparsable numbers
// keep the current value.
func (c *Config) ApplyEnv(lookup func(string) string) {
	get := func(key, fallback string) string { return getEnv(lookup, "WORDLADDER_"+key, fallback) }

	c.DictionaryPath = get("DICTIONARY", c.DictionaryPath)
	c.BaseWordsPath = get("BASE_WORDS", c.BaseWordsPath)
	c.OutputDir = get("OUTPUT_DIR", c.OutputDir)
	c.BulkPuzzleCount = atoi(get("BULK_COUNT", ""), c.BulkPuzzleCount)
	c.Addr = get("ADDR", c.Addr)
	c.PersistPath = get("PERSIST_PATH", c.PersistPath)
	c.Store = get("STORE", c.Store)
	c.DBPath = get("DB_PATH", c.DBPath)
	c.Source = get("SOURCE", c.Source)
	c.BigQueryProject = get("BQ_PROJECT", c.BigQueryProject)
	c.BigQueryDataset = get("BQ_DATASET", c.BigQueryDataset)
	c.BigQueryTable = get("BQ_TABLE", c.BigQueryTable)
	c.LogLevel = get("LOG_LEVEL", c.LogLevel)
	c.MaxAttemptsPerPuzzle = atoi(get("MAX_ATTEMPTS", ""), c.MaxAttemptsPerPuzzle)
	c.SQLBatchSize = atoi(get("SQL_BATCH_SIZE", ""), c.SQLBatchSize)
	if v := get("SEED", ""); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := get("INCLUDE_SCHEMA", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.IncludeSchema = b
		}
	}
}

func getEnv(lookup func(string) string, key, fallback string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return fallback
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// RegisterFlags binds the word-source and generation settings to fs using the
// current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DictionaryPath, "dictionary", c.DictionaryPath, "dictionary word list")
	fs.StringVar(&c.BaseWordsPath, "base-words", c.BaseWordsPath, "curated base words")
	fs.StringVar(&c.Source, "source", c.Source, "word source: file|bigquery")
	fs.StringVar(&c.BigQueryProject, "bq-project", c.BigQueryProject, "BigQuery project")
	fs.StringVar(&c.BigQueryDataset, "bq-dataset", c.BigQueryDataset, "BigQuery dataset")
	fs.StringVar(&c.BigQueryTable, "bq-table", c.BigQueryTable, "BigQuery table")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.IntVar(&c.MaxAttemptsPerPuzzle, "max-attempts", c.MaxAttemptsPerPuzzle, "batch attempts per requested puzzle (<=0 unbounded)")
}

// RegisterServerFlags binds the web server and storage settings.
func (c *Config) RegisterServerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.PersistPath, "persist-path", c.PersistPath, "save directory for the fs store")
	fs.StringVar(&c.Store, "store", c.Store, "puzzle store: fs|sqlite")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "sqlite database path")
}

// RegisterExportFlags binds the output settings used by the CLI.
func (c *Config) RegisterExportFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "directory for relative output paths")
	fs.BoolVar(&c.IncludeSchema, "schema", c.IncludeSchema, "include CREATE TABLE statements in SQL output")
	fs.IntVar(&c.SQLBatchSize, "sql-batch", c.SQLBatchSize, "rows per INSERT statement")
}

// ParseLevel maps a level name to slog; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
