// Package export renders puzzles and dictionaries as SQLite-compatible SQL,
// JSON or plain text.
package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"svw.info/wordladder/internal/domain"
)

// SQLExporter writes schema and batched INSERT statements.
type SQLExporter struct {
	BatchSize       int
	IncludeSchema   bool
	IncludeComments bool
}

// NewSQLExporter returns the defaults: batches of 100, schema and comments on.
func NewSQLExporter() *SQLExporter {
	return &SQLExporter{BatchSize: 100, IncludeSchema: true, IncludeComments: true}
}

const puzzlesSchema = `-- Create puzzles table
CREATE TABLE IF NOT EXISTS puzzles (
	id TEXT PRIMARY KEY,
	start_word TEXT NOT NULL,
	target_word TEXT NOT NULL,
	min_steps INTEGER NOT NULL,
	difficulty TEXT NOT NULL
);`

const dictionarySchema = `-- Create dictionary table
CREATE TABLE IF NOT EXISTS dictionary (
	word TEXT PRIMARY KEY,
	length INTEGER NOT NULL
);`

// ExportPuzzles renders puzzles as INSERTs into the puzzles table. IDs are
// start_end_NNN, numbered per pair within this call.
func (e *SQLExporter) ExportPuzzles(puzzles []domain.Puzzle) string {
	var sb strings.Builder
	if e.IncludeSchema {
		sb.WriteString(puzzlesSchema)
		if e.IncludeComments {
			sb.WriteString("\n\n-- Indexes for better query performance\n")
			sb.WriteString("CREATE INDEX IF NOT EXISTS idx_puzzles_difficulty ON puzzles(difficulty);\n")
			sb.WriteString("CREATE INDEX IF NOT EXISTS idx_puzzles_steps ON puzzles(min_steps);\n")
		}
		sb.WriteString("\n")
	}
	if e.IncludeComments {
		fmt.Fprintf(&sb, "-- Generated %d puzzles\n\n", len(puzzles))
	}

	ids := IDSequence{}
	for _, chunk := range chunks(puzzles, e.batchSize()) {
		sb.WriteString("INSERT INTO puzzles (id, start_word, target_word, min_steps, difficulty) VALUES\n")
		for i, p := range chunk {
			fmt.Fprintf(&sb, "\t('%s', '%s', '%s', %d, '%s')",
				Escape(ids.Next(p)), Escape(p.Start), Escape(p.End), p.Steps(), p.Difficulty())
			sb.WriteString(terminator(i, len(chunk)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ExportDictionary renders words as INSERT OR IGNORE into the dictionary table.
func (e *SQLExporter) ExportDictionary(words []string) string {
	var sb strings.Builder
	if e.IncludeSchema {
		sb.WriteString(dictionarySchema)
		if e.IncludeComments {
			sb.WriteString("\n\n-- Indexes for efficient word lookups\n")
			sb.WriteString("CREATE INDEX IF NOT EXISTS idx_dictionary_length ON dictionary(length);\n")
		}
		sb.WriteString("\n")
	}
	if e.IncludeComments {
		fmt.Fprintf(&sb, "-- Generated %d dictionary words\n\n", len(words))
	}
	for _, chunk := range chunks(words, e.batchSize()) {
		sb.WriteString("INSERT OR IGNORE INTO dictionary (word, length) VALUES\n")
		for i, w := range chunk {
			fmt.Fprintf(&sb, "\t('%s', %d)", Escape(w), utf8.RuneCountInString(w))
			sb.WriteString(terminator(i, len(chunk)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *SQLExporter) batchSize() int {
	if e.BatchSize < 1 {
		return 100
	}
	return e.BatchSize
}

func terminator(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return ";"
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}

// Escape doubles single quotes for SQL string literals.
func Escape(s string) string { return strings.ReplaceAll(s, "'", "''") }

// IDSequence numbers repeated start/end pairs: cat_dog_001, cat_dog_002, ...
// The zero value is ready to use.
type IDSequence struct {
	seen map[string]int
}

func (s *IDSequence) Next(p domain.Puzzle) string {
	if s.seen == nil {
		s.seen = map[string]int{}
	}
	base := p.Start + "_" + p.End
	s.seen[base]++
	return fmt.Sprintf("%s_%03d", base, s.seen[base])
}
