package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"svw.info/wordladder/internal/domain"
)

// JSON writes puzzles as an indented JSON array.
func JSON(w io.Writer, puzzles []domain.Puzzle) error {
	if puzzles == nil {
		puzzles = []domain.Puzzle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(puzzles)
}

// Text writes one "start -> end: a -> b -> c" line per puzzle.
func Text(w io.Writer, puzzles []domain.Puzzle) error {
	for _, p := range puzzles {
		if _, err := fmt.Fprintf(w, "%s -> %s: %s\n", p.Start, p.End, strings.Join(p.Path, " -> ")); err != nil {
			return err
		}
	}
	return nil
}

// Describe renders a single puzzle for terminal output.
func Describe(w io.Writer, p domain.Puzzle) error {
	_, err := fmt.Fprintf(w, "Start: %s\nEnd: %s\nPath: %s\nDifficulty: %s\n",
		p.Start, p.End, strings.Join(p.Path, " -> "), p.Difficulty())
	return err
}
