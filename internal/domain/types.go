package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Puzzle is a shortest ladder between two words. Path[0] is Start and the
// last element is End.
type Puzzle struct {
	Start string
	End   string
	Path  []string
}

// NewPuzzle wraps a path found between start and end.
func NewPuzzle(start, end string, path []string) Puzzle {
	return Puzzle{Start: start, End: end, Path: append([]string(nil), path...)}
}

// Steps is the number of word changes in the ladder.
func (p Puzzle) Steps() int {
	if len(p.Path) == 0 {
		return 0
	}
	return len(p.Path) - 1
}

// Difficulty is derived from the path length only.
func (p Puzzle) Difficulty() Difficulty { return Classify(p.Steps()) }

type puzzleJSON struct {
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Path       []string   `json:"path"`
	Difficulty Difficulty `json:"difficulty"`
}

func (p Puzzle) MarshalJSON() ([]byte, error) {
	return json.Marshal(puzzleJSON{Start: p.Start, End: p.End, Path: p.Path, Difficulty: p.Difficulty()})
}

// UnmarshalJSON ignores any incoming difficulty; it is recomputed from the path.
func (p *Puzzle) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start string   `json:"start"`
		End   string   `json:"end"`
		Path  []string `json:"path"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Puzzle{Start: raw.Start, End: raw.End, Path: raw.Path}
	return nil
}

// Validate checks the endpoint invariants of a decoded puzzle.
func (p Puzzle) Validate() error {
	if len(p.Path) == 0 {
		return errors.New("puzzle has an empty path")
	}
	if p.Path[0] != p.Start || p.Path[len(p.Path)-1] != p.End {
		return fmt.Errorf("path endpoints %q..%q do not match %q..%q",
			p.Path[0], p.Path[len(p.Path)-1], p.Start, p.End)
	}
	return nil
}

// Record is a persisted puzzle with metadata.
type Record struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	Puzzle    Puzzle `json:"puzzle"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Steps      int        `json:"steps"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}

// Meta summarizes a record for listings.
func (r Record) Meta() PuzzleMeta {
	return PuzzleMeta{
		ID:         r.ID,
		Name:       r.Name,
		Start:      r.Puzzle.Start,
		End:        r.Puzzle.End,
		Steps:      r.Puzzle.Steps(),
		Difficulty: r.Puzzle.Difficulty(),
		CreatedAt:  r.CreatedAt,
	}
}

// Hint suggests the next word of a ladder.
type Hint struct {
	Message   string `json:"message,omitempty"`
	Next      string `json:"next,omitempty"`
	Remaining int    `json:"remaining"`
}

// Ratios are the target share of each tier in a balanced set.
type Ratios struct {
	Easy   float64 `json:"easy"`
	Medium float64 `json:"medium"`
	Hard   float64 `json:"hard"`
}

// DefaultRatios matches the mobile export defaults.
var DefaultRatios = Ratios{Easy: 0.4, Medium: 0.4, Hard: 0.2}
