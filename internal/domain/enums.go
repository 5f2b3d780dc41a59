package domain

import (
	"fmt"
	"strings"
)

// Difficulty labels a ladder by its step count. It is never set directly;
// use Classify or Puzzle.Difficulty.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Difficulties lists the tiers in selection order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Classify maps a step count to a tier: 3-4 easy, 5-7 medium, anything else hard.
// Ladders of 0-2 steps fall through to Hard; the generator never produces them.
func Classify(steps int) Difficulty {
	switch {
	case steps >= 3 && steps <= 4:
		return Easy
	case steps >= 5 && steps <= 7:
		return Medium
	default:
		return Hard
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts easy|medium|hard, case-insensitive.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("%w: unknown difficulty %q", ErrMalformedInput, s)
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	switch d {
	case Easy, Medium, Hard:
		return []byte(d.String()), nil
	}
	return nil, fmt.Errorf("invalid difficulty %d", int(d))
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
