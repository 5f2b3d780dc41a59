package validator

import (
	"strings"
	"unicode/utf8"

	"svw.info/wordladder/internal/domain"
)

// LadderValidator checks ladder shape without consulting a dictionary.
type LadderValidator struct{}

func New() *LadderValidator { return &LadderValidator{} }

// VerifyPuzzle splits csv on commas, trims and lowercases each token and
// reports whether every consecutive pair is one substitution apart. Fewer
// than two tokens is malformed input, not an invalid ladder.
func (v *LadderValidator) VerifyPuzzle(csv string) (bool, error) {
	words := Tokenize(csv)
	if len(words) < 2 {
		return false, domain.ErrInsufficientWords
	}
	ok, _ := v.Validate(words)
	return ok, nil
}

// Validate returns the indices i where words[i] and words[i+1] are not adjacent.
func (v *LadderValidator) Validate(words []string) (bool, []int) {
	breaks := make([]int, 0, 2)
	for i := 0; i+1 < len(words); i++ {
		if !OneLetterApart(words[i], words[i+1]) {
			breaks = append(breaks, i)
		}
	}
	return len(breaks) == 0, breaks
}

// Tokenize splits a comma-separated ladder. Empty tokens are kept so that
// "cat,,cot" fails the adjacency check rather than being silently repaired.
func Tokenize(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return out
}

// OneLetterApart is the edge relation of the word graph: equal length and
// exactly one differing position.
func OneLetterApart(a, b string) bool {
	if utf8.RuneCountInString(a) != utf8.RuneCountInString(b) {
		return false
	}
	diff := 0
	rb := []rune(b)
	for i, ra := range []rune(a) {
		if ra != rb[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}
