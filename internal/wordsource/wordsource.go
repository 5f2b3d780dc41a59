// Package wordsource loads the dictionary and base-word lists and normalizes
// them into the form the word graph expects: lowercase a-z words, deduplicated.
package wordsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Normalize trims and lowercases every entry and drops blanks, comments and
// anything that is not made only of the letters a-z. The result is sorted and
// free of duplicates.
func Normalize(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := strings.ToLower(strings.TrimSpace(line))
		if w == "" || strings.HasPrefix(w, "#") || !isWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

func isWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// ReadWords reads one word per line.
func ReadWords(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Normalize(lines), nil
}

// LoadFile reads a word list from disk.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// Files reads both lists from local text files.
type Files struct {
	DictionaryPath string
	BaseWordsPath  string
}

func (f Files) Dictionary(ctx context.Context) ([]string, error) {
	return LoadFile(f.DictionaryPath)
}

func (f Files) BaseWords(ctx context.Context) ([]string, error) {
	return LoadFile(f.BaseWordsPath)
}
