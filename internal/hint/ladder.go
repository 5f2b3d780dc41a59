package hint

import (
	"fmt"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/ports"
)

// Ladder suggests the next word on a shortest ladder toward the target.
type Ladder struct {
	Paths ports.PathFinder
}

func NewLadder(p ports.PathFinder) *Ladder { return &Ladder{Paths: p} }

// Hint returns false when the target is unreachable from current.
func (h *Ladder) Hint(current, target string) (domain.Hint, bool) {
	path, ok := h.Paths.ShortestPath(current, target)
	if !ok {
		return domain.Hint{}, false
	}
	if len(path) == 1 {
		return domain.Hint{Message: "Already at " + target, Remaining: 0}, true
	}
	remaining := len(path) - 1
	return domain.Hint{
		Message:   fmt.Sprintf("Try %q: %d step(s) to %q", path[1], remaining, target),
		Next:      path[1],
		Remaining: remaining,
	}, true
}
