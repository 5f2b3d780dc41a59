package hint

import (
	"context"
	"testing"

	"svw.info/wordladder/internal/graph"
)

func TestHintNextWord(t *testing.T) {
	g, err := graph.Build(context.Background(), []string{"cat", "cot", "cog", "dog", "bat"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := NewLadder(g)

	got, ok := h.Hint("cat", "dog")
	if !ok {
		t.Fatal("expected a hint from cat to dog")
	}
	if got.Next != "cot" || got.Remaining != 3 {
		t.Fatalf("hint = %+v, want next=cot remaining=3", got)
	}

	got, ok = h.Hint("cog", "dog")
	if !ok || got.Next != "dog" || got.Remaining != 1 {
		t.Fatalf("hint = %+v ok=%v, want next=dog remaining=1", got, ok)
	}
}

func TestHintAtTarget(t *testing.T) {
	g, _ := graph.Build(context.Background(), []string{"dog"}, nil)
	got, ok := NewLadder(g).Hint("dog", "dog")
	if !ok || got.Next != "" || got.Remaining != 0 {
		t.Fatalf("hint = %+v ok=%v", got, ok)
	}
}

func TestHintUnreachable(t *testing.T) {
	g, _ := graph.Build(context.Background(), []string{"cat", "dog"}, nil)
	if _, ok := NewLadder(g).Hint("cat", "dog"); ok {
		t.Fatal("expected no hint between disconnected words")
	}
}
