package lore

import (
	"context"
	"strings"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
)

// keywordEmbedder строит вектор по вхождению ключевых слов - достаточно,
// чтобы косинусная близость предпочитала фрагменты с нужной темой.
type keywordEmbedder struct {
	keywords []string
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, len(e.keywords))
		for j, kw := range e.keywords {
			if strings.Contains(strings.ToLower(t), kw) {
				v[j] = 1
			}
		}
		out[i] = v
	}
	return out, nil
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewIndex(s, &keywordEmbedder{keywords: []string{"dragon", "village", "river"}}, "test_lore")
}

func TestSeedAndQuery(t *testing.T) {
	idx := newTestIndex(t)

	text := "The dragon of the northern peaks hoards starlight.\n" +
		"The village elders remember the founding oath.\n" +
		"The river carries silt from the glass mountains."
	n, err := idx.Seed(context.Background(), "world", text)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("no chunks indexed")
	}

	got, err := idx.Query(context.Background(), "tell me about the dragon", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "dragon") {
		t.Errorf("top chunk = %v", got)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	idx := newTestIndex(t)

	got, err := idx.Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("empty index must yield no snippets, got %v", got)
	}
}

func TestSeed_Reindexing(t *testing.T) {
	idx := newTestIndex(t)

	if _, err := idx.Seed(context.Background(), "world", "The river bends east."); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Seed(context.Background(), "world", "The river bends west."); err != nil {
		t.Fatal(err)
	}

	got, err := idx.Query(context.Background(), "river", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "The river bends west." {
		t.Errorf("reseed must overwrite by doc_id, got %v", got)
	}
}

func TestSplitText(t *testing.T) {
	long := strings.Repeat("a line of lore text here\n", 40)
	chunks := splitText(long, 100)
	if len(chunks) < 5 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if strings.Contains(c, "a line of lore text herea") {
			t.Error("lines must not be split mid-line")
		}
	}
}
