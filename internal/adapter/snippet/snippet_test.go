package snippet

import (
	"strings"
	"testing"
)

type prefixStemmer struct{}

func (prefixStemmer) Stem(word string) string {
	if len(word) > 3 {
		return word[:3]
	}
	return word
}

func TestSnippet_WindowAroundFirstMatch(t *testing.T) {
	e := NewExtractor(2, nil)

	text := "uno dos tres cuatro Madrid seis siete ocho nueve"
	got := e.Snippet(text, []string{"madrid", "nueve"})
	if got != "...tres cuatro Madrid seis siete..." {
		t.Errorf("unexpected snippet %q", got)
	}
}

func TestSnippet_AtEdges(t *testing.T) {
	e := NewExtractor(3, nil)

	if got := e.Snippet("Madrid gana, otra vez", []string{"madrid"}); got != "Madrid gana, otra vez" {
		t.Errorf("expected whole text, got %q", got)
	}
	if got := e.Snippet("", []string{"madrid"}); got != "" {
		t.Errorf("expected empty snippet, got %q", got)
	}
}

func TestSnippet_NoMatchFallsBackToOpening(t *testing.T) {
	e := NewExtractor(1, nil)

	got := e.Snippet("uno dos tres cuatro cinco", []string{"sevilla"})
	if got != "uno dos tres..." {
		t.Errorf("unexpected snippet %q", got)
	}
}

func TestSnippet_StemmedMatch(t *testing.T) {
	e := NewExtractor(1, prefixStemmer{})

	got := e.Snippet("ayer el jugador marcó dos goles", []string{"jugar"})
	if !strings.Contains(got, "jugador") {
		t.Errorf("expected stemmed match, got %q", got)
	}
}
