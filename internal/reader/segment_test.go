package reader

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	input := "\ufeff  First   line\t\r\n\n\n\nSecond  line  "
	got := CleanText(input)
	if strings.Contains(got, "\ufeff") {
		t.Fatal("BOM not stripped")
	}
	if got != "First line\n\nSecond line" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestSplitParagraphsOnBlankLines(t *testing.T) {
	t.Parallel()

	text := "First paragraph here.\n\nSecond paragraph\nwith a wrapped line.\n\nThird."
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %v", len(paragraphs), paragraphs)
	}
	if paragraphs[1] != "Second paragraph with a wrapped line." {
		t.Fatalf("wrapped line not flattened: %q", paragraphs[1])
	}
}

func TestSplitParagraphsFallbackGroupsSentencesInThrees(t *testing.T) {
	t.Parallel()

	text := "One is here. Two is here. Three is here. Four is here. Five is here."
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 grouped paragraphs, got %d: %v", len(paragraphs), paragraphs)
	}
	if paragraphs[0] != "One is here. Two is here. Three is here." {
		t.Fatalf("unexpected first group: %q", paragraphs[0])
	}
	if paragraphs[1] != "Four is here. Five is here." {
		t.Fatalf("unexpected second group: %q", paragraphs[1])
	}
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	text := "Cats are mammals. The sky is blue! Is water wet? Yes."
	sentences := SplitSentences(text)
	want := []string{"Cats are mammals.", "The sky is blue!", "Is water wet?", "Yes."}
	if len(sentences) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(sentences), sentences)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Fatalf("sentence %d: got %q want %q", i, sentences[i], want[i])
		}
	}
}

func TestSplitSentencesKeepsAbbreviations(t *testing.T) {
	t.Parallel()

	sentences := SplitSentences("Dr. Smith studied at St. Andrews. He graduated in 1999.")
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Dr. Smith studied at St. Andrews." {
		t.Fatalf("abbreviation split incorrectly: %q", sentences[0])
	}
}

func TestSplitSentencesKeepsInitials(t *testing.T) {
	t.Parallel()

	sentences := SplitSentences("The paper by J. Doe was cited widely. It remains relevant.")
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
}

func TestSplitSentencesEmpty(t *testing.T) {
	t.Parallel()

	if got := SplitSentences("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	got := EscapeHTML(`<b>"Fish & Chips"</b> isn't cheap`)
	want := "&lt;b&gt;&quot;Fish &amp; Chips&quot;&lt;/b&gt; isn&#39;t cheap"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
