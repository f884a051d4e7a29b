package scoring

import (
	"context"
	"fmt"
	"strings"

	"horse.fit/verity/internal/embedding"
)

const (
	lexicalWeight  = 0.2
	semanticWeight = 0.8
)

// Candidate is one externally retrieved snippet paired with its origin.
// URL may be nil when retrieval could not attribute a source.
type Candidate struct {
	Snippet string
	URL     *string
}

// Comparison scores one paragraph against one candidate snippet.
type Comparison struct {
	Paragraph     string
	Snippet       string
	URL           *string
	LexicalScore  float64
	SemanticScore float64
	OverallScore  float64
	Spans         []MatchedSpan
}

// ParagraphResult collects the comparisons for one source paragraph,
// in document order.
type ParagraphResult struct {
	Index       int
	Paragraph   string
	Comparisons []Comparison
}

// Comparator orchestrates lexical scoring, whole-paragraph semantic
// scoring and sentence-level localization over one paragraph against
// its candidate snippets.
type Comparator struct {
	encoder   embedding.Encoder
	split     func(string) []string
	threshold float64
}

func NewComparator(encoder embedding.Encoder, split func(string) []string, threshold float64) *Comparator {
	if threshold <= 0 {
		threshold = DefaultSpanThreshold
	}
	if split == nil {
		split = func(text string) []string { return []string{text} }
	}
	return &Comparator{
		encoder:   encoder,
		split:     split,
		threshold: threshold,
	}
}

// Compare produces one Comparison per candidate, preserving candidate
// order. The paragraph and its sentences are encoded in a single batch,
// and each non-empty snippet exactly once; re-encoding per sentence pair
// would multiply embedding calls by sentences x snippets.
//
// A candidate with empty snippet text still yields a zero-score result:
// one failed retrieval must not abort the paragraph.
func (c *Comparator) Compare(ctx context.Context, paragraph string, candidates []Candidate) ([]Comparison, error) {
	if c == nil || c.encoder == nil {
		return nil, fmt.Errorf("comparator is not initialized")
	}
	if len(candidates) == 0 {
		return []Comparison{}, nil
	}

	sentences := c.split(paragraph)

	usable := make([]int, 0, len(candidates))
	for i, candidate := range candidates {
		if strings.TrimSpace(candidate.Snippet) != "" {
			usable = append(usable, i)
		}
	}

	var (
		paragraphVec []float64
		sentenceVecs [][]float64
		snippetVecs  = make([][]float64, len(candidates))
	)
	if len(usable) > 0 {
		batch := make([]string, 0, 1+len(sentences)+len(usable))
		batch = append(batch, paragraph)
		batch = append(batch, sentences...)
		for _, i := range usable {
			batch = append(batch, candidates[i].Snippet)
		}

		vectors, err := c.encoder.EncodeBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("encode paragraph batch: %w", err)
		}

		paragraphVec = vectors[0]
		sentenceVecs = vectors[1 : 1+len(sentences)]
		for n, i := range usable {
			snippetVecs[i] = vectors[1+len(sentences)+n]
		}
	}

	comparisons := make([]Comparison, 0, len(candidates))
	for i, candidate := range candidates {
		comparison := Comparison{
			Paragraph: paragraph,
			Snippet:   candidate.Snippet,
			URL:       candidate.URL,
			Spans:     []MatchedSpan{},
		}

		if snippetVecs[i] != nil {
			comparison.LexicalScore = Jaccard(paragraph, candidate.Snippet)
			comparison.SemanticScore = Cosine(paragraphVec, snippetVecs[i])
			comparison.Spans = LocalizeSpans(sentences, sentenceVecs, candidate.Snippet, snippetVecs[i], c.threshold)
			if comparison.Spans == nil {
				comparison.Spans = []MatchedSpan{}
			}
		}
		comparison.OverallScore = lexicalWeight*comparison.LexicalScore + semanticWeight*comparison.SemanticScore

		comparisons = append(comparisons, comparison)
	}

	return comparisons, nil
}
