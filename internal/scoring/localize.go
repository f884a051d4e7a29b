package scoring

const (
	// DefaultSpanThreshold is the similarity floor below which a sentence
	// is not reported as a matched span.
	DefaultSpanThreshold = 0.4

	highSeverityFloor = 0.7
)

type Severity string

const (
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// MatchedSpan is the single sentence inside a paragraph judged most
// responsible for a semantic match against one snippet.
type MatchedSpan struct {
	Sentence   string
	Snippet    string
	Similarity float64
	Severity   Severity
}

// LocalizeSpans finds the paragraph sentence with the highest cosine
// similarity to the snippet, among sentences exceeding threshold. Ties
// resolve to the first occurrence. Returns zero or one span; an empty
// result means no sentence cleared the floor, which is a valid outcome,
// not an error.
func LocalizeSpans(sentences []string, sentenceVecs [][]float64, snippet string, snippetVec []float64, threshold float64) []MatchedSpan {
	if threshold <= 0 {
		threshold = DefaultSpanThreshold
	}
	if len(sentences) != len(sentenceVecs) {
		return nil
	}

	var best *MatchedSpan
	for i, vec := range sentenceVecs {
		similarity := Cosine(vec, snippetVec)
		if similarity <= threshold {
			continue
		}
		if best != nil && similarity <= best.Similarity {
			continue
		}
		best = &MatchedSpan{
			Sentence:   sentences[i],
			Snippet:    snippet,
			Similarity: similarity,
			Severity:   severityFor(similarity),
		}
	}

	if best == nil {
		return nil
	}
	return []MatchedSpan{*best}
}

func severityFor(similarity float64) Severity {
	if similarity >= highSeverityFloor {
		return SeverityHigh
	}
	return SeverityModerate
}
