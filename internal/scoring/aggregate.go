package scoring

import "errors"

// ErrInsufficientData reports that no paragraph produced a comparison,
// so no verdict exists. Callers must keep this distinct from a fully
// unique document: "could not assess" and "0% plagiarised" are not the
// same outcome.
var ErrInsufficientData = errors.New("no paragraph produced any comparison")

// Summary is the whole-document verdict, derived once per request from
// the paragraph results and never mutated.
type Summary struct {
	MeanLexical  float64
	MeanSemantic float64
	Blended      float64
	Uniqueness   float64
}

// Aggregate folds paragraph results into one Summary. Each paragraph's
// first comparison is its representative: exactly one search query is
// issued per paragraph upstream, so first and best coincide. Paragraphs
// with zero comparisons are excluded from both numerator and
// denominator; counting them would skew the means with missing data.
func Aggregate(results []ParagraphResult) (Summary, error) {
	var (
		sumLexical  float64
		sumSemantic float64
		counted     int
	)

	for _, result := range results {
		if len(result.Comparisons) == 0 {
			continue
		}
		representative := result.Comparisons[0]
		sumLexical += representative.LexicalScore
		sumSemantic += representative.SemanticScore
		counted++
	}

	if counted == 0 {
		return Summary{}, ErrInsufficientData
	}

	meanLexical := sumLexical / float64(counted)
	meanSemantic := sumSemantic / float64(counted)
	blended := lexicalWeight*meanLexical + semanticWeight*meanSemantic

	return Summary{
		MeanLexical:  meanLexical,
		MeanSemantic: meanSemantic,
		Blended:      blended,
		Uniqueness:   1 - blended,
	}, nil
}
