package pipeline

import (
	"horse.fit/verity/internal/reader"
	"horse.fit/verity/internal/scoring"
	"horse.fit/verity/internal/stats"
)

// Wire shapes for the scan response. Field names are part of the client
// contract and must not change, misspellings included.

type MetadataReport struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Keywords string `json:"keywords"`
}

type MatchedSection struct {
	ParagraphSentence string  `json:"Paragraphe_pdf_Content"`
	SnippetSection    string  `json:"section_snippet_search"`
	Similarity        float64 `json:"similarity"`
	Color             string  `json:"color"`
}

type ComparisonReport struct {
	ParagraphContent string           `json:"paragraph_content"`
	SnippetContent   string           `json:"snippet_content"`
	URL              *string          `json:"url"`
	JaccardScore     float64          `json:"jaccard_score"`
	ModelScore       float64          `json:"model_score"`
	OverallScore     float64          `json:"overall_score"`
	MatchedSections  []MatchedSection `json:"plagiarized_sections_in_both"`
}

type ParagraphReport struct {
	ParagraphIndex   int                `json:"paragraph_index"`
	ParagraphContent string             `json:"paragraph_content"`
	Results          []ComparisonReport `json:"results"`
}

type OverallReport struct {
	JaccardScore       float64 `json:"jaccard_score"`
	ModelScore         float64 `json:"model_score"`
	OverallScorePDF    float64 `json:"overal_score_pdf"`
	OverallUniqueScore float64 `json:"overal_unique_score_pdf"`
}

type Report struct {
	Metadata          MetadataReport    `json:"metadata"`
	Statistics        stats.Statistics  `json:"statistics"`
	PlagiarismResults []ParagraphReport `json:"plagiarism_results"`
	TotalSourcesFound int               `json:"total_sources_found"`
	Overall           OverallReport     `json:"overal"`
}

func buildReport(
	meta reader.Metadata,
	statistics stats.Statistics,
	results []scoring.ParagraphResult,
	attempted int,
	summary scoring.Summary,
) *Report {
	paragraphReports := make([]ParagraphReport, 0, len(results))
	for _, result := range results {
		comparisons := make([]ComparisonReport, 0, len(result.Comparisons))
		for _, comparison := range result.Comparisons {
			comparisons = append(comparisons, ComparisonReport{
				ParagraphContent: comparison.Paragraph,
				SnippetContent:   comparison.Snippet,
				URL:              comparison.URL,
				JaccardScore:     comparison.LexicalScore,
				ModelScore:       comparison.SemanticScore,
				OverallScore:     comparison.OverallScore,
				MatchedSections:  matchedSections(comparison.Spans),
			})
		}
		paragraphReports = append(paragraphReports, ParagraphReport{
			ParagraphIndex:   result.Index,
			ParagraphContent: result.Paragraph,
			Results:          comparisons,
		})
	}

	return &Report{
		Metadata: MetadataReport{
			Title:    meta.Title,
			Author:   meta.Author,
			Subject:  meta.Subject,
			Keywords: meta.Keywords,
		},
		Statistics:        statistics,
		PlagiarismResults: paragraphReports,
		TotalSourcesFound: attempted,
		Overall: OverallReport{
			JaccardScore:       summary.MeanLexical,
			ModelScore:         summary.MeanSemantic,
			OverallScorePDF:    summary.Blended,
			OverallUniqueScore: summary.Uniqueness,
		},
	}
}

func matchedSections(spans []scoring.MatchedSpan) []MatchedSection {
	sections := make([]MatchedSection, 0, len(spans))
	for _, span := range spans {
		sections = append(sections, MatchedSection{
			ParagraphSentence: span.Sentence,
			SnippetSection:    span.Snippet,
			Similarity:        span.Similarity,
			Color:             colorFor(span.Severity),
		})
	}
	return sections
}

func colorFor(severity scoring.Severity) string {
	if severity == scoring.SeverityHigh {
		return "red"
	}
	return "yellow"
}
