package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/verity/internal/embedding"
	"horse.fit/verity/internal/reader"
	"horse.fit/verity/internal/scoring"
	"horse.fit/verity/internal/search"
	"horse.fit/verity/internal/stats"
)

// ErrBadDocument reports a payload that could not be read as a PDF with
// extractable text. A client problem, not a service failure.
var ErrBadDocument = errors.New("document could not be read")

// Searcher retrieves one candidate snippet per query. Implementations
// absorb their own transport failures; a degraded Result carries nil
// URL and snippet.
type Searcher interface {
	LookupAll(ctx context.Context, queries []string) ([]search.Result, int)
}

// Service runs the whole scan for one uploaded document: extract,
// retrieve, score, aggregate. It holds only process-wide collaborators
// and is safe for concurrent requests.
type Service struct {
	comparator *scoring.Comparator
	searcher   Searcher
	logger     zerolog.Logger
}

func NewService(encoder embedding.Encoder, searcher Searcher, logger zerolog.Logger, spanThreshold float64) *Service {
	return &Service{
		comparator: scoring.NewComparator(encoder, reader.SplitSentences, spanThreshold),
		searcher:   searcher,
		logger:     logger,
	}
}

// Scan processes one PDF payload end to end.
func (s *Service) Scan(ctx context.Context, payload io.ReaderAt, size int64) (*Report, error) {
	if s == nil || s.searcher == nil {
		return nil, fmt.Errorf("pipeline service is not initialized")
	}

	doc, err := reader.Extract(payload, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	return s.ScanDocument(ctx, doc)
}

// ScanDocument scores an already extracted document. Split out from Scan
// so the scoring flow is testable without PDF fixtures.
func (s *Service) ScanDocument(ctx context.Context, doc reader.Document) (*Report, error) {
	results, attempted := s.searcher.LookupAll(ctx, doc.Paragraphs)

	statistics := stats.Calculate(doc.FullText, doc.Paragraphs)

	paragraphResults := make([]scoring.ParagraphResult, 0, len(doc.Paragraphs))
	for i, paragraph := range doc.Paragraphs {
		var candidates []scoring.Candidate
		if i < len(results) {
			candidates = candidatesFrom(results[i])
		}

		comparisons, err := s.comparator.Compare(ctx, paragraph, candidates)
		if err != nil {
			return nil, fmt.Errorf("compare paragraph %d: %w", i, err)
		}

		paragraphResults = append(paragraphResults, scoring.ParagraphResult{
			Index:       i,
			Paragraph:   paragraph,
			Comparisons: comparisons,
		})
	}

	summary, err := scoring.Aggregate(paragraphResults)
	if err != nil {
		return nil, fmt.Errorf("aggregate document: %w", err)
	}

	s.logger.Info().
		Int("paragraphs", len(doc.Paragraphs)).
		Int("sources_attempted", attempted).
		Float64("blended_score", summary.Blended).
		Float64("unique_score", summary.Uniqueness).
		Msg("document scanned")

	return buildReport(doc.Metadata, statistics, paragraphResults, attempted, summary), nil
}

// candidatesFrom converts a retrieval result into scoring candidates. A
// result without a usable snippet contributes zero candidates, which
// later excludes the paragraph from the document means.
func candidatesFrom(result search.Result) []scoring.Candidate {
	if result.Snippet == nil || strings.TrimSpace(*result.Snippet) == "" {
		return nil
	}
	return []scoring.Candidate{{
		Snippet: *result.Snippet,
		URL:     result.URL,
	}}
}
