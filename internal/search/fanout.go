package search

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LookupAll runs one lookup per query with bounded concurrency. Results
// come back in query order regardless of completion order; a failed
// lookup occupies its slot with a nil-snippet Result. The second return
// is the number of queries attempted.
func (c *Client) LookupAll(ctx context.Context, queries []string) ([]Result, int) {
	results := make([]Result, len(queries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.opts.Workers)
	for i, query := range queries {
		group.Go(func() error {
			results[i] = c.Lookup(groupCtx, query)
			return nil
		})
	}
	// Lookup never returns an error; failures degrade in place.
	_ = group.Wait()

	return results, len(queries)
}
