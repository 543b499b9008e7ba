package pocket

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Paging parameters for RetrieveAll.
const (
	// retrievePageSize is the number of items fetched per page. The
	// service caps a single retrieve at 30 items.
	retrievePageSize = 30
	// maxConcurrentPages bounds the parallel page fetches.
	maxConcurrentPages = 5
)

// RetrieveAll walks the entire matching list. It fetches the first page
// with a total count requested, then fans the remaining offsets out
// concurrently, merging all pages into one list. When the server does not
// report a total it falls back to a sequential walk that stops at the
// first short page.
//
// Count, Offset and Total in the given options are overridden; everything
// else (state, tag, search, ...) applies to every page.
func (c *Client) RetrieveAll(ctx context.Context, opts RetrieveOptions) (ItemList, error) {
	opts.Count = retrievePageSize
	opts.Offset = 0
	opts.Total = true

	first, err := c.Retrieve(ctx, opts)
	if err != nil {
		return nil, err
	}

	merged := ItemList{}
	for id, item := range first.List {
		merged[id] = item
	}

	total := first.TotalCount()
	if total == 0 {
		return c.retrieveRemaining(ctx, opts, merged, len(first.List))
	}
	if total <= len(merged) {
		return merged, nil
	}

	// Total known: fetch the remaining pages concurrently.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)

	var mu sync.Mutex

	for offset := retrievePageSize; offset < total; offset += retrievePageSize {
		offset := offset
		g.Go(func() error {
			pageOpts := opts
			pageOpts.Offset = offset
			pageOpts.Total = false

			page, err := c.Retrieve(ctx, pageOpts)
			if err != nil {
				return err
			}

			mu.Lock()
			for id, item := range page.List {
				merged[id] = item
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("items", len(merged)).Int("total", total).Msg("Retrieved full list")
	return merged, nil
}

// retrieveRemaining walks pages sequentially until one comes back short.
// Used when the server left the total count out.
func (c *Client) retrieveRemaining(ctx context.Context, opts RetrieveOptions, merged ItemList, lastPage int) (ItemList, error) {
	opts.Total = false
	for offset := retrievePageSize; lastPage == retrievePageSize; offset += retrievePageSize {
		pageOpts := opts
		pageOpts.Offset = offset

		page, err := c.Retrieve(ctx, pageOpts)
		if err != nil {
			return nil, err
		}
		for id, item := range page.List {
			merged[id] = item
		}
		lastPage = len(page.List)
	}
	return merged, nil
}
