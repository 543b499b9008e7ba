package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gmile/pocketeer/pocket"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of concurrent evaluation goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithChunkSize sets the minimum chunk size for concurrent processing
func WithChunkSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// ConcurrentEvaluator implements Evaluator. Small lists are filtered
// sequentially; larger ones are split into chunks evaluated in parallel,
// with the input order restored in the result.
type ConcurrentEvaluator struct {
	workers   int
	chunkSize int
}

// NewConcurrentEvaluator creates an evaluator with sensible defaults
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: 100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the items matching the filter, in input order.
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, items []pocket.Item) ([]pocket.Item, error) {
	if len(items) == 0 {
		return []pocket.Item{}, nil
	}

	// Concurrency only pays off past the chunk threshold.
	if len(items) < e.chunkSize {
		return evaluateSequential(filter, items), nil
	}

	return e.evaluateConcurrent(ctx, filter, items)
}

func evaluateSequential(filter CompiledFilter, items []pocket.Item) []pocket.Item {
	matches := make([]pocket.Item, 0, len(items)/4)
	for _, item := range items {
		if filter.Evaluate(item) {
			matches = append(matches, item)
		}
	}
	return matches
}

// evaluateConcurrent splits the items into chunks and filters them in
// parallel. Each chunk writes its matches into its own slot, so the final
// concatenation preserves the input order without extra sorting.
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, items []pocket.Item) ([]pocket.Item, error) {
	chunkSize := max(len(items)/e.workers, e.chunkSize)
	numChunks := (len(items) + chunkSize - 1) / chunkSize
	chunkMatches := make([][]pocket.Item, numChunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for index := 0; index < numChunks; index++ {
		index := index
		start := index * chunkSize
		end := min(start+chunkSize, len(items))
		chunk := items[start:end]

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			matches := make([]pocket.Item, 0, len(chunk)/4)
			for _, item := range chunk {
				if filter.Evaluate(item) {
					matches = append(matches, item)
				}
			}
			chunkMatches[index] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, matches := range chunkMatches {
		total += len(matches)
	}
	allMatches := make([]pocket.Item, 0, total)
	for _, matches := range chunkMatches {
		allMatches = append(allMatches, matches...)
	}

	return allMatches, nil
}
