package filter

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/gmile/pocketeer/pocket"
)

// generateTestItems creates test item data
func generateTestItems(count int) []pocket.Item {
	tagPool := []string{"golang", "news", "longread"}
	items := make([]pocket.Item, count)

	for i := 0; i < count; i++ {
		favorite := "0"
		if i%2 == 0 {
			favorite = "1"
		}
		item := pocket.Item{
			ItemID:        strconv.Itoa(i),
			ResolvedTitle: fmt.Sprintf("Article %d", i),
			ResolvedURL:   fmt.Sprintf("https://example.com/articles/%d", i),
			Favorite:      favorite,
			Status:        pocket.StatusUnread,
			WordCount:     strconv.Itoa(500 + i%5000),
			TimeAdded:     strconv.FormatInt(time.Now().AddDate(0, -(i%12), 0).Unix(), 10),
		}
		item.Tags = make(map[string]pocket.ItemTag)
		for _, tag := range tagPool[:(i%3)+1] {
			item.Tags[tag] = pocket.ItemTag{ItemID: item.ItemID, Tag: tag}
		}
		items[i] = item
	}

	return items
}

// Benchmark filter compilation
func BenchmarkCompile(b *testing.B) {
	expressions := []struct {
		name string
		expr string
	}{
		{"simple", `hasTag("golang")`},
		{"complex", `hasTag("golang") and WordCount > 1000 and Added > monthsAgo(6)`},
	}

	compiler := NewExprCompiler()

	for _, tc := range expressions {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := compiler.Compile(tc.expr)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark filter compilation with caching
func BenchmarkCompileWithCache(b *testing.B) {
	compiler := NewExprCompiler(WithCache(100))
	expression := `hasTag("golang") and WordCount > 1000`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := compiler.Compile(expression)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark single filter evaluation
func BenchmarkEvaluate(b *testing.B) {
	items := generateTestItems(1000)
	filter, _ := NewExprCompiler().Compile(`hasTag("golang") and WordCount > 2000`)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		matches := 0
		for _, item := range items {
			if filter.Evaluate(item) {
				matches++
			}
		}
		_ = matches
	}
}

// Benchmark concurrent evaluation
func BenchmarkEvaluateConcurrent(b *testing.B) {
	items := generateTestItems(10000)
	filter, _ := NewExprCompiler().Compile(`hasTag("golang") and Added > monthsAgo(6)`)
	ctx := context.Background()

	evaluators := []struct {
		name      string
		evaluator *ConcurrentEvaluator
	}{
		{"workers-1", NewConcurrentEvaluator(WithWorkers(1))},
		{"workers-4", NewConcurrentEvaluator(WithWorkers(4))},
		{"workers-8", NewConcurrentEvaluator(WithWorkers(8))},
		{"workers-default", NewConcurrentEvaluator()},
	}

	for _, tc := range evaluators {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := tc.evaluator.Evaluate(ctx, filter, items)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark helper function performance
func BenchmarkHelperFunctions(b *testing.B) {
	tags := []string{"golang", "news", "longread"}

	b.Run("hasTag", func(b *testing.B) {
		hasTag := createHasTagFunc(tags)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = hasTag("golang")
		}
	})

	b.Run("hasAnyTag", func(b *testing.B) {
		hasAnyTag := createHasAnyTagFunc(tags)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = hasAnyTag("missing", "news")
		}
	})
}
