package filter

import (
	"context"

	"github.com/gmile/pocketeer/pocket"
)

// Package-level defaults backing the convenience functions. The shared
// cache makes repeated Compile calls for the same expression cheap.
var (
	defaultCompiler  = NewExprCompiler(WithCache(100))
	defaultEvaluator = NewConcurrentEvaluator()
)

// Compile compiles an expression with the package default compiler.
func Compile(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Apply compiles the expression and returns the items matching it, in
// input order.
func Apply(ctx context.Context, expression string, items []pocket.Item) ([]pocket.Item, error) {
	compiled, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return defaultEvaluator.Evaluate(ctx, compiled, items)
}
