package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/gmile/pocketeer/pocket"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables compiled-filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions available to expressions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached.(CompiledFilter), nil
		}
	}

	// Item properties are injected at evaluation time, so compilation
	// only knows the helper functions.
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against an item. Expressions that fail at
// runtime count as non-matching rather than aborting the whole pass.
func (f *exprFilter) Evaluate(item pocket.Item) bool {
	env := createRuntimeEnvironment(item)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// AsBool() at compile time guarantees the assertion holds.
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all item-independent helpers to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers, all case-insensitive
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// createRuntimeEnvironment creates the evaluation environment for one item
func createRuntimeEnvironment(item pocket.Item) map[string]any {
	env := make(map[string]any, 40)

	addHelperFunctions(env)

	// The item itself plus flattened properties for convenience
	env["Item"] = item
	env["ItemID"] = item.ItemID
	env["Title"] = item.Title()
	env["URL"] = item.URL()
	env["Domain"] = item.Domain()
	env["Excerpt"] = item.Excerpt
	env["Lang"] = item.Lang
	env["WordCount"] = item.Words()
	env["TimeToRead"] = item.TimeToRead
	env["Favorite"] = item.IsFavorite()
	env["Archived"] = item.IsArchived()
	env["Unread"] = item.Status == pocket.StatusUnread
	env["Status"] = string(item.Status)
	env["Added"] = item.AddedAt()
	env["Updated"] = item.UpdatedAt()
	env["Read"] = item.ReadAt()

	tags := item.TagNames()
	env["Tags"] = tags
	env["TagCount"] = len(tags)

	// Item-specific helpers as closures
	env["hasTag"] = createHasTagFunc(tags)
	env["hasAnyTag"] = createHasAnyTagFunc(tags)

	return env
}

// createHasTagFunc builds a case-insensitive single-tag matcher.
func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}

// createHasAnyTagFunc builds a matcher that succeeds when the item carries
// at least one of the given tags.
func createHasAnyTagFunc(tags []string) func(...string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(candidates ...string) bool {
		for _, candidate := range candidates {
			if slices.Contains(lowerTags, strings.ToLower(candidate)) {
				return true
			}
		}
		return false
	}
}
