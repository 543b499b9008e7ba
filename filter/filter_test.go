package filter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gmile/pocketeer/pocket"
)

func testItem(id, title, url string, opts ...func(*pocket.Item)) pocket.Item {
	item := pocket.Item{
		ItemID:        id,
		ResolvedTitle: title,
		ResolvedURL:   url,
		Status:        pocket.StatusUnread,
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

func withTags(tags ...string) func(*pocket.Item) {
	return func(item *pocket.Item) {
		item.Tags = make(map[string]pocket.ItemTag, len(tags))
		for _, tag := range tags {
			item.Tags[tag] = pocket.ItemTag{ItemID: item.ItemID, Tag: tag}
		}
	}
}

func withFavorite() func(*pocket.Item) {
	return func(item *pocket.Item) {
		item.Favorite = "1"
	}
}

func withArchived() func(*pocket.Item) {
	return func(item *pocket.Item) {
		item.Status = pocket.StatusArchived
	}
}

func withWordCount(n int) func(*pocket.Item) {
	return func(item *pocket.Item) {
		item.WordCount = strconv.Itoa(n)
	}
}

func withAddedDaysAgo(days int) func(*pocket.Item) {
	return func(item *pocket.Item) {
		added := time.Now().AddDate(0, 0, -days)
		item.TimeAdded = strconv.FormatInt(added.Unix(), 10)
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasTag("golang")`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:        "whitespace only",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasTag("golang") and WordCount > 1000 and daysSince(Added) < 30`,
			wantErr:    false,
		},
	}

	compiler := NewExprCompiler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("Expression() = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestEvaluateItemProperties(t *testing.T) {
	item := testItem("1", "Writing a Pocket Client in Go", "https://blog.example.com/pocket-go",
		withTags("golang", "HTTP"),
		withFavorite(),
		withWordCount(2500),
		withAddedDaysAgo(10),
	)

	tests := []struct {
		expression string
		want       bool
	}{
		{`hasTag("golang")`, true},
		{`hasTag("GOLANG")`, true}, // case-insensitive
		{`hasTag("rust")`, false},
		{`hasAnyTag("rust", "http")`, true},
		{`hasAnyTag("rust", "python")`, false},
		{`Favorite`, true},
		{`not Archived`, true},
		{`Unread`, true},
		{`WordCount > 1000`, true},
		{`WordCount > 5000`, false},
		{`TagCount == 2`, true},
		{`contains(Title, "pocket")`, true},
		{`startsWith(Title, "writing")`, true},
		{`endsWith(URL, "pocket-go")`, true},
		{`Domain == "blog.example.com"`, true},
		{`daysSince(Added) >= 10`, true},
		{`daysSince(Added) > 30`, false},
		{`Added > daysAgo(30)`, true},
		{`Added < monthsAgo(1)`, false},
		{`len(Tags) == 2`, true},
		{`ItemID == "1"`, true},
		{`Item.ResolvedTitle != ""`, true},
	}

	compiler := NewExprCompiler()

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := filter.Evaluate(item); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateArchivedItem(t *testing.T) {
	item := testItem("2", "Old News", "https://example.com/old", withArchived())

	compiler := NewExprCompiler()
	filter, err := compiler.Compile(`Archived and not Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !filter.Evaluate(item) {
		t.Error("expected archived unfavorited item to match")
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compiler.Compile(`Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if first != second {
		t.Error("expected cached filter to be reused")
	}
	if size := compiler.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1", size)
	}

	// Exceed capacity, oldest entry gets evicted.
	if _, err := compiler.Compile(`Archived`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := compiler.Compile(`Unread`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if size := compiler.Size(); size != 2 {
		t.Errorf("Size() = %d, want 2 after eviction", size)
	}

	compiler.Clear()
	if size := compiler.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after Clear", size)
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"shout": strings.ToUpper,
	}))

	filter, err := compiler.Compile(`shout("yes") == "YES"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !filter.Evaluate(testItem("1", "t", "https://example.com")) {
		t.Error("custom function not available at evaluation")
	}
}

func TestEvaluatorPreservesOrder(t *testing.T) {
	items := make([]pocket.Item, 500)
	for i := range items {
		item := testItem(fmt.Sprintf("%d", i), fmt.Sprintf("Article %d", i), "https://example.com")
		if i%3 == 0 {
			item.Favorite = "1"
		}
		items[i] = item
	}

	compiler := NewExprCompiler()
	filter, err := compiler.Compile(`Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	sequential := evaluateSequential(filter, items)

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithChunkSize(50))
	concurrent, err := evaluator.Evaluate(context.Background(), filter, items)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(concurrent) != len(sequential) {
		t.Fatalf("concurrent returned %d items, sequential %d", len(concurrent), len(sequential))
	}
	for i := range concurrent {
		if concurrent[i].ItemID != sequential[i].ItemID {
			t.Fatalf("order diverges at %d: %s vs %s", i, concurrent[i].ItemID, sequential[i].ItemID)
		}
	}
}

func TestEvaluatorSmallListStaysSequential(t *testing.T) {
	items := []pocket.Item{
		testItem("1", "a", "https://example.com", withFavorite()),
		testItem("2", "b", "https://example.com"),
	}

	compiler := NewExprCompiler()
	filter, err := compiler.Compile(`Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	evaluator := NewConcurrentEvaluator()
	matches, err := evaluator.Evaluate(context.Background(), filter, items)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(matches) != 1 || matches[0].ItemID != "1" {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestEvaluatorEmptyInput(t *testing.T) {
	compiler := NewExprCompiler()
	filter, err := compiler.Compile(`Favorite`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	evaluator := NewConcurrentEvaluator()
	matches, err := evaluator.Evaluate(context.Background(), filter, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestManagerPresets(t *testing.T) {
	manager := NewManager()

	err := manager.RegisterFilters(map[string]string{
		"favorites":  `Favorite`,
		"long-reads": `WordCount > 2000`,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	names := manager.ListFilters()
	if len(names) != 2 || names[0] != "favorites" || names[1] != "long-reads" {
		t.Errorf("ListFilters() = %v", names)
	}

	items := []pocket.Item{
		testItem("1", "short fav", "https://example.com", withFavorite(), withWordCount(100)),
		testItem("2", "long plain", "https://example.com", withWordCount(3000)),
	}

	matches, err := manager.EvaluateFilter(context.Background(), "long-reads", items)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(matches) != 1 || matches[0].ItemID != "2" {
		t.Errorf("unexpected matches: %+v", matches)
	}

	if _, err := manager.EvaluateFilter(context.Background(), "missing", items); err == nil {
		t.Error("expected error for unknown filter name")
	}
}

func TestManagerRejectsBrokenPresetSet(t *testing.T) {
	manager := NewManager()

	err := manager.RegisterFilters(map[string]string{
		"good": `Favorite`,
		"bad":  `((`,
	})
	if err == nil {
		t.Fatal("expected error")
	}

	// All-or-nothing: the good one must not have been registered.
	if _, exists := manager.GetFilter("good"); exists {
		t.Error("partial registration after failed batch")
	}
}

func TestManagerEvaluateExpression(t *testing.T) {
	manager := NewManager()

	items := []pocket.Item{
		testItem("1", "match", "https://example.com", withTags("keep")),
		testItem("2", "no match", "https://example.com"),
	}

	matches, err := manager.EvaluateExpression(context.Background(), `hasTag("keep")`, items)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(matches) != 1 || matches[0].ItemID != "1" {
		t.Errorf("unexpected matches: %+v", matches)
	}

	var compErr *CompilationError
	_, err = manager.EvaluateExpression(context.Background(), `)(`, items)
	if err == nil {
		t.Fatal("expected compilation error")
	}
	if !errors.As(err, &compErr) {
		t.Errorf("expected CompilationError, got %T", err)
	}
}

func TestApply(t *testing.T) {
	items := []pocket.Item{
		testItem("1", "short", "https://example.com/a", withWordCount(100)),
		testItem("2", "long", "https://example.com/b", withWordCount(9000)),
		testItem("3", "medium", "https://example.com/c", withWordCount(2000)),
	}

	matches, err := Apply(context.Background(), "WordCount > 500", items)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// Input order survives filtering.
	if matches[0].ItemID != "2" || matches[1].ItemID != "3" {
		t.Errorf("unexpected order: %s, %s", matches[0].ItemID, matches[1].ItemID)
	}

	if _, err := Apply(context.Background(), "", items); err == nil {
		t.Error("expected error for empty expression")
	}
}
