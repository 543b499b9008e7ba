package cmd

import (
	"context"
	"fmt"

	"github.com/gmile/pocketeer/pocket"
)

// resolveTargets turns a command's arguments into the item ids to operate
// on. Explicit ids are taken as-is; with no ids the --filter/--preset
// expression selects items from the whole library, and the matched items
// come back too so the command can show what it is about to touch. The
// config default filter never selects targets here; it applies to list
// only.
func resolveTargets(ctx context.Context, args []string) ([]string, []pocket.Item, error) {
	if len(args) > 0 {
		for _, id := range args {
			if id == "" {
				return nil, nil, fmt.Errorf("empty item id")
			}
		}
		return args, nil, nil
	}

	expression, err := explicitFilterExpression()
	if err != nil {
		return nil, nil, err
	}
	if expression == "" {
		return nil, nil, fmt.Errorf("specify item ids or select items with --filter/--preset")
	}

	logger.Info().Str("filter", expression).Msg("Selecting items")

	// Tags only arrive with complete detail, and filters tend to use them
	list, err := client.RetrieveAll(ctx, pocket.RetrieveOptions{
		State:      pocket.StateAll,
		DetailType: pocket.DetailComplete,
	})
	if err != nil {
		return nil, nil, err
	}

	matched, err := filterManager.EvaluateExpression(ctx, expression, list.Items())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	ids := make([]string, len(matched))
	for i, item := range matched {
		ids[i] = item.ItemID
	}

	return ids, matched, nil
}
