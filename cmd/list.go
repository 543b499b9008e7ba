package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/pocket"
)

var (
	listAll      bool
	listState    string
	listTag      string
	listSearch   string
	listDomain   string
	listFavorite bool
	listCount    int
	listJSON     bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in your Pocket library",
	Long: `List items in your Pocket library, newest first.

Server-side narrowing (--state, --tag, --search, --domain, --favorite)
happens in the retrieve call; --filter and --preset evaluate an
expression against every returned item on top of that.`,
	PreRunE: initializeApp,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().BoolVar(&listAll, "all", false, "page through the entire library")
	listCmd.Flags().StringVar(&listState, "state", "", "item state: unread, archive or all")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only items carrying this tag (_untagged_ for untagged items)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "only items whose title or URL matches")
	listCmd.Flags().StringVar(&listDomain, "domain", "", "only items from this domain")
	listCmd.Flags().BoolVar(&listFavorite, "favorite", false, "only favorited items")
	listCmd.Flags().IntVarP(&listCount, "count", "n", 0, "maximum number of items to return")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print items as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := ensureClient(); err != nil {
		return err
	}

	opts, err := listOptions()
	if err != nil {
		return err
	}

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var items []pocket.Item
	if listAll {
		list, err := client.RetrieveAll(ctx, opts)
		if err != nil {
			return err
		}
		items = list.Items()
	} else {
		result, err := client.Retrieve(ctx, opts)
		if err != nil {
			return err
		}
		items = result.Items()
	}

	// Apply the expression filter client-side
	if expression != "" {
		logger.Info().Str("filter", expression).Msg("Filtering items")

		items, err = filterManager.EvaluateExpression(ctx, expression, items)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	if listJSON {
		encoded, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	fmt.Print(formatItemList(items, cfg.Safety.ShowDetails))
	return nil
}

// listOptions maps the list flags onto retrieve options. Detail is always
// complete so tags reach both the display and the filter environment.
func listOptions() (pocket.RetrieveOptions, error) {
	opts := pocket.RetrieveOptions{
		DetailType: pocket.DetailComplete,
		Search:     listSearch,
		Domain:     listDomain,
		Count:      listCount,
	}

	switch listState {
	case "":
	case "unread":
		opts.State = pocket.StateUnread
	case "archive":
		opts.State = pocket.StateArchive
	case "all":
		opts.State = pocket.StateAll
	default:
		return opts, fmt.Errorf("invalid state %q (must be unread, archive or all)", listState)
	}

	if listTag != "" {
		opts.Tag = pocket.Tags{listTag}
	}
	if listFavorite {
		opts.Favorite = pocket.FavoritedOnly
	}

	return opts, nil
}
