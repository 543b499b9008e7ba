package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/pocket"
)

var (
	addTitle string
	addTags  []string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <url>...",
	Short: "Save URLs to your Pocket library",
	Long: `Save one or more URLs to your Pocket library.

A single URL goes through the add endpoint and prints the resolved item;
several URLs are batched into a single send call.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: initializeApp,
	RunE:    runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "title for the saved item (single URL only)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "tags to apply to the saved items")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := ensureClient(); err != nil {
		return err
	}

	if addTitle != "" && len(args) > 1 {
		return fmt.Errorf("--title only applies when saving a single URL")
	}

	ctx := context.Background()
	tags := pocket.Tags(addTags)

	if len(args) == 1 {
		return addSingle(ctx, args[0], tags)
	}
	return addBatch(ctx, args, tags)
}

func addSingle(ctx context.Context, url string, tags pocket.Tags) error {
	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would save %s\n", url)
		return nil
	}

	result, err := client.Add(ctx, pocket.AddOptions{
		URL:   url,
		Title: addTitle,
		Tags:  tags,
	})
	if err != nil {
		return err
	}

	title := result.Item.Title
	if title == "" {
		title = url
	}
	fmt.Printf("✓ Saved %s (item %s)\n", title, result.Item.ItemID)

	return nil
}

func addBatch(ctx context.Context, urls []string, tags pocket.Tags) error {
	batch := pocket.NewBatch()
	for _, url := range urls {
		batch = batch.Add(pocket.NewItem{URL: url, Tags: tags})
	}

	if cfg.Safety.DryRun {
		encoded, err := formatBatchJSON(batch)
		if err != nil {
			return err
		}
		fmt.Println("[DRY RUN] Would send:")
		fmt.Println(encoded)
		return nil
	}

	result, err := client.Send(ctx, batch)
	if err != nil {
		return err
	}

	var failures int
	for i, url := range urls {
		if result.ActionSucceeded(i) {
			fmt.Printf("✓ Saved %s\n", url)
		} else {
			fmt.Printf("✗ Failed to save %s\n", url)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d saves failed", failures, len(urls))
	}

	return nil
}
