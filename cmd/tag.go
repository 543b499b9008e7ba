package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/pocket"
)

// tagCmd groups the tag manipulation subcommands
var tagCmd = &cobra.Command{
	Use:               "tag",
	Short:             "Manage tags on items",
	PersistentPreRunE: initializeApp,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <tags> <item-id>...",
	Short: "Add tags to items",
	Long:  `Add one or more comma-separated tags to each given item.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, ids, err := tagArgs(args)
		if err != nil {
			return err
		}

		batch := pocket.NewBatch().TagsAdd(tags, ids...)
		return sendTagBatch(batch, fmt.Sprintf("Added tags %s to %s", tags, countItems(len(ids))))
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <tags> <item-id>...",
	Short: "Remove tags from items",
	Long:  `Remove one or more comma-separated tags from each given item.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, ids, err := tagArgs(args)
		if err != nil {
			return err
		}

		batch := pocket.NewBatch().TagsRemove(tags, ids...)
		return sendTagBatch(batch, fmt.Sprintf("Removed tags %s from %s", tags, countItems(len(ids))))
	},
}

var tagReplaceCmd = &cobra.Command{
	Use:   "replace <tags> <item-id>...",
	Short: "Replace all tags on items",
	Long:  `Replace whatever tags each given item carries with the comma-separated list.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, ids, err := tagArgs(args)
		if err != nil {
			return err
		}

		batch := pocket.NewBatch().TagsReplace(tags, ids...)
		return sendTagBatch(batch, fmt.Sprintf("Replaced tags with %s on %s", tags, countItems(len(ids))))
	},
}

var tagClearCmd = &cobra.Command{
	Use:   "clear <item-id>...",
	Short: "Remove all tags from items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureClient(); err != nil {
			return err
		}

		batch := pocket.NewBatch().TagsClear(args...)
		return sendTagBatch(batch, fmt.Sprintf("Cleared tags on %s", countItems(len(args))))
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <item-id> <old> <new>",
	Short: "Rename a tag on an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureClient(); err != nil {
			return err
		}

		batch := pocket.NewBatch().TagRename(args[0], args[1], args[2])
		return sendTagBatch(batch, fmt.Sprintf("Renamed tag '%s' to '%s' on item %s", args[1], args[2], args[0]))
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <item-id> <tag>",
	Short: "Delete a single tag from an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureClient(); err != nil {
			return err
		}

		batch := pocket.NewBatch().TagDelete(args[0], args[1])
		return sendTagBatch(batch, fmt.Sprintf("Removed tag '%s' from item %s", args[1], args[0]))
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCmd.AddCommand(tagReplaceCmd)
	tagCmd.AddCommand(tagClearCmd)
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagDeleteCmd)
}

// tagArgs splits a "<tags> <item-id>..." argument list
func tagArgs(args []string) (pocket.Tags, []string, error) {
	if err := ensureClient(); err != nil {
		return nil, nil, err
	}

	tags := splitTags(args[0])
	if len(tags) == 0 {
		return nil, nil, fmt.Errorf("no tags given")
	}

	return tags, args[1:], nil
}

// splitTags turns a comma-separated argument into a tag list
func splitTags(arg string) pocket.Tags {
	parts := strings.Split(arg, ",")
	tags := make(pocket.Tags, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// countItems renders an item count with the right plural
func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// sendTagBatch sends a batch of tag actions and reports the outcome
func sendTagBatch(batch pocket.Batch, what string) error {
	if cfg.Safety.DryRun {
		encoded, err := formatBatchJSON(batch)
		if err != nil {
			return err
		}
		fmt.Println("[DRY RUN] Would send:")
		fmt.Println(encoded)
		return nil
	}

	ctx := context.Background()

	result, err := client.Send(ctx, batch)
	if err != nil {
		return err
	}

	if !result.AllSucceeded() {
		for i := 0; i < batch.Len(); i++ {
			if !result.ActionSucceeded(i) {
				fmt.Printf("✗ Action %d failed\n", i+1)
			}
		}
		return fmt.Errorf("some tag actions failed")
	}

	fmt.Printf("✓ %s\n", what)
	return nil
}
