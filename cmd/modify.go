package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/pocket"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:     "archive [item-id...]",
	Short:   "Move items to the archive",
	Long:    `Move items out of the unread list and into the archive.`,
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModify(pocket.ActionArchive, args)
	},
}

// readdCmd represents the readd command
var readdCmd = &cobra.Command{
	Use:     "readd [item-id...]",
	Short:   "Move items back to the unread list",
	Long:    `Move archived items back into the unread list.`,
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModify(pocket.ActionReadd, args)
	},
}

// favoriteCmd represents the favorite command
var favoriteCmd = &cobra.Command{
	Use:     "favorite [item-id...]",
	Short:   "Mark items as favorites",
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModify(pocket.ActionFavorite, args)
	},
}

// unfavoriteCmd represents the unfavorite command
var unfavoriteCmd = &cobra.Command{
	Use:     "unfavorite [item-id...]",
	Short:   "Remove the favorite mark from items",
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModify(pocket.ActionUnfavorite, args)
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [item-id...]",
	Short: "Permanently delete items",
	Long: `Permanently delete items from your Pocket library.

Deletion cannot be undone. A confirmation prompt appears unless
--no-confirm is given or safety.confirm_delete is disabled in config.`,
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModify(pocket.ActionDelete, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{archiveCmd, readdCmd, favoriteCmd, unfavoriteCmd, deleteCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression to select items")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	}

	deleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

var modifyVerbs = map[pocket.ActionKind]string{
	pocket.ActionArchive:    "Archived",
	pocket.ActionReadd:      "Restored",
	pocket.ActionFavorite:   "Favorited",
	pocket.ActionUnfavorite: "Unfavorited",
	pocket.ActionDelete:     "Deleted",
}

// runModify applies one action kind to every targeted item in a single
// batched send
func runModify(kind pocket.ActionKind, args []string) error {
	if err := ensureClient(); err != nil {
		return err
	}

	ctx := context.Background()

	ids, matched, err := resolveTargets(ctx, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No items matched.")
		return nil
	}

	// Show what the filter selected before touching anything
	if len(matched) > 0 {
		fmt.Print(formatItemList(matched, cfg.Safety.ShowDetails))
	}

	batch := modifyBatch(kind, ids)

	if cfg.Safety.DryRun {
		encoded, err := formatBatchJSON(batch)
		if err != nil {
			return err
		}
		fmt.Println("[DRY RUN] Would send:")
		fmt.Println(encoded)
		return nil
	}

	if kind == pocket.ActionDelete && cfg.Safety.ConfirmDelete && !noConfirm {
		itemText := "item"
		if len(ids) != 1 {
			itemText = "items"
		}
		fmt.Printf("→ Permanently delete %d %s? [y/N]: ", len(ids), itemText)

		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	result, err := client.Send(ctx, batch)
	if err != nil {
		return err
	}

	var failures int
	for i, id := range ids {
		if !result.ActionSucceeded(i) {
			fmt.Printf("✗ Failed for item %s\n", id)
			failures++
		}
	}

	succeeded := len(ids) - failures
	itemText := "item"
	if succeeded != 1 {
		itemText = "items"
	}
	fmt.Printf("✓ %s %d %s\n", modifyVerbs[kind], succeeded, itemText)

	if failures > 0 {
		return fmt.Errorf("%d of %d actions failed", failures, len(ids))
	}

	return nil
}

// modifyBatch builds a batch applying one action kind to each id
func modifyBatch(kind pocket.ActionKind, ids []string) pocket.Batch {
	batch := pocket.NewBatch()

	switch kind {
	case pocket.ActionArchive:
		return batch.Archive(ids...)
	case pocket.ActionReadd:
		return batch.Readd(ids...)
	case pocket.ActionFavorite:
		return batch.Favorite(ids...)
	case pocket.ActionUnfavorite:
		return batch.Unfavorite(ids...)
	case pocket.ActionDelete:
		return batch.Delete(ids...)
	}

	return batch
}
