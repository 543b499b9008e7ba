package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepo = "gmile/pocketeer"

var checkOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update pocketeer to the latest release",
	Long: `Check GitHub for a newer pocketeer release and replace the running
binary with it. Needs no configuration, so it works even before auth.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "check for a newer release without installing it")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Source builds carry "dev" and cannot be compared against releases
	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("cannot update a non-release build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("✓ Already up to date (version %s)\n", version)
		return nil
	}

	fmt.Printf("New version available: %s (current: %s)\n", latest.Version(), version)

	if checkOnly {
		fmt.Println("Run 'pocketeer update' to install it.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Printf("Downloading %s...\n", latest.AssetName)
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to version %s\n", latest.Version())
	return nil
}
