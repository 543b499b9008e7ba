package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/pocket"
)

var redirectURI string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain a Pocket access token",
	Long: `Walk through Pocket's OAuth flow to obtain an access token.

The flow requests a token for the configured consumer key, prints the
authorization URL for you to open in a browser, and exchanges the
approved request token for an access token once you confirm.`,
	PreRunE: initializeApp,
	RunE:    runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().StringVar(&redirectURI, "redirect-uri", "https://getpocket.com", "where Pocket sends the browser after approval")
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts := []pocket.Option{pocket.WithLogger(logger)}
	if cfg.Pocket.BaseURL != "" {
		opts = append(opts, pocket.WithBaseURL(cfg.Pocket.BaseURL))
	}

	requestToken, err := pocket.RequestToken(ctx, cfg.Pocket.ConsumerKey, redirectURI, opts...)
	if err != nil {
		return fmt.Errorf("failed to obtain request token: %w", err)
	}

	fmt.Println("Open this URL in your browser and authorize the application:")
	fmt.Printf("\n  %s\n\n", pocket.AuthorizeURL(requestToken, redirectURI, opts...))
	fmt.Printf("Press Enter once you have approved access: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	auth, err := pocket.AccessToken(ctx, cfg.Pocket.ConsumerKey, requestToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to exchange request token: %w", err)
	}

	fmt.Printf("\n✓ Authorized as %s\n\n", auth.Username)
	fmt.Printf("Access token: %s\n\n", auth.AccessToken)
	fmt.Println("Store it as pocket.access_token in your config file, or export")
	fmt.Println("POCKETEER_POCKET_ACCESS_TOKEN in your environment.")

	return nil
}
