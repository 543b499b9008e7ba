package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gmile/pocketeer/config"
	"github.com/gmile/pocketeer/filter"
	"github.com/gmile/pocketeer/pocket"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	client        *pocket.Client
	filterManager *filter.Manager

	version   = "dev"
	buildTime = "unknown"

	// Command flags shared across subcommands
	filterExpr string
	preset     string
	dryRun     bool
	noConfirm  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pocketeer",
	Short: "A tool to manage your Pocket reading list from the command line",
	Long: `pocketeer is a CLI for the Pocket API that lets you list, save, tag,
archive and delete items in your reading list, with expression-based
filters for selecting items in bulk.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build version for --version and the update command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would be sent without making changes")
}

// initializeApp initializes the configuration, logger and filter presets
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	// Register filter presets up front so broken expressions surface
	// before any API call
	filterManager = filter.NewManager()
	if len(cfg.Filter.Presets) > 0 {
		if err := filterManager.RegisterFilters(cfg.Filter.Presets); err != nil {
			return fmt.Errorf("invalid filter preset: %w", err)
		}
	}

	return nil
}

// ensureClient creates the Pocket API client. Commands that talk to the
// API call this on entry; auth does not, since it runs before an access
// token exists.
func ensureClient() error {
	if cfg.Pocket.AccessToken == "" {
		return fmt.Errorf("no access token configured, run 'pocketeer auth' first")
	}

	opts := []pocket.Option{pocket.WithLogger(logger)}
	if cfg.Pocket.BaseURL != "" {
		opts = append(opts, pocket.WithBaseURL(cfg.Pocket.BaseURL))
	}
	if cfg.Pocket.Timeout > 0 {
		opts = append(opts, pocket.WithTimeout(cfg.Pocket.Timeout))
	}

	var err error
	client, err = pocket.NewClient(cfg.Pocket.ConsumerKey, cfg.Pocket.AccessToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Pocket client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only when configured and stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// explicitFilterExpression resolves the --filter and --preset flags,
// returning "" when neither was given. Target selection for mutation
// commands uses this directly: only an expression the user asked for on
// this invocation may pick items to modify.
func explicitFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}

// getFilterExpression determines the filter expression for list display.
// Priority: command line filter > preset > config default.
func getFilterExpression() (string, error) {
	expression, err := explicitFilterExpression()
	if expression != "" || err != nil {
		return expression, err
	}
	return cfg.Filter.Default, nil
}
