package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Pocket  PocketConfig  `mapstructure:"pocket"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PocketConfig holds Pocket API credentials and connection details.
// AccessToken may be empty until the auth command has been run.
type PocketConfig struct {
	ConsumerKey string        `mapstructure:"consumer_key" validate:"required"`
	AccessToken string        `mapstructure:"access_token"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// FilterConfig contains the default filter expression and named presets
type FilterConfig struct {
	Default string            `mapstructure:"default"`
	Presets map[string]string `mapstructure:"presets"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun        bool `mapstructure:"dry_run"`
	ConfirmDelete bool `mapstructure:"confirm_delete"`
	ShowDetails   bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
