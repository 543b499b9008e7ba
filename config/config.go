package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pocketeer"))
		}

		// Check /etc
		v.AddConfigPath("/etc/pocketeer/")
	}

	// POCKETEER_POCKET_CONSUMER_KEY style environment overrides
	v.SetEnvPrefix("POCKETEER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// No config file in the search path. Environment variables and
		// defaults may still provide everything needed.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Pocket defaults. Credentials default to empty so the keys exist
	// for AutomaticEnv even without a config file.
	v.SetDefault("pocket.consumer_key", "")
	v.SetDefault("pocket.access_token", "")
	v.SetDefault("pocket.base_url", "")
	v.SetDefault("pocket.timeout", "30s")

	// Safety defaults
	v.SetDefault("safety.dry_run", false)
	v.SetDefault("safety.confirm_delete", true)
	v.SetDefault("safety.show_details", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks the configuration against the struct tags
func validate(cfg *Config) error {
	v := validator.New()

	// Report config file keys instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, len(validationErrors))
		for i, fieldErr := range validationErrors {
			messages[i] = describeFieldError(fieldErr)
		}
		return errors.New(strings.Join(messages, "; "))
	}

	return err
}

// describeFieldError renders one validation failure as a config key message
func describeFieldError(fieldErr validator.FieldError) string {
	key := strings.TrimPrefix(fieldErr.Namespace(), "Config.")

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", key, fieldErr.Tag())
	}
}
