package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify rosterlint configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/rosterlint/config.yaml
Project-specific overrides can be placed in .rosterlint.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		default:
			return setConfigKey(cfg, args[0], args[1])
		}
	},
}

var configKeys = []string{
	"anthropic.api_key",
	"anthropic.model",
	"anthropic.use_bedrock",
	"anthropic.aws_region",
	"anthropic.aws_profile",
	"output.format",
	"output.color",
	"history.enabled",
	"history.path",
	"history.driver",
	"history.retention",
	"watch.debounce",
	"watch.metrics_addr",
	"log.path",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Printf("%s: %s\n", key, value)
	}
	fmt.Printf("\napi key source: %s\n", config.GetAPIKeySource(cfg))
	fmt.Printf("user config:    %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Printf("project config: %s\n", p)
	}
}

// setConfigKey sets a configuration value and saves the user config.
func setConfigKey(cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	shown := value
	if strings.EqualFold(key, "anthropic.api_key") {
		shown = config.MaskAPIKey(value)
	}
	fmt.Printf("Set %s = %s\n", key, shown)
	return nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "output.format":
		return cfg.Output.Format, nil
	case "output.color":
		return strconv.FormatBool(cfg.Output.Color), nil
	case "history.enabled":
		return strconv.FormatBool(cfg.History.Enabled), nil
	case "history.path":
		return cfg.History.Path, nil
	case "history.driver":
		return cfg.History.Driver, nil
	case "history.retention":
		return cfg.History.Retention.String(), nil
	case "watch.debounce":
		return cfg.Watch.Debounce.String(), nil
	case "watch.metrics_addr":
		return cfg.Watch.MetricsAddr, nil
	case "log.path":
		return cfg.Log.Path, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	k := strings.ToLower(key)
	switch k {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "output.format":
		cfg.Output.Format = value
	case "history.path":
		cfg.History.Path = value
	case "history.driver":
		cfg.History.Driver = value
	case "watch.metrics_addr":
		cfg.Watch.MetricsAddr = value
	case "log.path":
		cfg.Log.Path = value

	case "anthropic.use_bedrock", "output.color", "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", k, err)
		}
		switch k {
		case "anthropic.use_bedrock":
			cfg.Anthropic.UseBedrock = b
		case "output.color":
			cfg.Output.Color = b
		default:
			cfg.History.Enabled = b
		}

	case "history.retention", "watch.debounce":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", k, err)
		}
		if k == "history.retention" {
			cfg.History.Retention = d
		} else {
			cfg.Watch.Debounce = d
		}

	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
