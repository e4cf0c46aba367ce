// Package config builds the immutable run configuration from defaults, an
// optional YAML config file, TICKETFILER_* environment variables, and CLI
// flags, in that precedence order. The resulting Config is constructed once
// at process start and never mutated during a run.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backfill target months.
const (
	TargetPreviousMonth = "PREVIOUS_MONTH"
	TargetCurrentMonth  = "CURRENT_MONTH"
)

// Backfill attachment modes.
const (
	AttachmentsReceiptsOnly = "RECEIPTS_ONLY"
	AttachmentsAllPDFs      = "ALL_PDFS"
)

// Config holds every knob the sweeps recognize.
type Config struct {
	SenderAddress  string `mapstructure:"sender_address"`
	RootFolderName string `mapstructure:"root_folder_name"`
	ProcessedLabel string `mapstructure:"processed_label"`

	// Both keywords must appear in a message's lowercased subject+body for
	// it to be eligible. Either one blank disables the pair filter.
	RouteKeywordA string `mapstructure:"route_keyword_a"`
	RouteKeywordB string `mapstructure:"route_keyword_b"`

	// Required substring of a PDF attachment's lowercased filename. Blank
	// accepts all PDFs.
	AttachmentKeyword string `mapstructure:"attachment_keyword"`

	BackfillTarget         string `mapstructure:"backfill_target"`
	BackfillLookbackDays   int    `mapstructure:"backfill_lookback_days"`
	BackfillAttachmentMode string `mapstructure:"backfill_attachment_mode"`

	PageSize  int64 `mapstructure:"page_size"`
	LogBodies bool  `mapstructure:"log_bodies"`

	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`

	WatchInterval time.Duration `mapstructure:"watch_interval"`
}

// Build assembles the configuration. flags may be nil when no CLI overrides
// apply.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("sender_address", "")
	v.SetDefault("root_folder_name", "Train Tickets")
	v.SetDefault("processed_label", "receipts-filed")
	v.SetDefault("route_keyword_a", "")
	v.SetDefault("route_keyword_b", "")
	v.SetDefault("attachment_keyword", "")
	v.SetDefault("backfill_target", TargetPreviousMonth)
	v.SetDefault("backfill_lookback_days", 40)
	v.SetDefault("backfill_attachment_mode", AttachmentsReceiptsOnly)
	v.SetDefault("page_size", 50)
	v.SetDefault("log_bodies", false)
	v.SetDefault("credentials_file", "credentials.json")
	v.SetDefault("token_file", "token.json")
	v.SetDefault("watch_interval", 24*time.Hour)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TICKETFILER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Flags use hyphenated names; bind them to their underscore config keys.
	// viper only lets a bound flag win when it was actually changed, so
	// untouched flags never shadow file or env values.
	if flags != nil {
		for key, flagName := range map[string]string{
			"sender_address":           "sender-address",
			"root_folder_name":         "root-folder-name",
			"processed_label":          "processed-label",
			"backfill_target":          "backfill-target",
			"backfill_lookback_days":   "backfill-lookback-days",
			"backfill_attachment_mode": "backfill-attachment-mode",
		} {
			f := flags.Lookup(flagName)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SenderAddress == "" {
		return fmt.Errorf("sender_address is required")
	}
	if c.RootFolderName == "" {
		return fmt.Errorf("root_folder_name is required")
	}
	if c.ProcessedLabel == "" {
		return fmt.Errorf("processed_label is required")
	}
	switch c.BackfillTarget {
	case TargetPreviousMonth, TargetCurrentMonth:
	default:
		return fmt.Errorf("backfill_target must be %s or %s, got %q", TargetPreviousMonth, TargetCurrentMonth, c.BackfillTarget)
	}
	switch c.BackfillAttachmentMode {
	case AttachmentsReceiptsOnly, AttachmentsAllPDFs:
	default:
		return fmt.Errorf("backfill_attachment_mode must be %s or %s, got %q", AttachmentsReceiptsOnly, AttachmentsAllPDFs, c.BackfillAttachmentMode)
	}
	if c.BackfillLookbackDays <= 0 {
		return fmt.Errorf("backfill_lookback_days must be positive, got %d", c.BackfillLookbackDays)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

// RouteFilterEnabled reports whether the keyword pair filter applies.
func (c *Config) RouteFilterEnabled() bool {
	return c.RouteKeywordA != "" && c.RouteKeywordB != ""
}
