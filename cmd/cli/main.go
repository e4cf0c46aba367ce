package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/ticketfiler/pkg/collector"
	"github.com/yurifrl/ticketfiler/pkg/config"
	"github.com/yurifrl/ticketfiler/pkg/drive"
	"github.com/yurifrl/ticketfiler/pkg/gmail"
	"github.com/yurifrl/ticketfiler/pkg/googleauth"
	"github.com/yurifrl/ticketfiler/pkg/models"
)

var (
	cfgFile    string
	reportPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ticketfiler",
	Short: "Files PDF e-ticket receipts from Gmail into a dated Drive folder tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Incremental sweep: file receipts from unprocessed threads and label them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, logger, c, err := buildCollector(ctx, cmd)
		if err != nil {
			return err
		}
		summary, err := c.Collect(ctx)
		finishRun(cfg, logger, summary)
		return err
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Repair sweep: re-file receipts for one target month, ignoring the processed label",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, logger, c, err := buildCollector(ctx, cmd)
		if err != nil {
			return err
		}
		summary, err := c.Backfill(ctx)
		finishRun(cfg, logger, summary)
		return err
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset-labels",
	Short: "Strip the processed label from every thread so collection can rerun from scratch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, logger, c, err := buildCollector(ctx, cmd)
		if err != nil {
			return err
		}
		n, err := c.ResetLabels(ctx)
		logger.Info("reset processed labels", "threads", n)
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a collect sweep now and then on the configured interval",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, c, err := buildCollector(ctx, cmd)
		if err != nil {
			return err
		}

		run := func() {
			summary, err := c.Collect(ctx)
			if err != nil {
				logger.Error("collect sweep failed", "error", err)
			}
			finishRun(cfg, logger, summary)
		}

		logger.Info("watching", "interval", cfg.WatchInterval)
		run()

		ticker := time.NewTicker(cfg.WatchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("watch stopped")
				return nil
			case <-ticker.C:
				run()
			}
		}
	},
}

func buildCollector(ctx context.Context, cmd *cobra.Command) (*config.Config, *log.Logger, *collector.Collector, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ticketfiler",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	scopes := append(append([]string{}, gmail.Scopes...), drive.Scopes...)
	httpClient, err := googleauth.Client(ctx, cfg.CredentialsFile, cfg.TokenFile, scopes...)
	if err != nil {
		return nil, nil, nil, err
	}

	mail, err := gmail.New(ctx, httpClient, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := drive.New(ctx, httpClient, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, collector.New(cfg, logger, mail, store), nil
}

// finishRun renders the summary, optionally dumps the raw report, and writes
// the YAML report file when requested.
func finishRun(cfg *config.Config, logger *log.Logger, summary *models.RunSummary) {
	if summary == nil {
		return
	}
	fmt.Print(collector.RenderSummary(summary))
	if cfg.LogBodies {
		pp.Println(summary)
	}
	if reportPath != "" {
		if err := summary.WriteYAML(reportPath); err != nil {
			logger.Warn("failed to write report", "path", reportPath, "error", err)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "", "Write the run summary as YAML to this path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.PersistentFlags().String("sender-address", "", "Sender address to sweep")
	rootCmd.PersistentFlags().String("root-folder-name", "", "Root folder for filed receipts")
	rootCmd.PersistentFlags().String("processed-label", "", "Label marking processed threads")

	backfillCmd.Flags().String("backfill-target", "", "PREVIOUS_MONTH or CURRENT_MONTH")
	backfillCmd.Flags().Int("backfill-lookback-days", 0, "Days of mail history to re-scan")
	backfillCmd.Flags().String("backfill-attachment-mode", "", "RECEIPTS_ONLY or ALL_PDFS")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
