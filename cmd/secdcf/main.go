// secdcf: SEC EDGAR fundamentals to DCF valuation pages.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/secdcf/internal/config"
	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set by the root PersistentPreRunE.
var (
	cfg    *config.Config
	logger arbor.ILogger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "secdcf",
	Short: "secdcf — SEC EDGAR fundamentals to DCF valuation pages",
	Long: `secdcf pulls company filings and XBRL facts from SEC EDGAR, derives
free cash flow, net debt and share count into per-ticker bundles, and renders
a self-contained discounted cash flow calculator page for each ticker plus a
dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger = infra.NewLogger(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(renderAllCmd)
	rootCmd.AddCommand(tickersCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("secdcf %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  secdcf — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time:          %s\n", utils.FormatTimestamp(time.Now()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    EDGAR data:    %s\n", cfg.EDGAR.DataURL)
		fmt.Printf("    Registry:      %s\n", cfg.EDGAR.TickersURL)
		fmt.Printf("    Cache dir:     %s\n", cfg.Paths.CacheDir)
		fmt.Printf("    Ticker list:   %s\n", cfg.Paths.TickerList)
		fmt.Printf("    Scenario:      N=%d g=%.2f%% gt=%.2f%% r=%.2f%%\n",
			cfg.Valuation.Years, cfg.Valuation.GrowthPct, cfg.Valuation.TerminalGrowthPct, cfg.Valuation.DiscountPct)
		fmt.Printf("    Sweep:         %.2f%%..%.2f%% step %.2f%%\n",
			cfg.Valuation.SweepMinPct, cfg.Valuation.SweepMaxPct, cfg.Valuation.SweepStepPct)
		fmt.Println()

		fmt.Println("  Settings:")
		for _, s := range config.CheckSettings(cfg) {
			fmt.Printf("    %-18s %s (%s)\n", s.Name+":", s.Value, s.Source)
			if s.Warn != "" {
				fmt.Printf("    %-18s ⚠ %s\n", "", s.Warn)
			}
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
