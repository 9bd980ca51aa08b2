package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/secdcf/internal/tickerlist"
)

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker]",
	Short: "Build entity bundles from SEC EDGAR",
	Long: `Fetch resolves a ticker to its CIK, downloads submissions and company facts,
derives FCF, net debt and shares, and writes <out-root>/<T>/<T>.json.

With --list, every ticker in the JSON list is fetched in order, failures are
reported and skipped, and <out-root>/tickers.json is rewritten.`,
	Example: `  secdcf fetch AAPL
  secdcf fetch --list db/top_tickers.json --out-root site/tickers`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listPath, _ := cmd.Flags().GetString("list")
		outRoot, _ := cmd.Flags().GetString("out-root")
		refresh, _ := cmd.Flags().GetBool("refresh-registry")

		builder, registry := newPipeline(resolveOutRoot(outRoot))
		ctx := cmd.Context()

		if refresh {
			if err := registry.Refresh(ctx); err != nil {
				return fmt.Errorf("refresh registry: %w", err)
			}
		}

		if listPath != "" {
			if len(args) > 0 {
				return fmt.Errorf("give either a ticker or --list, not both")
			}
			tickers, err := tickerlist.Load(listPath)
			if err != nil {
				return fmt.Errorf("load ticker list: %w", err)
			}
			res, err := builder.Batch(ctx, tickers, printProgress)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote index: %s (%d ok, %d failed)\n", res.IndexPath, len(res.Index), len(res.Failures))
			return nil
		}

		ticker := cfg.Defaults.Ticker
		if len(args) > 0 {
			ticker = args[0]
		}
		_, path, err := builder.BuildAndSave(ctx, ticker)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("list", "", "JSON ticker list for a batch run")
	fetchCmd.Flags().String("out-root", "", "output root (default: paths.out_root)")
	fetchCmd.Flags().Bool("refresh-registry", false, "re-download the ticker→CIK registry first")
}

// printProgress reports one batch item on stdout.
func printProgress(ticker, path string, err error) {
	if err != nil {
		fmt.Printf("FAIL %s: %v\n", ticker, err)
		return
	}
	fmt.Printf("OK %s: %s\n", ticker, path)
}
