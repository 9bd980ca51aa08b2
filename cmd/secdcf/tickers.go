package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seenimoa/secdcf/internal/tickerlist"
)

const defaultListFile = "default_tickers.json"

// --- Tickers Command ---

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Produce the normalised ticker list for batch runs",
	Long: `Tickers builds the batch list from, in order of preference: an explicit JSON
list (--list), the top-N most active accounts of a ledger CSV (--csv, -n), or a
default JSON list (--default). The result is printed and written to --json-out.`,
	Example: `  secdcf tickers --csv ledger.csv -n 15
  secdcf tickers --list my_tickers.json --json-out db/top_tickers.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src := tickerlist.Source{}
		src.List, _ = cmd.Flags().GetString("list")
		src.CSV, _ = cmd.Flags().GetString("csv")
		src.N, _ = cmd.Flags().GetInt("top")
		src.Default, _ = cmd.Flags().GetString("default")
		if src.Default == "" {
			src.Default = filepath.Join(cfg.Paths.CacheDir, defaultListFile)
		}
		out, _ := cmd.Flags().GetString("json-out")
		if out == "" {
			out = cfg.Paths.TickerList
		}

		list, err := tickerlist.Resolve(src)
		if err != nil {
			return err
		}
		for _, t := range list {
			fmt.Println(t)
		}

		if err := tickerlist.Save(out, list); err != nil {
			return fmt.Errorf("write ticker list: %w", err)
		}
		abs, err := filepath.Abs(out)
		if err != nil {
			abs = out
		}
		fmt.Printf("Wrote JSON list: %s\n", abs)
		return nil
	},
}

func init() {
	tickersCmd.Flags().String("csv", "", "ledger CSV with account and amount columns")
	tickersCmd.Flags().IntP("top", "n", tickerlist.DefaultTopN, "number of accounts to take from the ledger")
	tickersCmd.Flags().String("list", "", "explicit JSON ticker list")
	tickersCmd.Flags().String("default", "", "fallback JSON list (default: <cache_dir>/default_tickers.json)")
	tickersCmd.Flags().String("json-out", "", "output path (default: paths.ticker_list)")
}
