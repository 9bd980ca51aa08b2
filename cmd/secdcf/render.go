package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/secdcf/internal/bundle"
	"github.com/seenimoa/secdcf/internal/report"
	"github.com/seenimoa/secdcf/internal/tickerlist"
	"github.com/seenimoa/secdcf/pkg/models"
)

const priceSource = "Stooq prior close"

// --- Render Command ---

var renderCmd = &cobra.Command{
	Use:   "render <ticker-or-json>",
	Short: "Render one valuation page from a saved bundle",
	Example: `  secdcf render AAPL --price auto
  secdcf render tickers/MSFT/MSFT.json --out /tmp/msft.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		lookup, err := priceLookup(priceMode(cmd))
		if err != nil {
			return err
		}

		target := cfg.Defaults.Ticker
		if len(args) > 0 {
			target = args[0]
		}

		store := bundle.NewStore(cfg.Paths.OutRoot)
		var (
			b        *models.EntityBundle
			pagePath string
		)
		if strings.HasSuffix(strings.ToLower(target), ".json") {
			b, err = store.Load(target)
			if err == nil {
				pagePath = filepath.Join(filepath.Dir(target), b.Ticker+".html")
			}
		} else {
			b, _, err = store.LoadTicker(target)
			if err == nil {
				pagePath = store.PagePath(b.Ticker)
			}
		}
		if bundle.IsNotExist(err) {
			return fmt.Errorf("no bundle for %s; run `secdcf fetch` first: %w", target, err)
		}
		if err != nil {
			return err
		}
		if outPath != "" {
			pagePath = outPath
		}

		if err := renderPage(cmd.Context(), b, pagePath, lookup, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", pagePath)
		return nil
	},
}

// --- Render-All Command ---

var renderAllCmd = &cobra.Command{
	Use:   "render-all",
	Short: "Fetch every listed ticker, render all pages and the dashboard",
	Long: `Render-all refreshes bundles for the ticker list (unless --no-fetch), renders
<out-root>/<T>/<T>.html for every listed ticker that has a bundle on disk and
writes <out-root>/index.html from the entity index.

The list comes from --list, else the tickers in the current index, else
paths.ticker_list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listPath, _ := cmd.Flags().GetString("list")
		noFetch, _ := cmd.Flags().GetBool("no-fetch")
		lookup, err := priceLookup(priceMode(cmd))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		builder, _ := newPipeline(cfg.Paths.OutRoot)
		store := builder.Store()

		tickers, err := batchTickers(store, listPath)
		if err != nil {
			return err
		}

		var rows []models.IndexRow
		if noFetch {
			rows, err = store.LoadIndex()
			if bundle.IsNotExist(err) {
				rows, err = store.SynthesizeIndex(tickers)
			}
			if err != nil {
				return fmt.Errorf("load index: %w", err)
			}
		} else {
			res, err := builder.Batch(ctx, tickers, printProgress)
			if err != nil {
				return err
			}
			rows = res.Index
		}

		now := time.Now()
		rendered := 0
		for _, t := range tickers {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, _, err := store.LoadTicker(t)
			if err != nil {
				if bundle.IsNotExist(err) {
					err = errors.New("no bundle")
				}
				fmt.Printf("FAIL %s: %v\n", t, err)
				continue
			}
			path := store.PagePath(b.Ticker)
			if err := renderPage(ctx, b, path, lookup, now); err != nil {
				fmt.Printf("FAIL %s: %v\n", t, err)
				continue
			}
			rendered++
			fmt.Printf("OK %s: %s\n", b.Ticker, path)
		}

		dashboard := store.DashboardPath()
		if err := report.WriteDashboard(dashboard, rows, now, pageOptions().Site); err != nil {
			return fmt.Errorf("write dashboard: %w", err)
		}
		fmt.Printf("Wrote dashboard: %s (%d pages)\n", dashboard, rendered)

		if rendered == 0 && len(tickers) > 0 {
			return errors.New("no pages rendered")
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, renderAllCmd} {
		c.Flags().String("price", "", "prior close lookup: auto or none (default: price.mode)")
	}
	renderCmd.Flags().String("out", "", "page output path (default: <out-root>/<T>/<T>.html)")
	renderAllCmd.Flags().String("list", "", "JSON ticker list")
	renderAllCmd.Flags().Bool("no-fetch", false, "render existing bundles without contacting SEC")
}

// priceMode applies the --price flag over configuration.
func priceMode(cmd *cobra.Command) string {
	if mode, _ := cmd.Flags().GetString("price"); mode != "" {
		return mode
	}
	return cfg.Price.Mode
}

// batchTickers picks the render-all list: --list, the index, then the configured list.
func batchTickers(store *bundle.Store, listPath string) ([]string, error) {
	if listPath != "" {
		return tickerlist.Load(listPath)
	}
	rows, err := store.LoadIndex()
	if err == nil && len(rows) > 0 {
		tickers := make([]string, len(rows))
		for i, r := range rows {
			tickers[i] = r.Ticker
		}
		return tickerlist.Normalize(tickers), nil
	}
	if err != nil && !bundle.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", store.IndexPath()).Msg("Unreadable index; using configured ticker list")
	}
	list, err := tickerlist.Load(cfg.Paths.TickerList)
	if err != nil {
		return nil, fmt.Errorf("load ticker list %s: %w", cfg.Paths.TickerList, err)
	}
	return list, nil
}

// renderPage writes one valuation page, looking up the prior close when enabled.
func renderPage(ctx context.Context, b *models.EntityBundle, path string, lookup func(context.Context, string) *float64, now time.Time) error {
	opts := pageOptions()
	opts.GeneratedAt = now
	if lookup != nil {
		if p := lookup(ctx, b.Ticker); p != nil {
			opts.Price = p
			opts.PriceSource = priceSource
		}
	}
	return report.WriteValuation(path, b, opts)
}
