package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/seenimoa/secdcf/internal/bundle"
	"github.com/seenimoa/secdcf/internal/edgar"
	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/internal/price"
	"github.com/seenimoa/secdcf/internal/report"
	"github.com/seenimoa/secdcf/internal/valuation"
)

const registryFile = "company_tickers.json"

// newPipeline wires the EDGAR client, ticker registry and bundle builder.
func newPipeline(outRoot string) (*bundle.Builder, *edgar.Registry) {
	client := edgar.NewClient(
		edgar.WithDataURL(cfg.EDGAR.DataURL),
		edgar.WithTickersURL(cfg.EDGAR.TickersURL),
		edgar.WithFeedURL(cfg.EDGAR.FeedURL),
		edgar.WithUserAgent(cfg.EDGAR.UserAgent),
		edgar.WithRequestDelay(cfg.EDGAR.RequestDelay),
		edgar.WithHTTPClient(infra.NewHTTPClient(cfg.EDGAR.Timeout)),
		edgar.WithLogger(logger),
	)
	registry := edgar.NewRegistry(client, filepath.Join(cfg.Paths.CacheDir, registryFile), logger)
	builder := bundle.NewBuilder(client, registry, bundle.NewStore(outRoot),
		bundle.WithFilingSource(cfg.EDGAR.FilingSource),
		bundle.WithLogger(logger),
	)
	return builder, registry
}

// pageOptions maps configuration onto page rendering options.
func pageOptions() report.PageOptions {
	opts := report.DefaultPageOptions()
	opts.Site = report.Site{
		StylesheetURL: cfg.Render.StylesheetURL,
		ChartJSURL:    cfg.Render.ChartJSURL,
		Name:          cfg.Render.SiteName,
		URL:           cfg.Render.SiteURL,
	}
	opts.Years = cfg.Valuation.Years
	opts.GrowthPct = cfg.Valuation.GrowthPct
	opts.TerminalGrowthPct = cfg.Valuation.TerminalGrowthPct
	opts.DiscountPct = cfg.Valuation.DiscountPct
	opts.Grid = valuation.SweepGrid{
		MinPct:  cfg.Valuation.SweepMinPct,
		MaxPct:  cfg.Valuation.SweepMaxPct,
		StepPct: cfg.Valuation.SweepStepPct,
	}
	return opts
}

// priceLookup returns a lookup func for mode "auto", or nil for "none".
func priceLookup(mode string) (func(ctx context.Context, ticker string) *float64, error) {
	switch mode {
	case "none":
		return nil, nil
	case "auto":
	default:
		return nil, fmt.Errorf("--price must be auto or none, got %q", mode)
	}

	client := price.NewClient(
		price.WithBaseURL(cfg.Price.BaseURL),
		price.WithCountrySuffix(cfg.Price.CountrySuffix),
		price.WithHTTPClient(infra.NewHTTPClient(cfg.Price.Timeout)),
		price.WithLogger(logger),
	)
	return func(ctx context.Context, ticker string) *float64 {
		p, ok := client.PriorClose(ctx, ticker)
		if !ok {
			logger.Warn().Str("ticker", ticker).Msg("Prior close unavailable; leaving price blank")
			return nil
		}
		return &p
	}, nil
}

// resolveOutRoot applies the --out-root flag over configuration.
func resolveOutRoot(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Paths.OutRoot
}
