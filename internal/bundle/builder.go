// Package bundle turns EDGAR data into persisted per-entity bundles and the
// aggregate entity index.
package bundle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/secdcf/internal/edgar"
	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/models"
)

// Filing history sources.
const (
	SourceSubmissions = "submissions"
	SourceFeed        = "feed"
)

// Builder fetches EDGAR data and assembles bundles.
type Builder struct {
	client   *edgar.Client
	registry *edgar.Registry
	store    *Store
	source   string
	logger   arbor.ILogger
}

// Option configures the Builder.
type Option func(*Builder)

// WithFilingSource selects where latest filings come from.
func WithFilingSource(source string) Option {
	return func(b *Builder) {
		if source != "" {
			b.source = source
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder.
func NewBuilder(client *edgar.Client, registry *edgar.Registry, store *Store, opts ...Option) *Builder {
	b := &Builder{
		client:   client,
		registry: registry,
		store:    store,
		source:   SourceSubmissions,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = infra.OrNoOp(b.logger)
	return b
}

// Store returns the builder's store.
func (b *Builder) Store() *Store { return b.store }

// Build resolves ticker and assembles a fresh bundle from upstream data.
// Nothing is written.
func (b *Builder) Build(ctx context.Context, ticker string) (*models.EntityBundle, error) {
	t := edgar.NormalizeTicker(ticker)
	company, err := b.registry.Lookup(ctx, t)
	if err != nil {
		return nil, err
	}
	cik := company.CIK

	subs, err := b.client.FetchSubmissions(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("%s submissions: %w", t, err)
	}
	facts, err := b.client.FetchFacts(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("%s companyfacts: %w", t, err)
	}

	filings, err := b.filings(ctx, t, cik, subs)
	if err != nil {
		return nil, fmt.Errorf("%s filing feed: %w", t, err)
	}

	derived, picked := edgar.Derive(facts.FactSet())
	for _, spec := range edgar.DerivedInputs {
		if sel, ok := picked[spec.Name]; ok {
			b.logger.Debug().
				Str("ticker", t).
				Str("input", spec.Name).
				Str("tag", sel.Tag).
				Str("unit", sel.Unit).
				Int("fy", sel.FY).
				Str("value", strconv.FormatFloat(sel.Value, 'f', -1, 64)).
				Msg("Selected fact")
		}
	}
	if missing := derived.MissingFields(); len(missing) > 0 {
		b.logger.Warn().Str("ticker", t).Strs("missing", missing).Msg("Derived inputs unresolved")
	}

	return &models.EntityBundle{
		Ticker:      t,
		CIK:         cik,
		CompanyName: firstNonEmpty(subs.Name, facts.EntityName, company.Title),
		Latest:      edgar.LatestFilings(filings),
		Derived:     derived,
		Sources: models.Sources{
			Submissions:  b.client.SubmissionsURL(cik),
			CompanyFacts: b.client.CompanyFactsURL(cik),
		},
	}, nil
}

// BuildAndSave builds the bundle for ticker and persists it.
func (b *Builder) BuildAndSave(ctx context.Context, ticker string) (*models.EntityBundle, string, error) {
	bundle, err := b.Build(ctx, ticker)
	if err != nil {
		return nil, "", err
	}
	path, err := b.store.Save(bundle)
	if err != nil {
		return nil, "", err
	}
	return bundle, path, nil
}

func (b *Builder) filings(ctx context.Context, ticker, cik string, subs *edgar.Submissions) ([]models.Filing, error) {
	if b.source == SourceFeed {
		return b.client.FetchFilingFeed(ctx, cik)
	}
	filings := edgar.FilingsFromSubmissions(subs.Filings.Recent)
	if !edgar.RecencyOrdered(filings) {
		b.logger.Warn().Str("ticker", ticker).Msg("Submissions not in recency order; sorting by filing date")
	}
	return filings, nil
}

// --- Batch ---

// Failure records one entity that could not be built.
type Failure struct {
	Ticker string
	Err    error
}

// BatchResult summarises a batch run.
type BatchResult struct {
	RunID     string
	Index     []models.IndexRow
	Failures  []Failure
	IndexPath string
}

// Progress is called once per entity, with either a bundle path or an error.
type Progress func(ticker, path string, err error)

// Batch builds and saves every ticker in order, continuing past per-entity
// failures, then rewrites the index with this run's successes in input order.
// Only context cancellation or an index write failure abort the run.
func (b *Builder) Batch(ctx context.Context, tickers []string, progress Progress) (*BatchResult, error) {
	res := &BatchResult{
		RunID: uuid.NewString(),
		Index: make([]models.IndexRow, 0, len(tickers)),
	}
	log := b.logger.WithCorrelationId(res.RunID)
	log.Info().Int("tickers", len(tickers)).Msg("Batch started")

	for _, raw := range tickers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		t := edgar.NormalizeTicker(raw)

		bundle, path, err := b.BuildAndSave(ctx, t)
		if progress != nil {
			progress(t, path, err)
		}
		if err != nil {
			log.Warn().Err(err).Str("ticker", t).Msg("Bundle failed")
			res.Failures = append(res.Failures, Failure{Ticker: t, Err: err})
			continue
		}
		res.Index = append(res.Index, models.IndexRowFor(bundle, path))
	}

	path, err := b.store.SaveIndex(res.Index)
	if err != nil {
		return res, err
	}
	res.IndexPath = path

	log.Info().
		Int("ok", len(res.Index)).
		Int("failed", len(res.Failures)).
		Str("index", path).
		Msg("Batch finished")
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
