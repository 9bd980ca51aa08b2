package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/patrickmn/go-cache"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/singleflight"

	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/utils"
)

// Parsed registries, keyed by snapshot path. The SEC list changes rarely and
// the on-disk snapshot never expires, so neither does the in-process copy.
var (
	registryCache = cache.New(cache.NoExpiration, 0)
	registryLoads singleflight.Group
)

// tickerIndex maps an upper-case ticker to its registry entry.
type tickerIndex map[string]Company

// Registry resolves tickers to CIKs using a disk snapshot of company_tickers.json.
type Registry struct {
	client    *Client
	cachePath string
	logger    arbor.ILogger
}

// NewRegistry creates a registry that snapshots the SEC ticker list at cachePath.
func NewRegistry(client *Client, cachePath string, logger arbor.ILogger) *Registry {
	return &Registry{
		client:    client,
		cachePath: cachePath,
		logger:    infra.OrNoOp(logger),
	}
}

// NormalizeTicker upper-cases a ticker and strips whitespace and a leading "$".
func NormalizeTicker(ticker string) string {
	return utils.NormalizeTicker(ticker)
}

// Resolve returns the 10-digit CIK for ticker, or *NotFoundError.
func (r *Registry) Resolve(ctx context.Context, ticker string) (string, error) {
	c, err := r.Lookup(ctx, ticker)
	if err != nil {
		return "", err
	}
	return c.CIK, nil
}

// Lookup returns the registry entry for ticker, or *NotFoundError.
func (r *Registry) Lookup(ctx context.Context, ticker string) (Company, error) {
	t := NormalizeTicker(ticker)
	if t == "" {
		return Company{}, &NotFoundError{Ticker: ticker}
	}

	idx, err := r.index(ctx)
	if err != nil {
		return Company{}, err
	}
	c, ok := idx[t]
	if !ok {
		return Company{}, &NotFoundError{Ticker: t}
	}
	return c, nil
}

// Refresh discards the snapshot and downloads the registry again.
func (r *Registry) Refresh(ctx context.Context) error {
	registryCache.Delete(r.cachePath)
	if err := os.Remove(r.cachePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove registry snapshot: %w", err)
	}
	_, err := r.index(ctx)
	return err
}

// index returns the parsed registry, loading it at most once per process.
func (r *Registry) index(ctx context.Context) (tickerIndex, error) {
	if v, ok := registryCache.Get(r.cachePath); ok {
		return v.(tickerIndex), nil
	}

	v, err, _ := registryLoads.Do(r.cachePath, func() (any, error) {
		if v, ok := registryCache.Get(r.cachePath); ok {
			return v, nil
		}
		idx, err := r.load(ctx)
		if err != nil {
			return nil, err
		}
		registryCache.Set(r.cachePath, idx, cache.NoExpiration)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(tickerIndex), nil
}

// load reads the disk snapshot, downloading and writing it first when absent.
func (r *Registry) load(ctx context.Context) (tickerIndex, error) {
	data, err := os.ReadFile(r.cachePath)
	switch {
	case err == nil:
		idx, perr := parseRegistry(data)
		if perr != nil {
			return nil, fmt.Errorf("registry snapshot %s: %w", r.cachePath, perr)
		}
		r.logger.Debug().Str("path", r.cachePath).Int("tickers", len(idx)).Msg("Loaded registry snapshot")
		return idx, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read registry snapshot: %w", err)
	}

	data, err = r.client.get(ctx, r.client.tickersURL, "application/json")
	if err != nil {
		return nil, err
	}
	idx, err := parseRegistry(data)
	if err != nil {
		return nil, &RetrievalError{URL: r.client.tickersURL, StatusCode: 200, Err: err}
	}
	if err := infra.WriteFileAtomic(r.cachePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write registry snapshot: %w", err)
	}
	r.logger.Info().Str("path", r.cachePath).Int("tickers", len(idx)).Msg("Downloaded SEC ticker registry")
	return idx, nil
}

// parseRegistry builds the ticker index. Rows are visited in numeric key
// order so that on duplicate tickers the first listed entry wins.
func parseRegistry(data []byte) (tickerIndex, error) {
	var rows map[string]registryEntry
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse registry JSON: %w", err)
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	idx := make(tickerIndex, len(rows))
	for _, k := range keys {
		row := rows[k]
		t := NormalizeTicker(row.Ticker)
		if t == "" {
			continue
		}
		if _, dup := idx[t]; dup {
			continue
		}
		idx[t] = Company{CIK: row.CIK.Padded(), Ticker: t, Title: row.Title}
	}
	return idx, nil
}
