package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/seenimoa/secdcf/internal/edgar"
	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/models"
)

const indexFile = "tickers.json"

// Store lays out bundles, pages and the index under one root directory:
//
//	<root>/tickers.json        entity index
//	<root>/index.html          dashboard
//	<root>/<T>/<T>.json        bundle
//	<root>/<T>/<T>.html        valuation page
type Store struct {
	root string
}

// NewStore returns a store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root.
func (s *Store) Root() string { return s.root }

// BundlePath returns the bundle location for ticker.
func (s *Store) BundlePath(ticker string) string {
	t := edgar.NormalizeTicker(ticker)
	return filepath.Join(s.root, t, t+".json")
}

// PagePath returns the valuation page location for ticker.
func (s *Store) PagePath(ticker string) string {
	t := edgar.NormalizeTicker(ticker)
	return filepath.Join(s.root, t, t+".html")
}

// IndexPath returns the entity index location.
func (s *Store) IndexPath() string { return filepath.Join(s.root, indexFile) }

// DashboardPath returns the dashboard page location.
func (s *Store) DashboardPath() string { return filepath.Join(s.root, "index.html") }

// Save writes b atomically to its bundle path and returns that path.
func (s *Store) Save(b *models.EntityBundle) (string, error) {
	if b == nil || b.Ticker == "" {
		return "", errors.New("save bundle: missing ticker")
	}
	path := s.BundlePath(b.Ticker)
	if err := infra.WriteJSON(path, b); err != nil {
		return "", fmt.Errorf("save bundle %s: %w", b.Ticker, err)
	}
	return path, nil
}

// Load reads a bundle from an explicit path.
func (s *Store) Load(path string) (*models.EntityBundle, error) {
	var b models.EntityBundle
	if err := infra.ReadJSON(path, &b); err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}
	return &b, nil
}

// LoadTicker reads the bundle for ticker. A missing file wraps fs.ErrNotExist.
func (s *Store) LoadTicker(ticker string) (*models.EntityBundle, string, error) {
	path := s.BundlePath(ticker)
	b, err := s.Load(path)
	if err != nil {
		return nil, path, err
	}
	return b, path, nil
}

// SaveIndex writes the entity index atomically.
func (s *Store) SaveIndex(rows []models.IndexRow) (string, error) {
	if rows == nil {
		rows = []models.IndexRow{}
	}
	path := s.IndexPath()
	if err := infra.WriteJSON(path, rows); err != nil {
		return "", fmt.Errorf("save index: %w", err)
	}
	return path, nil
}

// LoadIndex reads the entity index. A missing file wraps fs.ErrNotExist.
func (s *Store) LoadIndex() ([]models.IndexRow, error) {
	var rows []models.IndexRow
	if err := infra.ReadJSON(s.IndexPath(), &rows); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return rows, nil
}

// SynthesizeIndex builds and saves an index from the bundles already on disk
// for tickers, in list order. Tickers without a readable bundle are skipped.
func (s *Store) SynthesizeIndex(tickers []string) ([]models.IndexRow, error) {
	rows := make([]models.IndexRow, 0, len(tickers))
	for _, t := range tickers {
		b, path, err := s.LoadTicker(t)
		if err != nil {
			continue
		}
		if b.Ticker == "" {
			b.Ticker = edgar.NormalizeTicker(t)
		}
		rows = append(rows, models.IndexRowFor(b, path))
	}
	if _, err := s.SaveIndex(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNotExist reports whether err means a bundle or index file is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
