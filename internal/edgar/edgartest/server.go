// Package edgartest provides an in-process fake of the SEC EDGAR endpoints
// for tests: the ticker registry, submissions, companyfacts and the Atom feed.
package edgartest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Server is a fake SEC EDGAR host.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	registry    map[string]registryRow
	submissions map[string]string // padded CIK -> body
	facts       map[string]string
	feeds       map[string]string
	failures    map[string]int // request path -> status
	requests    []string
	userAgents  []string
}

type registryRow struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// NewServer starts a fake EDGAR host. Call Close when done.
func NewServer() *Server {
	s := &Server{
		registry:    make(map[string]registryRow),
		submissions: make(map[string]string),
		facts:       make(map[string]string),
		feeds:       make(map[string]string),
		failures:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// DataURL is the data.sec.gov stand-in.
func (s *Server) DataURL() string { return s.URL }

// TickersURL is the company_tickers.json stand-in.
func (s *Server) TickersURL() string { return s.URL + "/files/company_tickers.json" }

// FeedURL is the browse-edgar stand-in.
func (s *Server) FeedURL() string { return s.URL + "/cgi-bin/browse-edgar" }

// AddCompany registers a ticker with its submissions and companyfacts bodies.
// Empty bodies leave the endpoint unregistered (404).
func (s *Server) AddCompany(ticker string, cik int64, title, submissions, facts string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[fmt.Sprint(len(s.registry))] = registryRow{CIK: cik, Ticker: ticker, Title: title}
	padded := fmt.Sprintf("%010d", cik)
	if submissions != "" {
		s.submissions[padded] = submissions
	}
	if facts != "" {
		s.facts[padded] = facts
	}
}

// SetFeed registers the Atom feed body for a CIK.
func (s *Server) SetFeed(cik int64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds[fmt.Sprintf("%010d", cik)] = body
}

// Fail makes requests for path answer with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns the request paths seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests returns how many requests were made for path.
func (s *Server) CountRequests(path string) int {
	n := 0
	for _, p := range s.Requests() {
		if p == path {
			n++
		}
	}
	return n
}

// UserAgents returns the User-Agent header of every request.
func (s *Server) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAgents...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.userAgents = append(s.userAgents, r.Header.Get("User-Agent"))
	status, failing := s.failures[r.URL.Path]
	s.mu.Unlock()

	if failing {
		http.Error(w, "forced failure", status)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/files/company_tickers.json":
		s.mu.Lock()
		data, _ := json.Marshal(s.registry)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	case strings.HasPrefix(path, "/submissions/CIK"):
		s.serve(w, s.submissions, strings.TrimSuffix(strings.TrimPrefix(path, "/submissions/CIK"), ".json"), "application/json")
	case strings.HasPrefix(path, "/api/xbrl/companyfacts/CIK"):
		s.serve(w, s.facts, strings.TrimSuffix(strings.TrimPrefix(path, "/api/xbrl/companyfacts/CIK"), ".json"), "application/json")
	case path == "/cgi-bin/browse-edgar":
		s.serve(w, s.feeds, r.URL.Query().Get("CIK"), "application/atom+xml")
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serve(w http.ResponseWriter, bodies map[string]string, cik, contentType string) {
	s.mu.Lock()
	body, ok := bodies[cik]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, body)
}
