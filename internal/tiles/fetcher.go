package tiles

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sentinelc2/client/internal/cache"
)

// PersistentStore is the optional on-disk tile store consulted between
// the memory cache and the network. A nil payload with a nil error is a
// miss.
type PersistentStore interface {
	GetTile(url string) ([]byte, error)
	PutTile(url string, payload []byte) error
}

// Fetcher retrieves raw tile payloads. Lookup order is memory cache,
// persistent store, network; successful network fetches backfill both.
type Fetcher struct {
	client *http.Client
	cache  *cache.TileCache
	store  PersistentStore
	logger *slog.Logger
}

// FetcherOptions configures the HTTP transport.
type FetcherOptions struct {
	Timeout  time.Duration
	Insecure bool
}

// NewFetcher creates a fetcher. store may be nil when persistence is
// disabled.
func NewFetcher(opts FetcherOptions, tileCache *cache.TileCache, store PersistentStore, logger *slog.Logger) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout, Transport: transport},
		cache:  tileCache,
		store:  store,
		logger: logger,
	}
}

// Fetch returns the payload for url. Errors are per-tile: a failed tile
// never aborts its mosaic, the caller just leaves that cell empty.
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	if payload, ok := f.cache.Get(url); ok {
		return payload, nil
	}
	if f.store != nil {
		payload, err := f.store.GetTile(url)
		if err != nil {
			f.logger.Warn("tile store read failed", "url", url, "error", err)
		} else if payload != nil {
			f.cache.Put(url, payload)
			return payload, nil
		}
	}

	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching tile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching tile: unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading tile body: %w", err)
	}

	f.cache.Put(url, payload)
	if f.store != nil {
		if err := f.store.PutTile(url, payload); err != nil {
			f.logger.Warn("tile store write failed", "url", url, "error", err)
		}
	}
	return payload, nil
}
