package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher retrieves raw catalog text from remote element set sources.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch performs an HTTP GET against a catalog source URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// FetchAndCache pulls fresh catalog text for both categories and writes it
// to the on-disk cache. The satellite source is required; a debris source
// failure (or empty debris URL) is logged and tolerated.
func FetchAndCache(ctx context.Context, f *Fetcher, cache *Cache, satelliteURL, debrisURL string, logger *slog.Logger) error {
	now := time.Now()

	data, err := f.Fetch(ctx, satelliteURL)
	if err != nil {
		return fmt.Errorf("fetching satellite catalog: %w", err)
	}
	if err := cache.Write(CategorySatellite, data, now); err != nil {
		return fmt.Errorf("caching satellite catalog: %w", err)
	}
	logger.Info("satellite catalog fetched", "bytes", len(data), "url", satelliteURL)

	if debrisURL == "" {
		return nil
	}
	data, err = f.Fetch(ctx, debrisURL)
	if err != nil {
		logger.Warn("fetching debris catalog failed, keeping previous cache", "error", err)
		return nil
	}
	if err := cache.Write(CategoryDebris, data, now); err != nil {
		return fmt.Errorf("caching debris catalog: %w", err)
	}
	logger.Info("debris catalog fetched", "bytes", len(data), "url", debrisURL)

	return nil
}
