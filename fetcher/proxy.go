package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/scipunch/feedcards/fetcher/types"
)

const (
	// DefaultProxyEndpoint is the public rss2json API
	DefaultProxyEndpoint = "https://api.rss2json.com/v1/api.json"
	DefaultTimeout       = 20 * time.Second

	statusOK = "ok"
)

// ProxyFetcher fetches feeds through an XML-to-JSON proxy service
type ProxyFetcher struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// ProxyOption configures a ProxyFetcher
type ProxyOption func(*ProxyFetcher)

// WithAPIKey forwards an API key to the proxy
func WithAPIKey(key string) ProxyOption {
	return func(f *ProxyFetcher) { f.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) ProxyOption {
	return func(f *ProxyFetcher) { f.client = c }
}

type proxyResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Items   []types.FeedItem `json:"items"`
}

// NewProxyFetcher creates a fetcher for the given proxy endpoint
func NewProxyFetcher(endpoint string, opts ...ProxyOption) *ProxyFetcher {
	if endpoint == "" {
		endpoint = DefaultProxyEndpoint
	}
	f := &ProxyFetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch asks the proxy for the feed at feedURL. Failures of any kind are
// logged and produce an empty list.
func (f *ProxyFetcher) Fetch(ctx context.Context, feedURL string) []types.FeedItem {
	items, err := f.fetch(ctx, feedURL)
	if err != nil {
		slog.Error("network error fetching feed", "feed", feedURL, "error", err)
		return []types.FeedItem{}
	}
	return items
}

func (f *ProxyFetcher) fetch(ctx context.Context, feedURL string) ([]types.FeedItem, error) {
	reqURL, err := f.requestURL(feedURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy request with %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed with %w", err)
	}
	defer resp.Body.Close()

	var data proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode proxy response (HTTP %d) with %w", resp.StatusCode, err)
	}

	if data.Status != statusOK {
		slog.Error("proxy reported an error fetching feed",
			"feed", feedURL, "status", data.Status, "message", data.Message)
		return []types.FeedItem{}, nil
	}

	slog.Debug("feed fetched through proxy", "feed", feedURL, "items", len(data.Items))
	if data.Items == nil {
		return []types.FeedItem{}, nil
	}
	return data.Items, nil
}

// requestURL returns the proxy endpoint with feedURL in the rss_url parameter
func (f *ProxyFetcher) requestURL(feedURL string) (string, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid proxy endpoint '%s' with %w", f.endpoint, err)
	}
	q := u.Query()
	q.Set("rss_url", feedURL)
	if f.apiKey != "" {
		q.Set("api_key", f.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
