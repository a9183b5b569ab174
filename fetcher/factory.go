package fetcher

import (
	"fmt"
	"net/http"

	"github.com/scipunch/feedcards/config"
	"github.com/scipunch/feedcards/fetcher/types"
)

// GetFetchers creates a map of fetcher types to their corresponding fetchers.
// Both fetchers share one HTTP client so the configured timeout applies to each.
func GetFetchers(conf config.Config, creds config.Credentials) (map[config.FetcherType]types.FeedFetcher, error) {
	fetchers := make(map[config.FetcherType]types.FeedFetcher)
	client := &http.Client{Timeout: conf.Timeout.Duration}

	for _, feed := range conf.Feeds {
		if !feed.IsEnabled() {
			continue
		}
		ft := feed.FetcherOrDefault()
		// Skip if we already have a fetcher for this type
		if fetchers[ft] != nil {
			continue
		}

		switch ft {
		case config.Proxy:
			fetchers[ft] = NewProxyFetcher(conf.ProxyEndpoint,
				WithHTTPClient(client),
				WithAPIKey(creds.Proxy.APIKey))
		case config.Direct:
			fetchers[ft] = NewRSSFetcher(client)
		default:
			return nil, fmt.Errorf("unknown fetcher type: %s", ft)
		}
	}

	return fetchers, nil
}
