package fetcher

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/scipunch/feedcards/fetcher/types"
)

// RSSFetcher fetches RSS feeds directly using gofeed, bypassing the proxy
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher creates a new RSS fetcher
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	return &RSSFetcher{parser: p}
}

// Fetch retrieves and parses an RSS feed from the given URL
func (f *RSSFetcher) Fetch(ctx context.Context, url string) []types.FeedItem {
	gofeedFeed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		slog.Error("failed to parse RSS feed", "feed", url, "error", err)
		return []types.FeedItem{}
	}

	// Convert gofeed items into the shape the proxy delivers
	items := make([]types.FeedItem, 0, len(gofeedFeed.Items))
	for _, item := range gofeedFeed.Items {
		feedItem := types.FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			GUID:        item.GUID,
			Categories:  item.Categories,
		}

		switch {
		case item.Published != "":
			feedItem.PubDate = item.Published
		case item.Updated != "":
			feedItem.PubDate = item.Updated
		}

		if item.Author != nil {
			feedItem.Author = item.Author.Name
		}
		if item.Image != nil {
			feedItem.Thumbnail = item.Image.URL
		}
		if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
			feedItem.Enclosure = &types.Enclosure{
				Link: item.Enclosures[0].URL,
				Type: item.Enclosures[0].Type,
			}
		}

		items = append(items, feedItem)
	}

	slog.Debug("feed fetched directly", "feed", url, "items", len(items))
	return items
}
