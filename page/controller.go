package page

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/scipunch/feedcards/config"
	"github.com/scipunch/feedcards/fetcher/types"
	"github.com/scipunch/feedcards/tracking"
)

// DefaultMaxCards is the number of cards shown per feed
const DefaultMaxCards = 5

// CardRenderer turns one item into a card fragment
type CardRenderer interface {
	Render(item types.FeedItem, pattern string) (template.HTML, error)
}

// ItemFilter drops items before the card limit is applied
type ItemFilter interface {
	Apply(items []types.FeedItem, filterNames []string) []types.FeedItem
}

// Controller fills the document's containers with cards from their feeds
type Controller struct {
	doc      Document
	renderer CardRenderer
	fetchers map[config.FetcherType]types.FeedFetcher
	filter   ItemFilter
	feeds    []config.FeedConfig
	tracking []tracking.Param
	maxCards int
	message  string
}

// NewController wires a controller from configuration. filter may be nil.
func NewController(
	conf config.Config,
	doc Document,
	renderer CardRenderer,
	fetchers map[config.FetcherType]types.FeedFetcher,
	filter ItemFilter,
) *Controller {
	params := make([]tracking.Param, 0, len(conf.Tracking))
	for _, p := range conf.Tracking {
		params = append(params, tracking.Param{Key: p.Key, Value: p.Value})
	}
	message := conf.UnavailableMessage
	if message == "" {
		message = config.UnavailableMessage
	}
	maxCards := conf.MaxCards
	if maxCards <= 0 {
		maxCards = DefaultMaxCards
	}
	return &Controller{
		doc:      doc,
		renderer: renderer,
		fetchers: fetchers,
		filter:   filter,
		feeds:    conf.Feeds,
		tracking: params,
		maxCards: maxCards,
		message:  message,
	}
}

// Initialize loads every enabled feed in order and replaces the contents of
// its container. Each feed is fetched only after the previous one has been
// rendered. Initialize never fails: problems are logged and a feed without
// items shows the unavailable message.
func (c *Controller) Initialize(ctx context.Context) {
	for _, feed := range c.feeds {
		if !feed.IsEnabled() {
			slog.Debug("skipping disabled feed", "url", feed.FeedURL)
			continue
		}
		c.load(ctx, feed)
	}
}

func (c *Controller) load(ctx context.Context, feed config.FeedConfig) {
	container, ok := c.doc.Container(feed.ContainerID)
	if !ok {
		slog.Warn("container not found, skipping feed", "container", feed.ContainerID, "url", feed.FeedURL)
		return
	}

	f, ok := c.fetchers[feed.FetcherOrDefault()]
	if !ok {
		slog.Error("no fetcher for feed", "fetcher", feed.FetcherOrDefault(), "url", feed.FeedURL)
		container.Clear()
		container.ShowMessage(c.message)
		return
	}

	items := f.Fetch(ctx, feed.FeedURL)
	if c.filter != nil && len(feed.FilterNames) > 0 {
		items = c.filter.Apply(items, feed.FilterNames)
	}

	container.Clear()
	if len(items) == 0 {
		container.ShowMessage(c.message)
		return
	}

	if len(items) > c.maxCards {
		items = items[:c.maxCards]
	}
	for _, item := range items {
		if feed.TrackLinks {
			item.Link = tracking.Augment(item.Link, c.tracking)
		}
		fragment, err := c.renderer.Render(item, feed.FallbackPattern)
		if err != nil {
			slog.Error("failed to render card", "url", item.Link, "error", err)
			continue
		}
		container.Append(fragment)
	}
	slog.Info("feed rendered", "container", feed.ContainerID, "cards", len(items))
}
