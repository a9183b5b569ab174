package types

import (
	"bytes"
	"context"
	"encoding/json"
)

// FeedItem represents a single article as delivered by the proxy
type FeedItem struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PubDate     string     `json:"pubDate"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Thumbnail   string     `json:"thumbnail"`
	Enclosure   *Enclosure `json:"enclosure"`
	GUID        string     `json:"guid"`
	Author      string     `json:"author"`
	Categories  []string   `json:"categories"`
}

// Enclosure is the media attachment of an item.
type Enclosure struct {
	Link   string `json:"link"`
	Type   string `json:"type"`
	Length int64  `json:"length"`
}

// UnmarshalJSON accepts the empty array the proxy sends for items without
// an enclosure.
func (e *Enclosure) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*e = Enclosure{}
		return nil
	}

	type plain Enclosure
	var aux struct {
		plain
		Length json.RawMessage `json:"length"`
	}
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	*e = Enclosure(aux.plain)
	// length shows up both as a number and as a string
	if len(aux.Length) > 0 {
		var n json.Number
		if err := json.Unmarshal(bytes.Trim(aux.Length, `"`), &n); err == nil {
			if v, err := n.Int64(); err == nil {
				e.Length = v
			}
		}
	}
	return nil
}

// EnclosureLink returns the enclosure URL or an empty string.
func (i FeedItem) EnclosureLink() string {
	if i.Enclosure == nil {
		return ""
	}
	return i.Enclosure.Link
}

// FeedFetcher is an interface for fetching feeds from different sources.
// Implementations never fail: any error is logged and yields no items.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) []FeedItem
}
