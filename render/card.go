// Package render turns feed items into article cards.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"time"

	"github.com/araddon/dateparse"

	"github.com/scipunch/feedcards/fetcher/types"
)

//go:embed card.html
var cardTemplate string

const (
	snippetLength = 120
	ellipsis      = "..."
	dateLayout    = "January 2, 2006"
	invalidDate   = "Invalid Date"
)

var imgRegex = regexp.MustCompile(`(?i)<img[^>]+src="?([^"\s]+)"?\s*/?>`)

// Template executes card markup. *html/template.Template satisfies it.
type Template interface {
	Execute(w io.Writer, data any) error
}

// Card is everything a card shows, derived from one feed item
type Card struct {
	Title        string
	Link         string
	ImageURL     string
	PatternClass string // Set only when no image was resolved
	Date         string
	Snippet      string
}

// Renderer builds cards from feed items
type Renderer struct {
	text TextExtractor
	tmpl Template
	loc  *time.Location
}

type Option func(*Renderer)

// WithTemplate replaces the embedded card markup
func WithTemplate(t Template) Option {
	return func(r *Renderer) { r.tmpl = t }
}

// WithTextExtractor replaces the goquery text extractor
func WithTextExtractor(t TextExtractor) Option {
	return func(r *Renderer) { r.text = t }
}

// WithLocation sets the zone dates are displayed in. Dates without a zone
// are read in it as well.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.loc = loc }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		text: HTMLText{},
		tmpl: template.Must(template.New("card").Parse(cardTemplate)),
		loc:  time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the markup fragment for item. pattern is the CSS class
// applied to the header when the item has no image.
func (r *Renderer) Render(item types.FeedItem, pattern string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, r.Card(item, pattern)); err != nil {
		return "", fmt.Errorf("failed to render card '%s' with %w", item.Title, err)
	}
	return template.HTML(buf.String()), nil
}

// Card derives the display fields of item without producing markup
func (r *Renderer) Card(item types.FeedItem, pattern string) Card {
	card := Card{
		Title:    item.Title,
		Link:     item.Link,
		ImageURL: ResolveImage(item),
		Date:     r.FormatDate(item.PubDate),
		Snippet:  r.Snippet(item),
	}
	if card.ImageURL == "" {
		card.PatternClass = pattern
	}
	return card
}

// ResolveImage picks the header image of an item. Each step overrides the
// previous one when it yields a value: an <img> found in the content (or in
// the description), then the thumbnail, then the enclosure.
func ResolveImage(item types.FeedItem) string {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	var imageURL string
	if m := imgRegex.FindStringSubmatch(content); m != nil {
		imageURL = m[1]
	} else if item.Description != "" && item.Description != content {
		if m := imgRegex.FindStringSubmatch(item.Description); m != nil {
			imageURL = m[1]
		}
	}

	if item.Thumbnail != "" {
		imageURL = item.Thumbnail
	}
	if link := item.EnclosureLink(); link != "" {
		imageURL = link
	}
	return imageURL
}

// FormatDate renders a publish date as e.g. "January 21, 2026"
func (r *Renderer) FormatDate(pubDate string) string {
	t, err := dateparse.ParseIn(pubDate, r.loc)
	if err != nil {
		return invalidDate
	}
	return t.In(r.loc).Format(dateLayout)
}

// Snippet returns the first 120 characters of the item's text followed by
// an ellipsis. The cut ignores word boundaries.
func (r *Renderer) Snippet(item types.FeedItem) string {
	source := item.Description
	if source == "" {
		source = item.Content
	}
	text := []rune(r.text.Text(source))
	if len(text) > snippetLength {
		text = text[:snippetLength]
	}
	return string(text) + ellipsis
}
