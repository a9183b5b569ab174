package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TextExtractor turns an HTML fragment into its visible text
type TextExtractor interface {
	Text(html string) string
}

// HTMLText extracts text content with goquery, the way a browser's
// textContent does for a detached element.
type HTMLText struct{}

func (HTMLText) Text(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return doc.Text()
}
