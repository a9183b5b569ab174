// Package page holds the card containers of the page and the controller
// that fills them.
package page

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html
var pageTemplate string

// Container is a page element that cards are appended to
type Container interface {
	// Clear removes everything the container holds, including placeholders
	Clear()
	Append(fragment template.HTML)
	// ShowMessage replaces the contents with a single text paragraph
	ShowMessage(text string)
}

// Document looks up containers by element id
type Document interface {
	Container(id string) (Container, bool)
}

// Section is one container of a Page
type Section struct {
	ID        string
	Heading   string
	Fragments []template.HTML
}

// Page is an in-memory Document rendered to a full HTML page
type Page struct {
	Title    string
	Sections []*Section
	byID     map[string]*Section
	tmpl     *template.Template
}

// skeleton is the placeholder a container shows until its feed is loaded
const skeleton template.HTML = `<div class="card skeleton"></div>`

// NewPage creates a page with one container per id, each holding a
// loading placeholder.
func NewPage(title string, sections ...Section) *Page {
	p := &Page{
		Title: title,
		byID:  make(map[string]*Section, len(sections)),
		tmpl:  template.Must(template.New("page").Parse(pageTemplate)),
	}
	for _, s := range sections {
		s.Fragments = []template.HTML{skeleton}
		p.Sections = append(p.Sections, &s)
		p.byID[s.ID] = &s
	}
	return p
}

// Container implements Document
func (p *Page) Container(id string) (Container, bool) {
	s, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// Render writes the page as HTML
func (p *Page) Render(w io.Writer) error {
	if err := p.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("could not render page with %w", err)
	}
	return nil
}

func (s *Section) Clear() {
	s.Fragments = nil
}

func (s *Section) Append(fragment template.HTML) {
	s.Fragments = append(s.Fragments, fragment)
}

func (s *Section) ShowMessage(text string) {
	s.Fragments = []template.HTML{
		template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>"),
	}
}
