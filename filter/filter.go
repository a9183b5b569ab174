package filter

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/scipunch/feedcards/config"
	"github.com/scipunch/feedcards/fetcher/types"
	"github.com/scipunch/feedcards/render"
)

// FilterPipeline applies a series of named filters to feed items
type FilterPipeline struct {
	filters map[string]*CompiledFilter
	text    render.TextExtractor
}

// CompiledFilter contains compiled regex patterns for efficient matching
type CompiledFilter struct {
	config          config.Filter
	excludePatterns []*regexp.Regexp
}

// NewFilterPipeline creates a new filter pipeline from config. Item
// descriptions are HTML, so rules run against the text extracted by text.
func NewFilterPipeline(filtersConfig map[string]config.Filter, text render.TextExtractor) (*FilterPipeline, error) {
	compiled := make(map[string]*CompiledFilter)

	for name, filterCfg := range filtersConfig {
		cf := &CompiledFilter{
			config:          filterCfg,
			excludePatterns: make([]*regexp.Regexp, 0, len(filterCfg.ExcludePatterns)),
		}

		// Compile regex patterns
		for _, pattern := range filterCfg.ExcludePatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				slog.Warn("invalid regex pattern in filter", "filter", name, "pattern", pattern, "error", err)
				continue
			}
			cf.excludePatterns = append(cf.excludePatterns, re)
		}

		compiled[name] = cf
	}

	if text == nil {
		text = render.HTMLText{}
	}
	return &FilterPipeline{filters: compiled, text: text}, nil
}

// Apply keeps the items that pass every named filter, in their original order
func (fp *FilterPipeline) Apply(items []types.FeedItem, filterNames []string) []types.FeedItem {
	if len(filterNames) == 0 {
		return items
	}
	kept := make([]types.FeedItem, 0, len(items))
	for _, item := range items {
		if ok, reason := fp.ShouldInclude(item, filterNames); !ok {
			slog.Debug("item filtered out", "title", item.Title, "reason", reason, "url", item.Link)
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// ShouldInclude returns true if the item passes all filters in the pipeline
// filterNames is a list of filter names to apply in order
func (fp *FilterPipeline) ShouldInclude(item types.FeedItem, filterNames []string) (bool, string) {
	if len(filterNames) == 0 {
		return true, "" // No filters = include everything
	}

	text := item.Title + " " + fp.text.Text(item.Description)
	for _, filterName := range filterNames {
		filter, exists := fp.filters[filterName]
		if !exists {
			slog.Warn("filter not found, skipping", "filter_name", filterName)
			continue
		}

		if shouldInclude, reason := applyFilter(text, filter, filterName); !shouldInclude {
			return false, reason
		}
	}

	return true, ""
}

// applyFilter applies a single filter to the text of an item
func applyFilter(text string, filter *CompiledFilter, filterName string) (bool, string) {
	// 1. Check minimum length
	if filter.config.MinLength > 0 && len([]rune(text)) < filter.config.MinLength {
		return false, filterName + ":min_length"
	}

	// 2. Check minimum word count
	if filter.config.MinWords > 0 {
		wordCount := countWords(text)
		if wordCount < filter.config.MinWords {
			return false, filterName + ":min_words"
		}
	}

	// 3. Check exclude patterns
	for _, pattern := range filter.excludePatterns {
		if pattern.MatchString(text) {
			return false, filterName + ":exclude_pattern[" + pattern.String() + "]"
		}
	}

	// 4. Check paragraph requirement
	if filter.config.RequireParagraphs {
		if !hasMultipleParagraphs(text) {
			return false, filterName + ":require_paragraphs"
		}
	}

	return true, ""
}

// countWords counts the number of words in text
func countWords(text string) int {
	words := 0
	inWord := false

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	return words
}

// hasMultipleParagraphs checks if text has multiple non-empty lines
func hasMultipleParagraphs(text string) bool {
	nonEmptyLines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmptyLines++
		}
	}
	return nonEmptyLines >= 2
}
