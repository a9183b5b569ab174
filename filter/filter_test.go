package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scipunch/feedcards/config"
	"github.com/scipunch/feedcards/fetcher/types"
)

func TestFilterPipeline_MinLength(t *testing.T) {
	filters := map[string]config.Filter{
		"short": {
			MinLength: 50,
		},
	}

	pipeline, err := NewFilterPipeline(filters, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	tests := []struct {
		name          string
		item          types.FeedItem
		shouldInclude bool
	}{
		{
			name: "long enough",
			item: types.FeedItem{
				Title:       "Test Title",
				Description: "This is a long enough description that should pass the filter",
			},
			shouldInclude: true,
		},
		{
			name: "too short",
			item: types.FeedItem{
				Title:       "Short",
				Description: "Too short",
			},
			shouldInclude: false,
		},
		{
			name: "markup does not count",
			item: types.FeedItem{
				Title:       "Short",
				Description: `<div class="wp-block-image"><figure><img src="https://example.com/a.png"></figure></div>`,
			},
			shouldInclude: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			include, _ := pipeline.ShouldInclude(tt.item, []string{"short"})
			if include != tt.shouldInclude {
				t.Errorf("Expected shouldInclude=%v, got %v", tt.shouldInclude, include)
			}
		})
	}
}

func TestFilterPipeline_MinWords(t *testing.T) {
	filters := map[string]config.Filter{
		"word_count": {
			MinWords: 10,
		},
	}

	pipeline, err := NewFilterPipeline(filters, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	tests := []struct {
		name          string
		item          types.FeedItem
		shouldInclude bool
	}{
		{
			name: "enough words",
			item: types.FeedItem{
				Title:       "Test Article",
				Description: "<p>This is a description with enough words to pass the filter test successfully</p>",
			},
			shouldInclude: true,
		},
		{
			name: "too few words",
			item: types.FeedItem{
				Title:       "Short",
				Description: "<p>Only <em>three</em> words</p>",
			},
			shouldInclude: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			include, _ := pipeline.ShouldInclude(tt.item, []string{"word_count"})
			if include != tt.shouldInclude {
				t.Errorf("Expected shouldInclude=%v, got %v", tt.shouldInclude, include)
			}
		})
	}
}

func TestFilterPipeline_ExcludePatterns(t *testing.T) {
	filters := map[string]config.Filter{
		"no_announcements": {
			ExcludePatterns: []string{
				"^(?i)webinar:",
				"^(?i)sponsored",
				"[", // invalid, skipped with a warning
			},
		},
	}

	pipeline, err := NewFilterPipeline(filters, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	tests := []struct {
		name          string
		item          types.FeedItem
		shouldInclude bool
		reason        string
	}{
		{
			name: "normal content",
			item: types.FeedItem{
				Title:       "Apache Iceberg table maintenance",
				Description: "Compaction, snapshot expiry and orphan file cleanup",
			},
			shouldInclude: true,
		},
		{
			name: "webinar announcement",
			item: types.FeedItem{
				Title:       "Webinar: lakehouse basics",
				Description: "Join us",
			},
			shouldInclude: false,
			reason:        "no_announcements:exclude_pattern[^(?i)webinar:]",
		},
		{
			name: "sponsored lowercase",
			item: types.FeedItem{
				Title:       "sponsored post",
				Description: "Buy things",
			},
			shouldInclude: false,
			reason:        "no_announcements:exclude_pattern[^(?i)sponsored]",
		},
		{
			name: "contains but doesn't start with pattern",
			item: types.FeedItem{
				Title:       "Notes from the webinar: what we learned",
				Description: "Article content",
			},
			shouldInclude: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			include, reason := pipeline.ShouldInclude(tt.item, []string{"no_announcements"})
			if include != tt.shouldInclude {
				t.Errorf("Expected shouldInclude=%v, got %v (reason: %s)", tt.shouldInclude, include, reason)
			}
			if reason != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, reason)
			}
		})
	}
}

func TestFilterPipeline_RequireParagraphs(t *testing.T) {
	filters := map[string]config.Filter{
		"paragraphs": {
			RequireParagraphs: true,
		},
	}

	pipeline, err := NewFilterPipeline(filters, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	tests := []struct {
		name          string
		item          types.FeedItem
		shouldInclude bool
	}{
		{
			name: "multiple paragraphs",
			item: types.FeedItem{
				Title:       "Article Title",
				Description: "First paragraph with some content.\n\nSecond paragraph with more content.",
			},
			shouldInclude: true,
		},
		{
			name: "single line",
			item: types.FeedItem{
				Title:       "Short announcement",
				Description: "Just one line of text",
			},
			shouldInclude: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			include, _ := pipeline.ShouldInclude(tt.item, []string{"paragraphs"})
			if include != tt.shouldInclude {
				t.Errorf("Expected shouldInclude=%v, got %v", tt.shouldInclude, include)
			}
		})
	}
}

func TestFilterPipeline_Pipeline(t *testing.T) {
	filters := map[string]config.Filter{
		"length": {
			MinLength: 30,
		},
		"words": {
			MinWords: 5,
		},
		"patterns": {
			ExcludePatterns: []string{"^Release notes"},
		},
	}

	pipeline, err := NewFilterPipeline(filters, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	item := types.FeedItem{
		Title:       "Release notes for the latest lakehouse engine",
		Description: "This is a longer description",
	}

	// Should pass length and word filters but fail pattern filter
	include, reason := pipeline.ShouldInclude(item, []string{"length", "words", "patterns"})
	if include {
		t.Errorf("Expected item to be filtered out by patterns, but it passed")
	}
	if reason != "patterns:exclude_pattern[^Release notes]" {
		t.Errorf("Expected reason to mention pattern filter, got: %s", reason)
	}
}

func TestFilterPipeline_NoFilters(t *testing.T) {
	pipeline, err := NewFilterPipeline(map[string]config.Filter{}, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	item := types.FeedItem{
		Title:       "Any title",
		Description: "Any content",
	}

	// With no filters specified, should include everything
	include, _ := pipeline.ShouldInclude(item, []string{})
	if !include {
		t.Errorf("Expected item to be included when no filters applied")
	}
}

func TestFilterPipeline_ApplyKeepsOrder(t *testing.T) {
	pipeline, err := NewFilterPipeline(map[string]config.Filter{
		"words": {MinWords: 4},
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	items := []types.FeedItem{
		{Title: "First", Description: "one two three four"},
		{Title: "Second", Description: "short"},
		{Title: "Third", Description: "five six seven eight"},
		{Title: "Fourth", Description: "nine ten eleven twelve"},
	}

	var got []string
	for _, item := range pipeline.Apply(items, []string{"words"}) {
		got = append(got, item.Title)
	}
	want := []string{"First", "Third", "Fourth"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	if all := pipeline.Apply(items, nil); len(all) != len(items) {
		t.Errorf("Expected all %d items without filters, got %d", len(items), len(all))
	}
}
