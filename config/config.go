package config

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
)

type FetcherType = string

var (
	Proxy  = FetcherType("proxy")
	Direct = FetcherType("direct")
)

const baseCfgPath = "feedcards/config.toml"

// UnavailableMessage is shown in a container whose feed produced no items
const UnavailableMessage = "Unable to load recent updates at this time."

type Config struct {
	ProxyEndpoint      string            `toml:"proxy_endpoint"`
	Timeout            Duration          `toml:"timeout"`
	MaxCards           int               `toml:"max_cards"`
	OutputPath         string            `toml:"output_path"`
	PageTitle          string            `toml:"page_title"`
	UnavailableMessage string            `toml:"unavailable_message"`
	Feeds              []FeedConfig      `toml:"feeds"`
	Tracking           []TrackingParam   `toml:"tracking"` // Appended in order to links of tracked feeds
	Filters            map[string]Filter `toml:"filters"`  // Named filters that can be referenced by feeds
}

type FeedConfig struct {
	Name            string      `toml:"name"`
	FeedURL         string      `toml:"feed_url"`
	ContainerID     string      `toml:"container_id"`
	FallbackPattern string      `toml:"fallback_pattern"` // CSS class used when no image is found
	Fetcher         FetcherType `toml:"fetcher"`
	TrackLinks      bool        `toml:"track_links"`
	Enabled         *bool       `toml:"enabled"` // Defaults to true if not set
	FilterNames     []string    `toml:"filters"` // Names of filters to apply (pipeline)
}

// TrackingParam is a single query field appended to outbound links
type TrackingParam struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// Filter defines rules for filtering feed items
type Filter struct {
	MinLength         int      `toml:"min_length"`         // Minimum character count (0 = no limit)
	MinWords          int      `toml:"min_words"`          // Minimum word count (0 = no limit)
	ExcludePatterns   []string `toml:"exclude_patterns"`   // Regex patterns to exclude
	RequireParagraphs bool     `toml:"require_paragraphs"` // Must have multiple lines/paragraphs
}

// Duration is a time.Duration written as a string ("20s") in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// IsEnabled returns true if the feed is enabled (defaults to true if not explicitly set)
func (f FeedConfig) IsEnabled() bool {
	if f.Enabled == nil {
		return true
	}
	return *f.Enabled
}

// FetcherOrDefault returns the configured fetcher type, falling back to the proxy
func (f FeedConfig) FetcherOrDefault() FetcherType {
	if f.Fetcher == "" {
		return Proxy
	}
	return f.Fetcher
}

// Read decodes the config at path. Fields missing from the file keep their
// Default() values; a file without [[feeds]] renders the default feeds.
func Read(path string) (Config, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	// Decoding over Default() would merge file entries into the default
	// feed list element by element, so decode into a zero value instead.
	var conf Config
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return Default(), fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	conf.fillDefaults()
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("invalid config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := path.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

// Validate reports configuration that cannot produce a page
func (c Config) Validate() error {
	if c.MaxCards < 0 {
		return fmt.Errorf("max_cards must not be negative, got %d", c.MaxCards)
	}
	seen := make(map[string]bool, len(c.Feeds))
	for i, f := range c.Feeds {
		if f.FeedURL == "" {
			return fmt.Errorf("feeds[%d]: feed_url is required", i)
		}
		if f.ContainerID == "" {
			return fmt.Errorf("feeds[%d]: container_id is required", i)
		}
		if seen[f.ContainerID] {
			return fmt.Errorf("feeds[%d]: duplicate container_id '%s'", i, f.ContainerID)
		}
		seen[f.ContainerID] = true
		switch f.FetcherOrDefault() {
		case Proxy, Direct:
		default:
			return fmt.Errorf("feeds[%d]: unknown fetcher type '%s'", i, f.Fetcher)
		}
		for _, name := range f.FilterNames {
			if _, ok := c.Filters[name]; !ok {
				return fmt.Errorf("feeds[%d]: unknown filter '%s'", i, name)
			}
		}
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.ProxyEndpoint == "" {
		c.ProxyEndpoint = def.ProxyEndpoint
	}
	if c.Timeout.Duration == 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxCards == 0 {
		c.MaxCards = def.MaxCards
	}
	if c.OutputPath == "" {
		c.OutputPath = def.OutputPath
	}
	if c.PageTitle == "" {
		c.PageTitle = def.PageTitle
	}
	if c.UnavailableMessage == "" {
		c.UnavailableMessage = def.UnavailableMessage
	}
	if c.Feeds == nil {
		c.Feeds = def.Feeds
	}
	if c.Tracking == nil {
		c.Tracking = def.Tracking
	}
}

func Default() Config {
	return Config{
		ProxyEndpoint:      "https://api.rss2json.com/v1/api.json",
		Timeout:            Duration{20 * time.Second},
		MaxCards:           5,
		OutputPath:         "index.html",
		PageTitle:          "Latest updates",
		UnavailableMessage: UnavailableMessage,
		Feeds: []FeedConfig{
			{
				Name:            "Dremio Blog",
				FeedURL:         "https://www.dremio.com/blog/feed/",
				ContainerID:     "dremio-feed",
				FallbackPattern: "dremio-pattern",
				Fetcher:         Proxy,
				TrackLinks:      true,
			},
			{
				Name:            "DataLakehouseHub",
				FeedURL:         "https://datalakehousehub.com/rss.xml",
				ContainerID:     "dlh-feed",
				FallbackPattern: "dlh-pattern",
				Fetcher:         Proxy,
			},
		},
		Tracking: []TrackingParam{
			{Key: "utm_source", Value: "ev_podcast"},
			{Key: "utm_medium", Value: "influencer"},
			{Key: "utm_campaign", Value: "next-gen-dremio"},
			{Key: "utm_term", Value: "get-started-dla-podcast-01-21-2026"},
			{Key: "utm_content", Value: "alexmerced"},
		},
	}
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	panic("unclear where to search for the config fie")
}
