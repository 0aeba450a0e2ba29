package fetch

import "context"

// A Fetcher allows to fetch the content of a web page
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOpts) (string, error)
	Cancel()
}

// FetchOpts holds per-fetch options.
type FetchOpts struct {
	// extra wait in milliseconds after page load, only relevant for the
	// dynamic fetcher
	WaitMS int
}

// A MockPage maps a url to fixed content, used by the MockFetcher.
type MockPage struct {
	Url     string `yaml:"url"`
	Content string `yaml:"content"`
}

// FetcherConfig defines the necessary parameters to make a new fetcher.
type FetcherConfig struct {
	UserAgent      string     `yaml:"user_agent" env:"FETCHER_USER_AGENT" env-default:"cssfinder"`
	PageLoadWaitMS int        `yaml:"page_load_wait_ms" env:"FETCHER_PAGE_LOAD_WAIT_MS"`
	MockPages      []MockPage `yaml:"mock_pages"`
}

// New returns a dynamic (js rendering) or static fetcher for the given
// config. The caller must call Cancel when done.
func New(renderJS bool, fc *FetcherConfig) Fetcher {
	if renderJS {
		return NewDynamicFetcher(fc)
	}
	return NewStaticFetcher(fc)
}
