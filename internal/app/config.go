package app

import "time"

// Config holds runtime configuration for a single generation run.
type Config struct {
	// URL is the article page to extract.
	URL string

	// RecordPath receives the normalized record as JSON.
	RecordPath string
	// SlidePath receives the rendered slide file.
	SlidePath string
	// ShrinkThreshold is the placeholder length above which the renderer
	// drops to the smaller font size. Zero means the renderer default.
	ShrinkThreshold int

	// LLM-backed shortening (optional).
	ShortenEnable bool
	LLMBaseURL    string
	LLMModel      string
	LLMAPIKey     string

	// Release publishing (optional; enabled when GitHubRepo is set).
	GitHubRepo  string
	GitHubToken string
	ReleaseTag  string

	// Fetch behavior
	UserAgent    string
	FetchTimeout time.Duration
	CacheDir     string
	CacheMaxAge  time.Duration
	CacheClear   bool

	// Behavior
	DryRun  bool
	Verbose bool
}
