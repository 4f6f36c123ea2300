package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vabstudio/vabgen/internal/app"
	"github.com/vabstudio/vabgen/internal/release"
)

func main() {
	// Local .env files supply tokens during development; absence is fine.
	_ = godotenv.Load()

	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		articleURL   string
		recordPath   string
		slidePath    string
		configPath   string
		shrinkThresh int
		shorten      bool
		llmBaseURL   string
		llmModel     string
		llmKey       string
		githubRepo   string
		githubToken  string
		releaseTag   string
		fetchUA      string
		fetchTimeout time.Duration
		cacheDir     string
		cacheMaxAge  time.Duration
		cacheClear   bool
		dryRun       bool
		verbose      bool
	)

	flag.StringVar(&articleURL, "url", "", "Article page URL to extract")
	flag.StringVar(&recordPath, "out.record", app.DefaultRecordPath, "Path to write the normalized record as JSON")
	flag.StringVar(&slidePath, "out.slide", app.DefaultSlidePath, "Path to write the rendered slide")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file; explicit flags take precedence")
	flag.IntVar(&shrinkThresh, "render.shrinkThreshold", 0, "Field length above which the slide font shrinks (0 = default)")
	flag.BoolVar(&shorten, "llm.shorten", false, "Shorten over-long fields with an LLM before rendering")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for shortening")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.StringVar(&githubRepo, "github.repo", os.Getenv("GITHUB_REPOSITORY"), "owner/name repository to publish the slide to (empty disables publishing)")
	flag.StringVar(&githubToken, "github.token", os.Getenv("GITHUB_TOKEN"), "GitHub token for release publishing")
	flag.StringVar(&releaseTag, "release.tag", release.DefaultTag, "Release tag reused for every upload")
	flag.StringVar(&fetchUA, "fetch.ua", "", "Custom User-Agent for article requests")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Per-request timeout (0 = default)")
	flag.StringVar(&cacheDir, "cache.dir", app.DefaultCacheDir, "HTTP cache directory path (empty disables caching)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&dryRun, "dry-run", false, "Extract and write the record without rendering or publishing")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		URL:             articleURL,
		RecordPath:      recordPath,
		SlidePath:       slidePath,
		ShrinkThreshold: shrinkThresh,
		ShortenEnable:   shorten,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		GitHubRepo:      githubRepo,
		GitHubToken:     githubToken,
		ReleaseTag:      releaseTag,
		UserAgent:       fetchUA,
		FetchTimeout:    fetchTimeout,
		CacheDir:        cacheDir,
		CacheMaxAge:     cacheMaxAge,
		CacheClear:      cacheClear,
		DryRun:          dryRun,
		Verbose:         verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 means the page had no extractable abstract,
		// anything else is an operational failure.
		if errors.Is(err, app.ErrNoAbstract) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
