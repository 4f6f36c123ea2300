// Package app wires the fetch, extraction, shortening, rendering, and
// release-publishing stages into a single run.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vabstudio/vabgen/internal/abstract"
	"github.com/vabstudio/vabgen/internal/cache"
	"github.com/vabstudio/vabgen/internal/fetch"
	"github.com/vabstudio/vabgen/internal/llm"
	"github.com/vabstudio/vabgen/internal/release"
	"github.com/vabstudio/vabgen/internal/render"
	"github.com/vabstudio/vabgen/internal/shorten"
)

// Default output locations, shared with flag registration.
const (
	DefaultRecordPath = "outputs/visual_abstract.json"
	DefaultSlidePath  = "outputs/visual_abstract.pdf"
	DefaultCacheDir   = ".vabgen-cache"
)

// ErrNoAbstract is returned when the page yields neither abstract sections
// nor a findings summary. Per the exit code policy this is the one
// extraction condition that should fail the process.
var ErrNoAbstract = errors.New("no abstract content found")

// App runs the generation pipeline.
type App struct {
	cfg       Config
	fetcher   *fetch.Client
	shortener *shorten.Shortener
	publisher *release.Publisher
}

// New validates cfg and prepares collaborators. The extraction core needs
// no setup; only fetch, shortening, and publishing carry state.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.URL == "" {
		return nil, errors.New("article URL required")
	}

	a := &App{cfg: cfg}

	var httpCache *cache.HTTPCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			_, _ = cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	a.fetcher = &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       3,
		PerRequestTimeout: timeout,
		Cache:             httpCache,
	}

	if cfg.ShortenEnable {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			transportCfg.BaseURL = cfg.LLMBaseURL
		}
		client := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}
		a.shortener = &shorten.Shortener{Client: client, Model: cfg.LLMModel, MaxFieldChars: cfg.ShrinkThreshold}

		// Best-effort preflight: warn, never fail, when the backend is
		// unreachable; the run degrades to unshortened text later.
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if _, err := client.ListModels(pctx); err != nil {
			log.Warn().Err(err).Msg("LLM preflight failed; shortening may be skipped")
		}
	}

	if cfg.GitHubRepo != "" {
		p, err := release.New(ctx, cfg.GitHubToken, cfg.ReleaseTag)
		if err != nil {
			return nil, fmt.Errorf("init release publisher: %w", err)
		}
		a.publisher = p
	}

	return a, nil
}

// Run executes fetch → extract → shorten → render → publish.
func (a *App) Run(ctx context.Context) error {
	body, _, err := a.fetcher.Get(ctx, a.cfg.URL)
	if err != nil {
		return fmt.Errorf("fetch article: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse article: %w", err)
	}

	rec := abstract.Assemble(doc, a.cfg.URL)
	log.Info().
		Str("title", rec.Title).
		Int("key_numbers", len(rec.Findings.KeyNumbers)).
		Msg("extracted record")
	if isEmptyRecord(rec) {
		return ErrNoAbstract
	}

	if a.shortener != nil {
		shortened, err := a.shortener.Apply(ctx, rec)
		if err != nil {
			log.Warn().Err(err).Msg("shortening failed; using full-length text")
		} else {
			rec = shortened
		}
	}

	if err := writeRecord(rec, a.cfg.RecordPath); err != nil {
		return err
	}
	log.Info().Str("out", a.cfg.RecordPath).Msg("wrote record")

	if a.cfg.DryRun {
		log.Info().Msg("dry run: skipping render and publish")
		return nil
	}

	if err := render.Slide(rec, a.cfg.SlidePath, render.Options{ShrinkThreshold: a.cfg.ShrinkThreshold}); err != nil {
		return fmt.Errorf("render slide: %w", err)
	}
	log.Info().Str("out", a.cfg.SlidePath).Msg("wrote slide")

	if a.publisher != nil {
		url, err := a.publisher.Publish(ctx, a.cfg.GitHubRepo, rec.Title, a.cfg.SlidePath)
		if err != nil {
			return fmt.Errorf("publish release: %w", err)
		}
		log.Info().Str("download_url", url).Msg("published release asset")
	}
	return nil
}

// isEmptyRecord reports whether extraction produced nothing usable. A bare
// title still counts as empty: there is no abstract to draw.
func isEmptyRecord(rec abstract.Record) bool {
	ts := rec.TheStudy
	return ts.Participants == "" && ts.Intervention == "" && ts.PrimaryOutcome == "" &&
		ts.SettingsLocations == "" && rec.Findings.Summary == "" &&
		rec.ResearchInContext.Before == "" && rec.ResearchInContext.AddedValue == "" &&
		rec.ResearchInContext.Implications == ""
}

func writeRecord(rec abstract.Record, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
