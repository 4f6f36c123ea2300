package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vabstudio/vabgen/internal/release"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeTemp(t, "vabgen.yaml", `
url: https://example.org/article
out:
  record: out/rec.json
  slide: out/slide.pdf
render:
  shrinkThreshold: 500
llm:
  base: http://localhost:8080/v1
  model: gpt-4o-mini
  shorten: true
github:
  repo: acme/slides
  tag: nightly
cache:
  dir: /tmp/vab
  maxAge: 24h
dryRun: true
`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.org/article" {
		t.Errorf("url = %q", fc.URL)
	}
	if fc.Out.Record != "out/rec.json" || fc.Out.Slide != "out/slide.pdf" {
		t.Errorf("out = %+v", fc.Out)
	}
	if fc.Render.ShrinkThreshold != 500 {
		t.Errorf("shrinkThreshold = %d", fc.Render.ShrinkThreshold)
	}
	if !fc.LLM.Shorten || fc.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm = %+v", fc.LLM)
	}
	if fc.GitHub.Repo != "acme/slides" || fc.GitHub.Tag != "nightly" {
		t.Errorf("github = %+v", fc.GitHub)
	}
	if fc.Cache.MaxAge != 24*time.Hour {
		t.Errorf("cache.maxAge = %v", fc.Cache.MaxAge)
	}
	if !fc.DryRun {
		t.Errorf("dryRun = false")
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeTemp(t, "vabgen.json", `{"url":"https://example.org/a","llm":{"model":"m"}}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.org/a" || fc.LLM.Model != "m" {
		t.Fatalf("fc = %+v", fc)
	}
}

func TestLoadConfigFile_UnknownExtTriesBoth(t *testing.T) {
	path := writeTemp(t, "vabgen.conf", `{"url":"https://example.org/a"}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.org/a" {
		t.Fatalf("url = %q", fc.URL)
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	cfg := Config{
		URL:        "https://flag.example/a",
		RecordPath: "explicit.json",
		SlidePath:  DefaultSlidePath,
		CacheDir:   DefaultCacheDir,
	}
	var fc FileConfig
	fc.URL = "https://file.example/b"
	fc.Out.Record = "file.json"
	fc.Out.Slide = "file.pdf"
	fc.Cache.Dir = "/tmp/other"
	fc.GitHub.Repo = "acme/slides"
	fc.Verbose = true

	ApplyFileConfig(&cfg, fc)

	if cfg.URL != "https://flag.example/a" {
		t.Errorf("url overridden by file: %q", cfg.URL)
	}
	if cfg.RecordPath != "explicit.json" {
		t.Errorf("explicit record path overridden: %q", cfg.RecordPath)
	}
	if cfg.SlidePath != "file.pdf" {
		t.Errorf("default slide path not overlaid: %q", cfg.SlidePath)
	}
	if cfg.CacheDir != "/tmp/other" {
		t.Errorf("default cache dir not overlaid: %q", cfg.CacheDir)
	}
	if cfg.GitHubRepo != "acme/slides" {
		t.Errorf("repo not overlaid: %q", cfg.GitHubRepo)
	}
	if !cfg.Verbose {
		t.Errorf("verbose not overlaid")
	}
}

func TestApplyFileConfig_ReleaseTag(t *testing.T) {
	// The flag registers release.DefaultTag as its default, so a config
	// file tag must still win over that default.
	cfg := Config{ReleaseTag: release.DefaultTag}
	var fc FileConfig
	fc.GitHub.Tag = "nightly"
	ApplyFileConfig(&cfg, fc)
	if cfg.ReleaseTag != "nightly" {
		t.Errorf("release tag = %q, want file value over flag default", cfg.ReleaseTag)
	}

	cfg = Config{ReleaseTag: "v2-explicit"}
	ApplyFileConfig(&cfg, fc)
	if cfg.ReleaseTag != "v2-explicit" {
		t.Errorf("explicit release tag overridden: %q", cfg.ReleaseTag)
	}

	cfg = Config{ReleaseTag: release.DefaultTag}
	ApplyFileConfig(&cfg, FileConfig{})
	if cfg.ReleaseTag != release.DefaultTag {
		t.Errorf("release tag lost without file value: %q", cfg.ReleaseTag)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
