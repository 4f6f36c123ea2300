package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/vabstudio/vabgen/internal/release"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to flags and env vars.
type FileConfig struct {
	URL string `yaml:"url" json:"url"`

	Out struct {
		Record string `yaml:"record" json:"record"`
		Slide  string `yaml:"slide" json:"slide"`
	} `yaml:"out" json:"out"`

	Render struct {
		ShrinkThreshold int `yaml:"shrinkThreshold" json:"shrinkThreshold"`
	} `yaml:"render" json:"render"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		Shorten bool   `yaml:"shorten" json:"shorten"`
	} `yaml:"llm" json:"llm"`

	GitHub struct {
		Repo  string `yaml:"repo" json:"repo"`
		Token string `yaml:"token" json:"token"`
		Tag   string `yaml:"tag" json:"tag"`
	} `yaml:"github" json:"github"`

	Fetch struct {
		UserAgent string        `yaml:"ua" json:"ua"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	DryRun  bool `yaml:"dryRun" json:"dryRun"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still at their
// flag defaults, so explicit flags keep precedence over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.URL == "" {
		cfg.URL = fc.URL
	}
	if cfg.RecordPath == DefaultRecordPath && fc.Out.Record != "" {
		cfg.RecordPath = fc.Out.Record
	}
	if cfg.SlidePath == DefaultSlidePath && fc.Out.Slide != "" {
		cfg.SlidePath = fc.Out.Slide
	}
	if cfg.ShrinkThreshold == 0 {
		cfg.ShrinkThreshold = fc.Render.ShrinkThreshold
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if !cfg.ShortenEnable {
		cfg.ShortenEnable = fc.LLM.Shorten
	}
	if cfg.GitHubRepo == "" {
		cfg.GitHubRepo = fc.GitHub.Repo
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = fc.GitHub.Token
	}
	if (cfg.ReleaseTag == "" || cfg.ReleaseTag == release.DefaultTag) && fc.GitHub.Tag != "" {
		cfg.ReleaseTag = fc.GitHub.Tag
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.CacheDir == DefaultCacheDir && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear {
		cfg.CacheClear = fc.Cache.Clear
	}
	if !cfg.DryRun {
		cfg.DryRun = fc.DryRun
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
}
