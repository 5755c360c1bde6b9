// Package config loads and validates tastekeeper configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"tastekeeper/internal/logging"
	"tastekeeper/internal/paths"
)

// Error is a pre-flight configuration failure. It halts a run before any
// collaborator API is touched.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

type Config struct {
	Plex    PlexConfig     `mapstructure:"plex"`
	OpenAI  OpenAIConfig   `mapstructure:"openai"`
	Radarr  RadarrConfig   `mapstructure:"radarr"`
	Scripts ScriptsConfig  `mapstructure:"scripts_run"`
	HTTP    HTTPConfig     `mapstructure:"http"`
	Refresh RefreshConfig  `mapstructure:"refresh"`
	Logging logging.Config `mapstructure:"logging"`
	DataDir string         `mapstructure:"data_dir"`
}

// PlexConfig identifies the Plex server and the movie library section.
type PlexConfig struct {
	URL              string `mapstructure:"url"`
	Token            string `mapstructure:"token"`
	MovieLibraryName string `mapstructure:"movie_library_name"`
}

// OpenAIConfig drives the recommendation source.
type OpenAIConfig struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	RecommendationCount int    `mapstructure:"recommendation_count"`
}

// RadarrConfig drives the acquisition service.
type RadarrConfig struct {
	URL              string `mapstructure:"url"`
	APIKey           string `mapstructure:"api_key"`
	RootFolder       string `mapstructure:"root_folder"`
	TagName          string `mapstructure:"tag_name"`
	QualityProfileID int    `mapstructure:"quality_profile_id"`
}

// ScriptsConfig toggles optional pipeline steps.
type ScriptsConfig struct {
	RunCollectionRefresher bool `mapstructure:"run_collection_refresher"`
}

// HTTPConfig makes the retry/timeout behavior around collaborator calls
// explicit configuration rather than hardcoded constants.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RetryAttempts  int `mapstructure:"retry_attempts"`
	RetryBackoffMS int `mapstructure:"retry_backoff_ms"`
}

// Timeout returns the per-request timeout as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// RetryBackoff returns the initial retry backoff as a duration.
func (h HTTPConfig) RetryBackoff() time.Duration {
	return time.Duration(h.RetryBackoffMS) * time.Millisecond
}

// RefreshConfig tunes the collection refresher.
type RefreshConfig struct {
	BatchSize    int `mapstructure:"batch_size"`
	BatchPauseMS int `mapstructure:"batch_pause_ms"`
}

// BatchPause returns the inter-batch pause as a duration.
func (r RefreshConfig) BatchPause() time.Duration {
	return time.Duration(r.BatchPauseMS) * time.Millisecond
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:              "http://localhost:32400",
			Token:            "",
			MovieLibraryName: "Movies",
		},
		OpenAI: OpenAIConfig{
			APIKey:              "",
			BaseURL:             "https://api.openai.com/v1",
			Model:               "gpt-4o-mini",
			RecommendationCount: 15,
		},
		Radarr: RadarrConfig{
			URL:              "http://localhost:7878",
			APIKey:           "",
			RootFolder:       "/movies",
			TagName:          "tastekeeper",
			QualityProfileID: 1,
		},
		Scripts: ScriptsConfig{
			RunCollectionRefresher: false,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			RetryAttempts:  3,
			RetryBackoffMS: 500,
		},
		Refresh: RefreshConfig{
			BatchSize:    10,
			BatchPauseMS: 250,
		},
		Logging: logging.DefaultConfig(),
		DataDir: "",
	}
}

// Load loads configuration from the given file, or from the default
// location when path is empty. A missing default file yields defaults;
// a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	explicit := path != ""
	if !explicit {
		p, err := paths.ConfigPath()
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("unable to resolve config path: %v", err)}
		}
		path = p
	}
	v.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Reason: fmt.Sprintf("unable to read %s: %v", path, err)}
		}
	} else if explicit {
		return nil, &Error{Reason: fmt.Sprintf("config file not found: %s", path)}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &Error{Reason: fmt.Sprintf("unable to unmarshal config: %v", err)}
	}

	if cfg.DataDir == "" {
		dd, err := paths.DataDir()
		if err != nil {
			return nil, &Error{Key: "data_dir", Reason: fmt.Sprintf("unable to resolve default: %v", err)}
		}
		cfg.DataDir = dd
	}

	return cfg, nil
}

// Validate checks that every setting the pipeline needs is present.
func (c *Config) Validate() error {
	if c.Plex.URL == "" {
		return &Error{Key: "plex.url", Reason: "required"}
	}
	if c.Plex.Token == "" {
		return &Error{Key: "plex.token", Reason: "required"}
	}
	if c.Plex.MovieLibraryName == "" {
		return &Error{Key: "plex.movie_library_name", Reason: "required"}
	}
	if c.OpenAI.APIKey == "" {
		return &Error{Key: "openai.api_key", Reason: "required"}
	}
	if c.OpenAI.RecommendationCount < 1 {
		return &Error{Key: "openai.recommendation_count", Reason: "must be at least 1"}
	}
	if c.Radarr.URL == "" {
		return &Error{Key: "radarr.url", Reason: "required"}
	}
	if c.Radarr.APIKey == "" {
		return &Error{Key: "radarr.api_key", Reason: "required"}
	}
	if c.Radarr.RootFolder == "" {
		return &Error{Key: "radarr.root_folder", Reason: "required"}
	}
	if c.Radarr.QualityProfileID < 1 {
		return &Error{Key: "radarr.quality_profile_id", Reason: "must be at least 1"}
	}
	if c.HTTP.TimeoutSeconds < 1 {
		return &Error{Key: "http.timeout_seconds", Reason: "must be at least 1"}
	}
	if c.HTTP.RetryAttempts < 0 {
		return &Error{Key: "http.retry_attempts", Reason: "must not be negative"}
	}
	if c.Refresh.BatchSize < 1 {
		return &Error{Key: "refresh.batch_size", Reason: "must be at least 1"}
	}
	return nil
}

// Save writes the configuration to the default config file location.
func (c *Config) Save() error {
	configFile, err := paths.ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToYAML()), 0600)
}

// ConfigExists reports whether a config file is present at the default location.
func ConfigExists() bool {
	path, err := paths.ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ToYAML renders an annotated config file.
func (c *Config) ToYAML() string {
	return fmt.Sprintf(`# tastekeeper configuration
# Generated by: tastekeeper config init

# Plex server holding the movie library and the collections.
plex:
  url: %q
  token: %q
  movie_library_name: %q

# OpenAI recommendation source.
openai:
  api_key: %q
  base_url: %q
  model: %q
  recommendation_count: %d

# Radarr instance that acquires missing recommendations.
radarr:
  url: %q
  api_key: %q
  root_folder: %q
  tag_name: %q
  quality_profile_id: %d

# Optional pipeline steps.
scripts_run:
  run_collection_refresher: %v

# Timeout and retry behavior for collaborator API calls.
http:
  timeout_seconds: %d
  retry_attempts: %d
  retry_backoff_ms: %d

# Collection refresher tuning.
refresh:
  batch_size: %d
  batch_pause_ms: %d

# Directory for collection state files. Empty = ~/.config/tastekeeper/data
data_dir: %q

logging:
  level: %q
  file: %q
  max_size_mb: %d
  max_backups: %d
`,
		c.Plex.URL,
		c.Plex.Token,
		c.Plex.MovieLibraryName,
		c.OpenAI.APIKey,
		c.OpenAI.BaseURL,
		c.OpenAI.Model,
		c.OpenAI.RecommendationCount,
		c.Radarr.URL,
		c.Radarr.APIKey,
		c.Radarr.RootFolder,
		c.Radarr.TagName,
		c.Radarr.QualityProfileID,
		c.Scripts.RunCollectionRefresher,
		c.HTTP.TimeoutSeconds,
		c.HTTP.RetryAttempts,
		c.HTTP.RetryBackoffMS,
		c.Refresh.BatchSize,
		c.Refresh.BatchPauseMS,
		c.DataDir,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}
