package main

import (
	"fmt"

	"tastekeeper/internal/collection"
	"tastekeeper/internal/config"
	"tastekeeper/internal/logging"
	"tastekeeper/internal/paths"
	"tastekeeper/internal/plex"
	"tastekeeper/internal/radarr"
	"tastekeeper/internal/recommend"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, logFile string) (*logging.Logger, error) {
	logCfg := cfg.Logging
	if logFile != "" {
		logCfg.File = logFile
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	if verbose {
		logger.SetLevel(logging.LevelDebug)
	}
	return logger, nil
}

func dataDir(cfg *config.Config) (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return paths.DataDir()
}

func newStore(cfg *config.Config) (*collection.Store, error) {
	dir, err := dataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	return collection.NewStore(dir), nil
}

func newPlexClient(cfg *config.Config) *plex.Client {
	return plex.NewClient(plex.Config{
		URL:     cfg.Plex.URL,
		Token:   cfg.Plex.Token,
		Library: cfg.Plex.MovieLibraryName,
		Timeout: cfg.HTTP.Timeout(),
	})
}

func newRadarrClient(cfg *config.Config) *radarr.Client {
	return radarr.NewClient(radarr.Config{
		URL:     cfg.Radarr.URL,
		APIKey:  cfg.Radarr.APIKey,
		Timeout: cfg.HTTP.Timeout(),
	})
}

func newRecommendSource(cfg *config.Config) *recommend.OpenAI {
	return recommend.NewOpenAI(recommend.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
}

func refresherConfig(cfg *config.Config, noPause bool) collection.RefresherConfig {
	rc := collection.RefresherConfig{
		BatchSize:     cfg.Refresh.BatchSize,
		BatchPause:    cfg.Refresh.BatchPause(),
		RetryAttempts: cfg.HTTP.RetryAttempts,
		RetryBackoff:  cfg.HTTP.RetryBackoff(),
	}
	if noPause {
		rc.BatchPause = 0
	}
	return rc
}
