package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tastekeeper/internal/collection"
	"tastekeeper/internal/logging"
)

func newWatchedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watched <movie-title> [media-type]",
		Short: "React to a watched movie: grow both collections",
		Long: `Handle a "movie watched" event.

Asks the recommendation source for movies similar to and contrasting
with the watched title, adds matches from the Plex library to the two
collections, and sends missing titles to Radarr.

The optional media-type argument makes the command safe to wire into a
generic playback-stop hook: anything other than "movie" is ignored with
exit code 0.

Examples:
  tastekeeper watched "Heat"
  tastekeeper watched "Heat" movie
  tastekeeper watched "Breaking Bad" episode   # no-op`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runWatched,
	}

	return cmd
}

func runWatched(cmd *cobra.Command, args []string) error {
	title := args[0]
	if len(args) == 2 && !strings.EqualFold(args[1], "movie") {
		fmt.Printf("Ignoring %s event for %q\n", args[1], title)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	ctx := cmd.Context()
	start := time.Now()

	logger.Info("watched", "event received", logging.F("title", title))

	source := newRecommendSource(cfg)
	batch, err := source.Recommend(ctx, title, cfg.OpenAI.RecommendationCount)
	if err != nil {
		logger.Error("watched", "recommendation failed", err, logging.F("title", title))
		return err
	}
	logger.Info("watched", "recommendations received",
		logging.F("similar", len(batch.Similar)),
		logging.F("contrasting", len(batch.Contrasting)))

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	library := &plexLibrary{client: newPlexClient(cfg)}
	acquirer := newRadarrAcquirer(newRadarrClient(cfg), cfg.Radarr)
	reconciler := collection.NewReconciler(store, library, acquirer, logger, cfg.OpenAI.RecommendationCount)

	runs := []struct {
		spec       collection.Spec
		candidates []string
	}{
		{collection.Similar, batch.Similar},
		{collection.Contrasting, batch.Contrasting},
	}

	var failures []error
	for _, run := range runs {
		result, err := reconciler.Reconcile(ctx, run.spec, run.candidates)
		if errors.Is(err, collection.ErrLocked) {
			logger.Warn("watched", "collection busy, skipping",
				logging.F("collection", run.spec.Name))
			fmt.Printf("%s: locked by another run, skipped\n", run.spec.Name)
			continue
		}
		if err != nil {
			logger.Error("watched", "reconcile failed", err,
				logging.F("collection", run.spec.Name))
			failures = append(failures, fmt.Errorf("%s: %w", run.spec.Name, err))
			continue
		}

		fmt.Printf("%s: %d matched, %d added, %d sent to Radarr, %d already present, %d over cap\n",
			run.spec.Name,
			result.MatchedInLibrary, result.AddedToCollection,
			result.SentToAcquisition, result.AlreadyPresent, result.SkippedOverCap)
		for _, cerr := range result.Errors {
			fmt.Printf("  warning: %v\n", cerr)
		}
	}

	// The appended refresh is best effort: its failure must not turn a
	// successful reconcile into a failed hook run.
	if cfg.Scripts.RunCollectionRefresher {
		refresher := collection.NewRefresher(store, library, logger, refresherConfig(cfg, false))
		for _, spec := range collection.Specs() {
			if _, err := refresher.Refresh(ctx, spec, false); err != nil {
				if errors.Is(err, collection.ErrLocked) {
					logger.Warn("watched", "refresh skipped, collection busy",
						logging.F("collection", spec.Name))
					continue
				}
				logger.Error("watched", "appended refresh failed", err,
					logging.F("collection", spec.Name))
			}
		}
	}

	logger.Info("watched", "pipeline complete",
		logging.F("title", title),
		logging.F("duration", time.Since(start).Round(time.Millisecond).String()),
		logging.F("failures", len(failures)))

	return errors.Join(failures...)
}
