package collection

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tastekeeper/internal/logging"
)

// Stage identifies how far a refresh run progressed. StageCleared to
// StageRepopulated is the dangerous window: the live collection is empty
// or partially filled until re-adding completes.
type Stage string

const (
	StageLoaded      Stage = "LOADED"
	StageFiltered    Stage = "FILTERED"
	StageShuffled    Stage = "SHUFFLED"
	StageCleared     Stage = "CLEARED"
	StageRepopulated Stage = "REPOPULATED"
	StageDone        Stage = "DONE"
	StageFailed      Stage = "FAILED"
)

// CollectionItem is one entry of a live collection.
type CollectionItem struct {
	RatingKey string
	Title     string
	Type      string
}

// CollectionLibrary is the Plex surface the refresher needs: listing a
// collection and editing membership one item at a time.
type CollectionLibrary interface {
	// CollectionItems returns nil, nil when the collection does not exist.
	CollectionItems(ctx context.Context, collection string) ([]CollectionItem, error)
	AddToCollection(ctx context.Context, collection string, ratingKey string) error
	RemoveFromCollection(ctx context.Context, collection string, ratingKey string) error
}

// RefreshError is fatal for a refresh run. Stage names the last stage
// that completed before the failure, and Removed/Readded carry the
// partial progress, so an operator knows whether the live collection
// needs manual recovery from the logged shuffle order.
type RefreshError struct {
	Collection string
	Stage      Stage
	Removed    int
	Readded    int
	Err        error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refreshing %q (after %s, removed %d, re-added %d): %v",
		e.Collection, e.Stage, e.Removed, e.Readded, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Collection string
	Loaded     int // live items fetched
	Filtered   int // after dropping non-movie entries
	Removed    int
	Readded    int
	Stage      Stage
	DryRun     bool
}

// RefresherConfig tunes batching and retry behavior.
type RefresherConfig struct {
	BatchSize     int
	BatchPause    time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		BatchSize:     10,
		BatchPause:    250 * time.Millisecond,
		RetryAttempts: 3,
		RetryBackoff:  500 * time.Millisecond,
	}
}

// Refresher reshuffles a live collection's presentation order without
// changing membership.
type Refresher struct {
	store   *Store
	library CollectionLibrary
	logger  *logging.Logger
	cfg     RefresherConfig
}

func NewRefresher(store *Store, library CollectionLibrary, logger *logging.Logger, cfg RefresherConfig) *Refresher {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Refresher{
		store:   store,
		library: library,
		logger:  logger,
		cfg:     cfg,
	}
}

// Refresh reorders one collection: fetch live items, shuffle, remove all,
// re-add in the shuffled order. The shuffled order is logged in full
// before any mutation so a failed run can be replayed by hand. In dry-run
// mode no mutating calls are made.
func (r *Refresher) Refresh(ctx context.Context, spec Spec, dryRun bool) (*RefreshResult, error) {
	lock, err := AcquireLock(r.store.dataDir, spec)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	result := &RefreshResult{Collection: spec.Name, DryRun: dryRun}

	rec, err := r.store.Load(spec)
	if err != nil {
		result.Stage = StageFailed
		return result, &RefreshError{Collection: spec.Name, Stage: StageLoaded, Err: err}
	}

	items, err := r.library.CollectionItems(ctx, spec.Name)
	if err != nil {
		result.Stage = StageFailed
		return result, &RefreshError{Collection: spec.Name, Stage: StageLoaded, Err: err}
	}
	result.Loaded = len(items)
	result.Stage = StageLoaded

	r.logger.Info("refresh", "collection loaded",
		logging.F("collection", spec.Name),
		logging.F("live_items", len(items)),
		logging.F("tracked", len(rec.Movies)))

	if len(items) == 0 {
		result.Stage = StageDone
		r.logger.Info("refresh", "collection is empty, nothing to do",
			logging.F("collection", spec.Name))
		return result, nil
	}

	// Library state can drift; keep only movies.
	movies := items[:0:0]
	for _, it := range items {
		if it.Type == "" || it.Type == "movie" {
			movies = append(movies, it)
			continue
		}
		r.logger.Warn("refresh", "skipping non-movie item",
			logging.F("collection", spec.Name),
			logging.F("title", it.Title), logging.F("type", it.Type))
	}
	result.Filtered = len(movies)
	result.Stage = StageFiltered

	rand.Shuffle(len(movies), func(i, j int) {
		movies[i], movies[j] = movies[j], movies[i]
	})
	result.Stage = StageShuffled

	// Logged before any mutation: this line is the recovery record if
	// re-adding fails partway.
	order := make([]string, len(movies))
	for i, m := range movies {
		order[i] = fmt.Sprintf("%s [%s]", m.Title, m.RatingKey)
	}
	r.logger.Info("refresh", "shuffled order",
		logging.F("collection", spec.Name),
		logging.F("order", strings.Join(order, " | ")))

	if dryRun {
		result.Stage = StageDone
		r.logger.Info("refresh", "dry run, skipping collection updates",
			logging.F("collection", spec.Name),
			logging.F("items", len(movies)))
		return result, nil
	}

	for start := 0; start < len(movies); start += r.cfg.BatchSize {
		end := min(start+r.cfg.BatchSize, len(movies))
		for _, m := range movies[start:end] {
			if err := r.withRetry(ctx, func() error {
				return r.library.RemoveFromCollection(ctx, spec.Name, m.RatingKey)
			}); err != nil {
				result.Stage = StageFailed
				return result, &RefreshError{
					Collection: spec.Name, Stage: StageShuffled,
					Removed: result.Removed, Err: err,
				}
			}
			result.Removed++
		}
		r.logger.Info("refresh", "removal progress",
			logging.F("collection", spec.Name),
			logging.F("removed", result.Removed),
			logging.F("total", len(movies)))
	}
	result.Stage = StageCleared

	for start := 0; start < len(movies); start += r.cfg.BatchSize {
		end := min(start+r.cfg.BatchSize, len(movies))
		for _, m := range movies[start:end] {
			if err := r.withRetry(ctx, func() error {
				return r.library.AddToCollection(ctx, spec.Name, m.RatingKey)
			}); err != nil {
				result.Stage = StageFailed
				r.logger.Error("refresh", "repopulation failed partway", err,
					logging.F("collection", spec.Name),
					logging.F("readded", result.Readded),
					logging.F("total", len(movies)))
				return result, &RefreshError{
					Collection: spec.Name, Stage: StageCleared,
					Removed: result.Removed, Readded: result.Readded, Err: err,
				}
			}
			result.Readded++
		}
		r.logger.Info("refresh", "repopulation progress",
			logging.F("collection", spec.Name),
			logging.F("readded", result.Readded),
			logging.F("total", len(movies)))

		if r.cfg.BatchPause > 0 && end < len(movies) {
			select {
			case <-ctx.Done():
				result.Stage = StageFailed
				return result, &RefreshError{
					Collection: spec.Name, Stage: StageCleared,
					Removed: result.Removed, Readded: result.Readded, Err: ctx.Err(),
				}
			case <-time.After(r.cfg.BatchPause):
			}
		}
	}
	result.Stage = StageRepopulated

	result.Stage = StageDone
	r.logger.Info("refresh", "run complete",
		logging.F("collection", spec.Name),
		logging.F("removed", result.Removed),
		logging.F("readded", result.Readded))

	return result, nil
}

// withRetry wraps one mutating call with bounded exponential backoff.
func (r *Refresher) withRetry(ctx context.Context, op func() error) error {
	if r.cfg.RetryAttempts <= 0 {
		return op()
	}

	bo := backoff.NewExponentialBackOff()
	if r.cfg.RetryBackoff > 0 {
		bo.InitialInterval = r.cfg.RetryBackoff
	}

	return backoff.Retry(op,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.cfg.RetryAttempts)), ctx))
}
