package collection

import (
	"context"
	"fmt"
	"strings"

	"tastekeeper/internal/logging"
)

// LibraryMovie is a movie matched in the Plex library.
type LibraryMovie struct {
	RatingKey string
	Title     string
	Year      int
}

// Library is the Plex side of reconciliation: title lookup and
// collection membership.
type Library interface {
	// FindMovie returns nil when the title is not in the library.
	FindMovie(ctx context.Context, title string) (*LibraryMovie, error)
	AddToCollection(ctx context.Context, collection string, ratingKey string) error
}

// Acquirer requests download of a movie that is not in the library yet.
// It is responsible for skipping titles the download manager already
// tracks.
type Acquirer interface {
	Acquire(ctx context.Context, title string, tag string) error
}

// CandidateError records a failure while processing one candidate title.
// Candidate failures never abort the run; the remaining candidates are
// still processed.
type CandidateError struct {
	Title string
	Stage string // "lookup", "collection", "acquisition"
	Err   error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Title, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

// ReconcileResult summarizes one reconcile run over a candidate list.
type ReconcileResult struct {
	MatchedInLibrary  int
	AddedToCollection int
	SentToAcquisition int
	AlreadyPresent    int
	SkippedOverCap    int
	Errors            []*CandidateError
}

// Reconciler grows a collection from candidate titles: titles found in
// the library join the Plex collection and the persisted record, missing
// titles are handed to the acquirer. At most maxAccepted new titles are
// accepted per run; already-tracked titles do not spend the budget.
type Reconciler struct {
	store       *Store
	library     Library
	acquirer    Acquirer
	logger      *logging.Logger
	maxAccepted int // 0 means unbounded
}

func NewReconciler(store *Store, library Library, acquirer Acquirer, logger *logging.Logger, maxAccepted int) *Reconciler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reconciler{
		store:       store,
		library:     library,
		acquirer:    acquirer,
		logger:      logger,
		maxAccepted: maxAccepted,
	}
}

// Reconcile processes candidates for one collection under its lock.
// It returns ErrLocked unmodified when another process holds the
// collection; the caller skips rather than waits.
func (r *Reconciler) Reconcile(ctx context.Context, spec Spec, candidates []string) (*ReconcileResult, error) {
	lock, err := AcquireLock(r.store.dataDir, spec)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	rec, err := r.store.Load(spec)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	changed := false
	accepted := 0
	seen := make(map[string]struct{}, len(candidates))

	for _, title := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// Candidates are deduplicated upstream, but a repeated title must
		// not trigger a second acquisition request.
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if rec.Contains(title) {
			result.AlreadyPresent++
			r.logger.Debug("reconcile", "already tracked",
				logging.F("collection", spec.Name), logging.F("title", title))
			continue
		}

		if r.maxAccepted > 0 && accepted >= r.maxAccepted {
			result.SkippedOverCap++
			r.logger.Debug("reconcile", "batch cap reached",
				logging.F("collection", spec.Name), logging.F("title", title))
			continue
		}

		movie, err := r.library.FindMovie(ctx, title)
		if err != nil {
			result.Errors = append(result.Errors,
				&CandidateError{Title: title, Stage: "lookup", Err: err})
			r.logger.Warn("reconcile", "library lookup failed",
				logging.F("title", title), logging.F("error", err.Error()))
			continue
		}

		if movie == nil {
			if err := r.acquirer.Acquire(ctx, title, spec.RadarrTag); err != nil {
				result.Errors = append(result.Errors,
					&CandidateError{Title: title, Stage: "acquisition", Err: err})
				r.logger.Warn("reconcile", "acquisition request failed",
					logging.F("title", title), logging.F("error", err.Error()))
				continue
			}
			result.SentToAcquisition++
			accepted++
			r.logger.Info("reconcile", "sent to acquisition",
				logging.F("collection", spec.Name), logging.F("title", title))
			continue
		}

		result.MatchedInLibrary++
		accepted++

		if err := r.library.AddToCollection(ctx, spec.Name, movie.RatingKey); err != nil {
			result.Errors = append(result.Errors,
				&CandidateError{Title: title, Stage: "collection", Err: err})
			r.logger.Warn("reconcile", "collection update failed",
				logging.F("collection", spec.Name), logging.F("title", title),
				logging.F("error", err.Error()))
			continue
		}

		ref := MovieRef{Title: movie.Title, RatingKey: movie.RatingKey}
		if movie.Year != 0 {
			year := movie.Year
			ref.Year = &year
		}
		if rec.Append(ref) {
			changed = true
		}
		result.AddedToCollection++
		r.logger.Info("reconcile", "added to collection",
			logging.F("collection", spec.Name), logging.F("title", movie.Title))
	}

	if changed {
		if err := r.store.Save(spec, rec); err != nil {
			return result, err
		}
	}

	r.logger.Info("reconcile", "run complete",
		logging.F("collection", spec.Name),
		logging.F("candidates", len(candidates)),
		logging.F("matched", result.MatchedInLibrary),
		logging.F("added", result.AddedToCollection),
		logging.F("acquiring", result.SentToAcquisition),
		logging.F("present", result.AlreadyPresent),
		logging.F("errors", len(result.Errors)))

	return result, nil
}
