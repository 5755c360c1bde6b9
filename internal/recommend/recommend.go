// Package recommend turns a watched movie title into candidate titles for
// the two collections, using an LLM as the recommendation source.
package recommend

import (
	"context"
	"fmt"
)

// Batch holds the candidate titles produced for one trigger event: movies
// similar to the watched one, and movies deliberately contrasting with it.
// Batches are ephemeral; they are consumed within a single pipeline run.
type Batch struct {
	Similar     []string
	Contrasting []string
}

// Source is the recommendation collaborator. Both lists are deduplicated,
// ordered, and capped at count.
type Source interface {
	Recommend(ctx context.Context, title string, count int) (Batch, error)
}

// Error is a recommendation failure. It is fatal for the run: with no
// candidates there is nothing to reconcile.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("recommendation %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
