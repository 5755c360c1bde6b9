package collection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastekeeper/internal/logging"
)

// fakeCollectionLibrary keeps a live collection as an ordered slice and
// can be told to fail adds after a fixed number of successes.
type fakeCollectionLibrary struct {
	mu         sync.Mutex
	items      []CollectionItem
	failAddsAt int // fail once this many adds have succeeded, 0 disables
	adds       int
	removes    int
	listErr    error
	onRemove   func() // invoked before the first removal
}

func (f *fakeCollectionLibrary) CollectionItems(ctx context.Context, collection string) ([]CollectionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]CollectionItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeCollectionLibrary) AddToCollection(ctx context.Context, collection, ratingKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAddsAt > 0 && f.adds >= f.failAddsAt {
		return errors.New("server gone away")
	}
	f.adds++
	f.items = append(f.items, CollectionItem{RatingKey: ratingKey, Title: "m" + ratingKey, Type: "movie"})
	return nil
}

func (f *fakeCollectionLibrary) RemoveFromCollection(ctx context.Context, collection, ratingKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removes == 0 && f.onRemove != nil {
		f.onRemove()
	}
	for i, it := range f.items {
		if it.RatingKey == ratingKey {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	f.removes++
	return nil
}

func collectionOf(n int) []CollectionItem {
	items := make([]CollectionItem, n)
	for i := range items {
		key := fmt.Sprintf("%d", 100+i)
		items[i] = CollectionItem{RatingKey: key, Title: "m" + key, Type: "movie"}
	}
	return items
}

func ratingKeys(items []CollectionItem) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.RatingKey
	}
	return keys
}

func testRefresherConfig() RefresherConfig {
	return RefresherConfig{BatchSize: 10, RetryAttempts: 0}
}

func TestRefreshRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	lib := &fakeCollectionLibrary{items: collectionOf(25)}
	before := ratingKeys(lib.items)

	ref := NewRefresher(store, lib, nil, testRefresherConfig())
	result, err := ref.Refresh(context.Background(), Similar, false)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, 25, result.Loaded)
	assert.Equal(t, 25, result.Removed)
	assert.Equal(t, 25, result.Readded)
	assert.False(t, result.DryRun)

	// Membership unchanged, only order may differ.
	assert.ElementsMatch(t, before, ratingKeys(lib.items))
}

func TestRefreshDryRunMutatesNothing(t *testing.T) {
	store := NewStore(t.TempDir())
	lib := &fakeCollectionLibrary{items: collectionOf(5)}
	before := ratingKeys(lib.items)

	ref := NewRefresher(store, lib, nil, testRefresherConfig())
	result, err := ref.Refresh(context.Background(), Similar, true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, 0, result.Readded)
	assert.Equal(t, 0, lib.adds)
	assert.Equal(t, 0, lib.removes)
	assert.Equal(t, before, ratingKeys(lib.items))
}

func TestRefreshFiltersNonMovies(t *testing.T) {
	store := NewStore(t.TempDir())
	items := collectionOf(4)
	items = append(items, CollectionItem{RatingKey: "900", Title: "Some Show", Type: "show"})
	lib := &fakeCollectionLibrary{items: items}

	ref := NewRefresher(store, lib, nil, testRefresherConfig())
	result, err := ref.Refresh(context.Background(), Similar, false)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Loaded)
	assert.Equal(t, 4, result.Filtered)
	assert.Equal(t, 4, result.Removed)
	assert.Equal(t, 4, result.Readded)
}

func TestRefreshEmptyCollection(t *testing.T) {
	store := NewStore(t.TempDir())
	lib := &fakeCollectionLibrary{}

	ref := NewRefresher(store, lib, nil, testRefresherConfig())
	result, err := ref.Refresh(context.Background(), Similar, false)
	require.NoError(t, err)

	assert.Equal(t, StageDone, result.Stage)
	assert.Equal(t, 0, result.Loaded)
	assert.Equal(t, 0, lib.removes)
}

func TestRefreshPartialRepopulationFailure(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	logPath := filepath.Join(dir, "refresh.log")
	logger, err := logging.New(logging.Config{Level: "info", File: logPath})
	require.NoError(t, err)
	defer logger.Close()

	// Capture the log at the moment of the first mutating call: the full
	// shuffled order must already be on disk, it is the recovery record
	// for exactly this failure mode.
	lib := &fakeCollectionLibrary{items: collectionOf(50), failAddsAt: 30}
	var logAtFirstMutation string
	lib.onRemove = func() {
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		logAtFirstMutation = string(data)
	}

	ref := NewRefresher(store, lib, logger, testRefresherConfig())
	result, err := ref.Refresh(context.Background(), Similar, false)
	require.Error(t, err)

	var rerr *RefreshError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, StageCleared, rerr.Stage)
	assert.Equal(t, 50, rerr.Removed)
	assert.Equal(t, 30, rerr.Readded)

	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, 50, result.Removed)
	assert.Equal(t, 30, result.Readded)

	assert.Contains(t, logAtFirstMutation, "shuffled order")
	for _, item := range collectionOf(50) {
		assert.Contains(t, logAtFirstMutation, "["+item.RatingKey+"]")
	}
}

func TestRefreshSkipsWhenLocked(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	held, err := AcquireLock(dir, Contrasting)
	require.NoError(t, err)
	defer held.Release()

	ref := NewRefresher(store, &fakeCollectionLibrary{}, nil, testRefresherConfig())
	_, err = ref.Refresh(context.Background(), Contrasting, false)
	assert.ErrorIs(t, err, ErrLocked)
}
