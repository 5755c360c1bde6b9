package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds a collection's lock. The
// caller skips that collection rather than blocking or corrupting state.
var ErrLocked = errors.New("collection is locked by another process")

// Lock is an advisory per-collection file lock. The watched pipeline and
// the refresher both take it before touching a collection's state file,
// so a Tautulli-triggered run and a cron refresh never interleave.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock attempts to take the lock for one collection without
// blocking. It returns ErrLocked when another process holds it.
func AcquireLock(dataDir string, spec Spec) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	fl := flock.New(filepath.Join(dataDir, spec.Slug()+".lock"))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, ErrLocked
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock. The lock file itself is left in place; only
// the flock matters.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
