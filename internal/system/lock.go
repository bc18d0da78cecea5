package system

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// lockRetryInterval is the interval between attempts to acquire a destination lock
const lockRetryInterval = 50 * time.Millisecond

// LockPath returns the lock file used for destination inside lockDir.
// The name is derived from the absolute destination path so the lock file
// never lives inside the tree being staged.
func LockPath(lockDir, destination string) string {
	abs, err := filepath.Abs(destination)
	if err != nil {
		abs = filepath.Clean(destination)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(abs))
	return filepath.Join(lockDir, fmt.Sprintf("%016x.lock", h.Sum64()))
}

// AcquireLock takes an exclusive lock on lockPath, retrying until ctx is done
func AcquireLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("failed to acquire lock %s: lock not acquired", lockPath)
	}

	return fl, nil
}

// ReleaseLock releases fl. The lock file stays on disk; removing it could
// invalidate a lock another process has just taken.
func ReleaseLock(logger zerolog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug().Err(err).Str("path", fl.Path()).Msg("failed to release lock")
	}
}
