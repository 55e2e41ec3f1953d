package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// acquireExclusive takes the scope's advisory lock for writing, waiting
// up to the configured bound. The returned release function must be
// called exactly once.
//
// While held, the sentinel file carries an owner token (uuid + pid) so
// an operator inspecting a stuck lock can see who holds it. The token
// is diagnostic only; mutual exclusion comes from the flock itself.
func (s *Store) acquireExclusive(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	start := time.Now()
	locked, err := fl.TryLockContext(lockCtx, s.retryInterval)
	if err != nil || !locked {
		return nil, newLockTimeoutError(s.lockPath, s.lockTimeout, err)
	}
	s.log.WithField("wait", time.Since(start)).Debug("acquired scope lock")

	token := fmt.Sprintf("%s pid=%d\n", uuid.NewString(), os.Getpid())
	if werr := os.WriteFile(s.lockPath, []byte(token), 0o644); werr != nil {
		s.log.WithError(werr).Debug("could not record lock owner token")
	}

	return func() {
		if uerr := fl.Unlock(); uerr != nil {
			s.log.WithError(uerr).Warn("failed to release scope lock")
		}
	}, nil
}

// acquireShared takes the lock for reading. Readers exclude writers but
// not each other.
func (s *Store) acquireShared(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fl.TryRLockContext(lockCtx, s.retryInterval)
	if err != nil || !locked {
		return nil, newLockTimeoutError(s.lockPath, s.lockTimeout, err)
	}

	return func() {
		if uerr := fl.Unlock(); uerr != nil {
			s.log.WithError(uerr).Warn("failed to release scope lock")
		}
	}, nil
}
