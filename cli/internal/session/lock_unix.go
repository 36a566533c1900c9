//go:build unix

package session

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// AcquireLock takes an exclusive advisory lock on dir/commayte.lock (dir is
// normally the repository's .git directory). Non-blocking: if the lock is
// held, returns ErrLocked. On success the caller must call release.
func AcquireLock(dir string) (release func(), err error) {
	path := filepath.Join(dir, lockFilename)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "session lock: open %s", path)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, errors.Wrap(err, "session lock: flock")
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
