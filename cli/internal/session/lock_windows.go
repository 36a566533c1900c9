//go:build windows

package session

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// AcquireLock takes an exclusive lock on dir/commayte.lock (dir is normally
// the repository's .git directory). Non-blocking: if the lock is held,
// returns ErrLocked. On success the caller must call release.
func AcquireLock(dir string) (release func(), err error) {
	path := filepath.Join(dir, lockFilename)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "session lock: open %s", path)
	}
	handle := windows.Handle(f.Fd())
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(handle, flags, 0, 1, 0, new(windows.Overlapped)); err != nil {
		_ = f.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, ErrLocked
		}
		return nil, errors.Wrap(err, "session lock: LockFileEx")
	}
	return func() {
		_ = windows.UnlockFileEx(handle, 0, 1, 0, new(windows.Overlapped))
		_ = f.Close()
	}, nil
}
