//go:build unix

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	release, err := AcquireLock(dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, lockFilename))
	require.NoError(t, err)

	_, err = AcquireLock(dir)
	assert.ErrorIs(t, err, ErrLocked)

	release()
	release2, err := AcquireLock(dir)
	require.NoError(t, err)
	release2()
}

func TestAcquireLock_missingDir(t *testing.T) {
	t.Parallel()
	_, err := AcquireLock(filepath.Join(t.TempDir(), "does", "not", "exist"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}
