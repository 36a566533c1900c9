package session

import "github.com/cockroachdb/errors"

const lockFilename = "commayte.lock"

// ErrLocked indicates another commayte session holds the repository lock.
var ErrLocked = errors.New("another commayte session is active in this repository")
