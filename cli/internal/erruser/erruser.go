// Package erruser provides errors whose Error() returns only a user-facing
// message; the cause is available via Unwrap() for Details or logs, and an
// optional remediation hint travels with the error for the CLI to print.
package erruser

import (
	"github.com/cockroachdb/errors"
)

// Err holds a user-facing message and an optional cause for debugging.
// Error() returns only Msg so the primary line never contains command names
// or exit codes; use Unwrap() for technical detail.
type Err struct {
	Msg string
	Err error
}

// Error returns the user-facing message only.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Unwrap returns the underlying error for Details or logging.
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an error with the given user-facing message. If err is non-nil,
// it is wrapped and available via Unwrap() so callers can print "Details: %v".
// If err is nil, returns a simple error with just msg (no Unwrap).
func New(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return &Err{Msg: msg, Err: err}
}

// WithHint attaches a remediation hint (e.g. "Start the server with: ollama serve").
// The message returned by Error() is unchanged; Hints collects it back.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return errors.WithHint(err, hint)
}

// Hints returns every hint attached anywhere in err's chain, one per line.
// Empty when there are none.
func Hints(err error) string {
	if err == nil {
		return ""
	}
	return errors.FlattenHints(err)
}

// Details returns the technical cause behind a user-facing error, or nil when
// err carries no cause. Hint wrappers are looked through.
func Details(err error) error {
	var ue *Err
	if errors.As(err, &ue) {
		return ue.Err
	}
	return nil
}
