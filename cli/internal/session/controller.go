// Package session runs one interactive commit: generate a candidate, let the
// user accept, edit, regenerate or cancel it, then commit. It also provides
// the per-repository lock that keeps two sessions from interleaving.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"commayte/cli/internal/commitmsg"
	"commayte/cli/internal/git"
	"commayte/cli/internal/lineedit"
)

// State is a step of the session.
type State int

const (
	Generating State = iota
	Presenting
	EditingInput
	ConfirmingEdit
	Accepted
	Cancelled
)

var stateNames = [...]string{"generating", "presenting", "editing", "confirming-edit", "accepted", "cancelled"}

func (s State) String() string {
	if s < Generating || s > Cancelled {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Choice is the answer to the candidate menu.
type Choice int

const (
	ChoiceAccept Choice = iota
	ChoiceEdit
	ChoiceRegenerate
	ChoiceCancel
)

// Confirmation is the answer to the edited-message menu.
type Confirmation int

const (
	ConfirmUse Confirmation = iota
	ConfirmEditAgain
	ConfirmCancel
)

// Level grades a notice shown to the user.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// UI is the terminal side of a session.
type UI interface {
	// Busy shows label while fn runs and returns fn's error.
	Busy(label string, fn func() error) error
	Present(msg string) (Choice, error)
	// Edit returns lineedit.ErrInterrupted when the user aborts editing.
	Edit(seed string) (string, error)
	ConfirmEdit(msg string) (Confirmation, error)
	Notify(level Level, msg string)
}

// Generator produces a fresh normalized candidate on every call.
type Generator interface {
	Suggest(ctx context.Context) (string, error)
}

// Committer commits with a message and reports git's exit code. A non-nil
// error means the commit could not be run at all.
type Committer interface {
	Commit(ctx context.Context, message string) (int, error)
}

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeCommitted     Outcome = iota // git exited 0
	OutcomeCommitWarning                // git ran and exited non-zero
	OutcomeCommitFailed                 // git could not be started
	OutcomeCancelled
)

// Result describes a finished session.
type Result struct {
	Outcome  Outcome
	Message  string // message committed or attempted; "" when cancelled
	ExitCode int
	Err      error // set for OutcomeCommitFailed
}

// Controller drives the session state machine. The candidate it presents is
// always the latest normalized message; editing never regenerates.
type Controller struct {
	Generator Generator
	Committer Committer
	UI        UI
	Logger    *zap.Logger
	Decorate  bool
}

// Session is the mutable state of one interactive run. It is owned by
// Controller.Run and discarded when the run ends; the terminal mode is owned
// by the line editor, not tracked here.
type Session struct {
	State State
	// Candidate is the most recently normalized message shown to the user.
	Candidate string
	// Draft is the text being edited; it survives "edit again".
	Draft string
	// ShouldRegenerate is set when the next Generating step must ask for a
	// new candidate. Returning from an interrupted edit leaves it unset.
	ShouldRegenerate bool
}

// Run executes the session. The error is non-nil only for failures that end
// the session abnormally (generation errors, terminal I/O); cancellations and
// commit problems are reported through Result.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{State: Generating, ShouldRegenerate: true}
	for {
		log.Debug("session state", zap.Stringer("state", s.State))
		switch s.State {
		case Generating:
			if s.ShouldRegenerate {
				msg, err := c.generate(ctx)
				if err != nil {
					return Result{}, err
				}
				s.Candidate = msg
				s.ShouldRegenerate = false
			}
			s.State = Presenting

		case Presenting:
			choice, err := c.UI.Present(s.Candidate)
			if err != nil {
				return Result{}, errors.Wrap(err, "menu")
			}
			switch choice {
			case ChoiceAccept:
				s.State = Accepted
			case ChoiceEdit:
				s.Draft = s.Candidate
				s.State = EditingInput
			case ChoiceRegenerate:
				s.ShouldRegenerate = true
				s.State = Generating
			case ChoiceCancel:
				s.State = Cancelled
			default:
				return Result{}, errors.Newf("unknown menu choice %d", choice)
			}

		case EditingInput:
			raw, err := c.UI.Edit(s.Draft)
			if errors.Is(err, lineedit.ErrInterrupted) {
				c.UI.Notify(LevelInfo, "Edit cancelled, keeping the previous message.")
				s.State = Presenting
				continue
			}
			if err != nil {
				return Result{}, errors.Wrap(err, "edit")
			}
			edited := commitmsg.Normalize(raw, false)
			if edited == "" {
				c.UI.Notify(LevelWarn, "Use a conventional commit type: "+typeList()+".")
				s.Draft = raw
				continue
			}
			s.Draft = edited
			s.State = ConfirmingEdit

		case ConfirmingEdit:
			conf, err := c.UI.ConfirmEdit(s.Draft)
			if err != nil {
				return Result{}, errors.Wrap(err, "menu")
			}
			switch conf {
			case ConfirmUse:
				s.Candidate = s.Draft
				s.State = Accepted
			case ConfirmEditAgain:
				s.State = EditingInput
			case ConfirmCancel:
				s.State = Cancelled
			default:
				return Result{}, errors.Newf("unknown confirmation %d", conf)
			}

		case Accepted:
			return c.commit(ctx, log, s.Candidate), nil

		case Cancelled:
			log.Info("session cancelled")
			return Result{Outcome: OutcomeCancelled}, nil
		}
	}
}

func (c *Controller) generate(ctx context.Context) (string, error) {
	var msg string
	err := c.UI.Busy("Generating commit message...", func() error {
		var err error
		msg, err = c.Generator.Suggest(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = commitmsg.FallbackMessage(c.Decorate)
	}
	return msg, nil
}

func (c *Controller) commit(ctx context.Context, log *zap.Logger, msg string) Result {
	var code int
	err := c.UI.Busy("Committing changes...", func() error {
		var err error
		code, err = c.Committer.Commit(ctx, msg)
		return err
	})
	switch {
	case err != nil:
		log.Error("git commit could not run", zap.String("message", msg), zap.Error(err))
		return Result{Outcome: OutcomeCommitFailed, Message: msg, ExitCode: code, Err: err}
	case code != 0:
		log.Warn("git commit exited non-zero", zap.String("message", msg), zap.Int("exit_code", code))
		return Result{Outcome: OutcomeCommitWarning, Message: msg, ExitCode: code}
	default:
		log.Info("committed", zap.String("message", msg))
		return Result{Outcome: OutcomeCommitted, Message: msg}
	}
}

func typeList() string {
	return strings.Join(commitmsg.Types(), ", ")
}

// Compile-time checks that the production collaborators fit.
var (
	_ Generator = (*commitmsg.Suggester)(nil)
	_ Committer = (*git.Repo)(nil)
)
