package commitmsg

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Completer produces raw text for a prompt. *ollama.Client implements it.
type Completer interface {
	Generate(ctx context.Context, model, system, prompt string) (string, error)
}

// Suggester asks a Completer for a commit message and normalizes the answer.
// Each call to Suggest sends a fresh request.
type Suggester struct {
	Client   Completer
	Model    string
	System   string
	Prompt   string
	Decorate bool
	Logger   *zap.Logger
}

// Suggest returns a normalized candidate. Output that does not survive
// normalization is replaced by FallbackMessage; errors from the Completer are
// returned unchanged and are not retried.
func (s *Suggester) Suggest(ctx context.Context) (string, error) {
	if s.Client == nil {
		return "", errors.New("commitmsg: nil client")
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	raw, err := s.Client.Generate(ctx, s.Model, s.System, s.Prompt)
	if err != nil {
		return "", err
	}
	msg := Normalize(raw, s.Decorate)
	if msg == "" {
		log.Warn("model output is not a conventional commit, using fallback",
			zap.String("raw", firstLine(raw)))
		msg = FallbackMessage(s.Decorate)
	}
	log.Debug("commit message candidate", zap.String("message", msg))
	return msg, nil
}
