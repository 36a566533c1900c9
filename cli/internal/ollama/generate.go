package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxResponseBytes caps how much of a generate response is read.
const maxResponseBytes = 1 << 20

var (
	// ErrTimeout marks a generation that exceeded its deadline.
	ErrTimeout = errors.New("ollama request timed out")
	// ErrMalformed marks a response body that is not valid JSON.
	ErrMalformed = errors.New("ollama response malformed")
)

// GenerationError is returned by Generate. Kind is one of ErrUnreachable,
// ErrTimeout or ErrMalformed and can be matched with errors.Is.
type GenerationError struct {
	Kind   error
	Model  string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "generate with %q: %v", e.Model, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports whether target is the error's Kind.
func (e *GenerationError) Is(target error) bool { return target == e.Kind }

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerateRequest is the body of POST /api/generate. Stream is always false.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

// Generate sends one non-streaming completion request and returns the
// "response" text field. Any valid JSON body without a string "response"
// (including arrays and scalars) yields "" and no error. A request cancelled
// by the caller returns an error matching context.Canceled; other failures are
// *GenerationError. There is no retry.
func (c *Client) Generate(ctx context.Context, model, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	payload, err := json.Marshal(GenerateRequest{Model: model, Prompt: prompt, System: system})
	if err != nil {
		return "", errors.Wrap(err, "encode generate request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "ollama generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if cancelled(ctx) {
			return "", errors.Wrap(ctx.Err(), "generate cancelled")
		}
		return "", &GenerationError{Kind: transportKind(ctx, err), Model: model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if cancelled(ctx) {
			return "", errors.Wrap(ctx.Err(), "generate cancelled")
		}
		return "", &GenerationError{Kind: transportKind(ctx, err), Model: model, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		genErr := &GenerationError{Kind: ErrUnreachable, Model: model, Status: resp.StatusCode}
		if msg := errorField(body); msg != "" {
			genErr.Err = errors.New(msg)
		}
		if resp.StatusCode == http.StatusNotFound {
			return "", errors.WithHint(genErr, fmt.Sprintf("Pull the model first: ollama pull %s", model))
		}
		return "", genErr
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &GenerationError{Kind: ErrMalformed, Model: model, Status: resp.StatusCode, Err: err}
	}
	obj, _ := decoded.(map[string]any)
	text, _ := obj["response"].(string)
	return text, nil
}

// cancelled reports whether the caller cancelled ctx, as opposed to the
// generate timeout expiring.
func cancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func transportKind(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnreachable
}

func errorField(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
