// Package run wires one commit session together: read and filter the staged
// diff, build the prompt from the diff and project context, then either print
// a single suggestion or hand over to the interactive session controller.
// Used by the CLI and by tests.
package run

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"commayte/cli/internal/commitmsg"
	"commayte/cli/internal/config"
	"commayte/cli/internal/diff"
	"commayte/cli/internal/erruser"
	"commayte/cli/internal/minify"
	"commayte/cli/internal/ollama"
	"commayte/cli/internal/project"
	"commayte/cli/internal/prompt"
	"commayte/cli/internal/session"
	"commayte/cli/internal/sysinfo"
	"commayte/cli/internal/tokens"
	"commayte/cli/internal/trace"
	"commayte/cli/internal/ui"
)

// SystemPromptPath is where a repository can replace the default system
// instructions, relative to the repository root.
var SystemPromptPath = filepath.Join(".commayte", "system_prompt.txt")

// Repo is the part of *git.Repo a session needs.
type Repo interface {
	Root() string
	GitDir() string
	Branch() (string, error)
	StagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) (int, error)
}

// Options configures Run. Config, Repo, Client and Out are required; UI is
// required unless Print is set.
type Options struct {
	Config config.Config
	Repo   Repo
	Client commitmsg.Completer
	UI     session.UI
	// Out receives the header, the printed message and the status lines.
	Out io.Writer
	// Stderr receives warnings; nil discards them.
	Stderr io.Writer
	// TraceOut, when non-nil, receives the filtered entries, the prompt and
	// the raw model output. Used when --trace is set.
	TraceOut io.Writer
	Logger   *zap.Logger
	// Version is shown in the header.
	Version string
	// Print generates one message and writes it to Out without committing.
	Print bool
	// Copy also puts the printed message on the clipboard. Only with Print.
	Copy bool
	// Tier reports the machine's performance tier; nil detects it.
	Tier func(ctx context.Context) sysinfo.Tier
	// Clipboard writes text to the system clipboard; nil uses the real one.
	Clipboard func(text string) error
}

// Summary describes what Run did.
type Summary struct {
	// NoChanges is true when nothing reviewable was staged; no commit was attempted.
	NoChanges bool
	// Message is the printed message in Print mode.
	Message string
	// Result is the interactive session outcome (zero in Print mode).
	Result session.Result
}

// Run executes one session. Returned errors are user-facing (erruser) where
// the user can act on them.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Repo == nil || opts.Client == nil || opts.Out == nil {
		return Summary{}, errors.New("run: repo, client and output are required")
	}
	if !opts.Print && opts.UI == nil {
		return Summary{}, errors.New("run: interactive session needs a UI")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	tr := trace.New(opts.TraceOut)
	cfg := opts.Config

	if !opts.Print {
		release, err := session.AcquireLock(opts.Repo.GitDir())
		if errors.Is(err, session.ErrLocked) {
			return Summary{}, erruser.WithHint(
				erruser.New("Another commayte session is running in this repository.", err),
				"Finish or cancel the other session first.")
		}
		if err != nil {
			return Summary{}, err
		}
		defer release()
	}

	raw, err := opts.Repo.StagedDiff(ctx)
	if err != nil {
		return Summary{}, err
	}
	if cfg.MinifyDiff {
		raw = minify.Diff(raw)
	}
	patterns := append(diff.DefaultIgnorePatterns(), cfg.IgnorePatterns...)
	budget := Budget(cfg, func() sysinfo.Tier { return detectTier(ctx, opts.Tier, log) })
	traceEntries(tr, raw, patterns, budget)

	filtered := diff.Filter(raw, patterns, budget)
	if strings.TrimSpace(filtered) == "" {
		log.Info("nothing to commit", zap.Int("staged_bytes", len(raw)))
		ui.NoChanges(opts.Out)
		return Summary{NoChanges: true}, nil
	}

	info := project.Detect(opts.Repo.Root())
	projectCtx := info.Context()
	branch, err := opts.Repo.Branch()
	if err != nil {
		log.Warn("could not read branch", zap.Error(err))
		branch = ""
	}
	userPrompt := prompt.Build(filtered, projectCtx, prompt.Options{Branch: branch})
	system, err := prompt.LoadSystem(filepath.Join(opts.Repo.Root(), SystemPromptPath), projectCtx)
	if err != nil {
		return Summary{}, erruser.New("Could not read the repository system prompt.", err)
	}

	n := tokens.Estimate(system + "\n" + userPrompt)
	tr.Block("System prompt", system)
	tr.Block("Prompt", userPrompt)
	tr.Printf("Estimated prompt tokens: %d\n", n)
	if w := tokens.WarnIfOver(n, tokens.DefaultResponseReserve, tokens.DefaultContextLimit, tokens.DefaultWarnThreshold); w != "" {
		log.Warn("prompt near context limit", zap.Int("tokens", n))
		fmt.Fprintln(stderr, "Warning: "+w)
	}

	sug := &commitmsg.Suggester{
		Client:   &tracingCompleter{next: opts.Client, tr: tr},
		Model:    cfg.Model,
		System:   system,
		Prompt:   userPrompt,
		Decorate: cfg.Emoji,
		Logger:   log,
	}

	if opts.Print {
		msg, err := sug.Suggest(ctx)
		if err != nil {
			return Summary{}, generationError(err, cfg)
		}
		fmt.Fprintln(opts.Out, msg)
		if opts.Copy {
			write := opts.Clipboard
			if write == nil {
				write = clipboard.WriteAll
			}
			if err := write(msg); err != nil {
				log.Warn("clipboard write failed", zap.Error(err))
				fmt.Fprintln(stderr, "Warning: could not copy to clipboard: "+err.Error())
			}
		}
		return Summary{Message: msg}, nil
	}

	ui.Header(opts.Out, opts.Version, cfg.Model)
	ctrl := &session.Controller{
		Generator: sug,
		Committer: opts.Repo,
		UI:        opts.UI,
		Logger:    log,
		Decorate:  cfg.Emoji,
	}
	res, err := ctrl.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("generation cancelled")
		res, err = session.Result{Outcome: session.OutcomeCancelled}, nil
	}
	if err != nil {
		return Summary{}, generationError(err, cfg)
	}
	ui.Outcome(opts.Out, res)
	return Summary{Result: res}, nil
}

// Budget returns the diff budget: configured values win, and a zero value is
// taken from the performance tier, which is only queried when needed.
func Budget(cfg config.Config, tier func() sysinfo.Tier) diff.Budget {
	if cfg.MaxFileChars > 0 && cfg.MaxTotalChars > 0 {
		return diff.Budget{PerFile: cfg.MaxFileChars, Total: cfg.MaxTotalChars}
	}
	b := tier().Budget()
	if cfg.MaxFileChars > 0 {
		b.PerFile = cfg.MaxFileChars
	}
	if cfg.MaxTotalChars > 0 {
		b.Total = cfg.MaxTotalChars
	}
	return b
}

func detectTier(ctx context.Context, fn func(context.Context) sysinfo.Tier, log *zap.Logger) sysinfo.Tier {
	var t sysinfo.Tier
	if fn != nil {
		t = fn(ctx)
	} else {
		t = sysinfo.DetectTier(ctx, log)
	}
	log.Debug("performance tier", zap.Stringer("tier", t))
	return t
}

// generationError turns backend failures into messages with a next step.
func generationError(err error, cfg config.Config) error {
	switch {
	case errors.Is(err, context.Canceled):
		return erruser.New("Generation cancelled.", err)
	case errors.Is(err, ollama.ErrUnreachable):
		return erruser.WithHint(
			erruser.New(fmt.Sprintf("Could not reach Ollama at %s.", cfg.OllamaBaseURL), err),
			"Start Ollama with: ollama serve")
	case errors.Is(err, ollama.ErrTimeout):
		return erruser.WithHint(
			erruser.New("The model did not answer in time.", err),
			"Try a smaller model, or lower max_total_chars in .commayte.toml.")
	case errors.Is(err, ollama.ErrMalformed):
		return erruser.New("Ollama returned a response commayte could not read.", err)
	}
	return err
}

func traceEntries(tr *trace.Tracer, raw string, patterns []string, budget diff.Budget) {
	if !tr.Enabled() {
		return
	}
	tr.Section("Diff")
	tr.Printf("Budget: %d per file, %d total\n", budget.PerFile, budget.Total)
	for _, e := range diff.Entries(raw, patterns) {
		state := "kept"
		if !e.Included {
			state = "ignored"
		}
		path := e.Path
		if path == "" {
			path = "(unparsed header)"
		}
		tr.Printf("%-7s %s (%d lines)\n", state, path, len(e.Lines))
	}
}

// tracingCompleter records the raw model output before normalization.
type tracingCompleter struct {
	next commitmsg.Completer
	tr   *trace.Tracer
}

func (c *tracingCompleter) Generate(ctx context.Context, model, system, prompt string) (string, error) {
	out, err := c.next.Generate(ctx, model, system, prompt)
	if err == nil {
		c.tr.Block("Model output", out)
	}
	return out, err
}
