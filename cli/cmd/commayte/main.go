package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"commayte/cli/internal/config"
	"commayte/cli/internal/erruser"
	"commayte/cli/internal/git"
	"commayte/cli/internal/lineedit"
	"commayte/cli/internal/logger"
	"commayte/cli/internal/ollama"
	"commayte/cli/internal/run"
	"commayte/cli/internal/sysinfo"
	"commayte/cli/internal/ui"
	"commayte/cli/internal/update"
	"commayte/cli/internal/version"
)

// errExit is an error that carries an exit code for the CLI. Use errors.As to detect it.
type errExit int

func (e errExit) Error() string {
	return "exit " + strconv.Itoa(int(e))
}

// Output writers. Tests replace them to capture output.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// updateAPIBase is the GitHub API root used by "commayte update"; tests point it at a local server.
var updateAPIBase = update.DefaultAPIBase

// globalConfigPath is passed to config.Load; empty means the default location.
var globalConfigPath = ""

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI. It is exported for testing.
func Run() int {
	return runCLI(os.Args[1:])
}

func runCLI(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		var exitErr errExit
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		printError(stderr, err)
		if errors.Is(err, ollama.ErrUnreachable) {
			return 2
		}
		return 1
	}
	return 0
}

// printError writes the user message, the technical cause and any hints.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error: "+err.Error())
	if d := erruser.Details(err); d != nil {
		fmt.Fprintf(w, "Details: %v\n", d)
	}
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintln(w, "Hint: "+h)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commayte",
		Short: "Generate conventional commit messages from staged changes with a local model",
		Long: "commayte reads the staged diff, asks a local Ollama model for a conventional\n" +
			"commit message, and lets you accept, edit or regenerate it before committing.",
		Version: version.String(),
		Args:    cobra.NoArgs,
		RunE:    runRoot,
	}
	pf := cmd.PersistentFlags()
	pf.String("model", "", "Ollama model to use (overrides config and env)")
	pf.String("ollama-base-url", "", "Ollama API root (overrides config and env)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("verbose", false, "Also write debug logs to stderr")
	pf.Bool("no-color", false, "Disable colour output")

	f := cmd.Flags()
	f.Bool("emoji", false, "Prefix the message with a glyph for its type")
	f.Bool("no-emoji", false, "Never prefix the message with a glyph")
	f.Int("max-file-chars", 0, "Per-file diff budget in characters (0 = from performance tier)")
	f.Int("max-total-chars", 0, "Total diff budget in characters (0 = from performance tier)")
	f.Bool("minify", false, "Collapse indentation in hunks of brace languages before budgeting")
	f.Bool("print", false, "Print one generated message to stdout and exit without committing")
	f.Bool("copy", false, "With --print, also copy the message to the clipboard")
	f.Bool("trace", false, "Print internal steps to stderr (filtered files, prompt, raw model output)")
	cmd.MarkFlagsMutuallyExclusive("emoji", "no-emoji")
	return cmd
}

// overridesFromFlags maps flags the user actually set to config overrides.
// Returns nil when none were set.
func overridesFromFlags(fs *pflag.FlagSet) *config.Overrides {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	o := &config.Overrides{}
	set := false
	if changed("model") {
		v, _ := fs.GetString("model")
		o.Model, set = &v, true
	}
	if changed("ollama-base-url") {
		v, _ := fs.GetString("ollama-base-url")
		o.OllamaBaseURL, set = &v, true
	}
	if changed("log-level") {
		v, _ := fs.GetString("log-level")
		o.LogLevel, set = &v, true
	}
	if changed("emoji") {
		v, _ := fs.GetBool("emoji")
		o.Emoji, set = &v, true
	}
	if changed("no-emoji") {
		v, _ := fs.GetBool("no-emoji")
		v = !v
		o.Emoji, set = &v, true
	}
	if changed("minify") {
		v, _ := fs.GetBool("minify")
		o.MinifyDiff, set = &v, true
	}
	if changed("max-file-chars") {
		v, _ := fs.GetInt("max-file-chars")
		o.MaxFileChars, set = &v, true
	}
	if changed("max-total-chars") {
		v, _ := fs.GetInt("max-total-chars")
		o.MaxTotalChars, set = &v, true
	}
	if !set {
		return nil
	}
	return o
}

// loadConfig resolves the repository root (optional) and loads configuration.
func loadConfig(cmd *cobra.Command, repoRoot string) (*config.Config, error) {
	return config.Load(cmd.Context(), config.LoadOptions{
		RepoRoot:         repoRoot,
		GlobalConfigPath: globalConfigPath,
		Overrides:        overridesFromFlags(cmd.Flags()),
	})
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, func()) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log, cleanup := logger.New(logger.Options{Level: cfg.LogLevel, Verbose: verbose})
	for _, w := range cfg.Warnings {
		log.Warn("config file skipped", zap.String("reason", w))
		fmt.Fprintln(stderr, "Warning: "+w)
	}
	return log, cleanup
}

func runRoot(cmd *cobra.Command, _ []string) error {
	printOnly, _ := cmd.Flags().GetBool("print")
	copyMsg, _ := cmd.Flags().GetBool("copy")
	traceOn, _ := cmd.Flags().GetBool("trace")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if copyMsg && !printOnly {
		return erruser.New("--copy only works together with --print.", nil)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return erruser.New("Could not determine current directory.", err)
	}
	repo, err := git.Open(cwd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, repo.Root())
	if err != nil {
		return err
	}
	log, cleanup := newLogger(cmd, cfg)
	defer cleanup()
	ui.Setup(noColor)

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if !printOnly && !interactive {
		return erruser.WithHint(
			erruser.New("The interactive session needs a terminal.", nil),
			"Use --print to write the message to stdout instead.")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := run.Options{
		Config:  *cfg,
		Repo:    repo,
		Client:  ollama.NewClient(cfg.OllamaBaseURL, nil),
		Out:     stdout,
		Stderr:  stderr,
		Logger:  log,
		Version: version.String(),
		Print:   printOnly,
		Copy:    copyMsg,
	}
	if !printOnly {
		opts.UI = &ui.Console{
			In:     os.Stdin,
			Out:    stdout,
			Term:   lineedit.TTY{Fd: int(os.Stdin.Fd())},
			Cancel: cancel,
		}
	}
	if traceOn {
		opts.TraceOut = stderr
	}
	_, err = run.Run(ctx, opts)
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the commayte version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "commayte %s\n", version.String())
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check GitHub for a newer release",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	repoRoot := ""
	if cwd, err := os.Getwd(); err == nil {
		if r, e := git.RepoRoot(cwd); e == nil {
			repoRoot = r
		}
	}
	cfg, err := loadConfig(cmd, repoRoot)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "🔍 Checking for updates...")
	checker := &update.Checker{APIBase: updateAPIBase, Repo: cfg.UpdateRepo}
	st, err := checker.Check(cmd.Context(), version.Version)
	if err != nil {
		return erruser.New("Could not check for updates.", err)
	}
	if !st.Available {
		fmt.Fprintf(stdout, "✅ You're running the latest version (%s)\n", version.String())
		return nil
	}
	fmt.Fprintf(stdout, "✨ New version available: v%s\n", st.Latest.Version())
	if st.Latest.Name != "" {
		fmt.Fprintf(stdout, "📝 Release notes: %s\n", st.Latest.Name)
	}
	if st.Latest.HTMLURL != "" {
		fmt.Fprintf(stdout, "🔗 %s\n", st.Latest.HTMLURL)
	}
	return nil
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Verify environment (Git, Ollama, model, performance tier)",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	repoRoot := ""
	if cwd, err := os.Getwd(); err == nil {
		if r, e := git.RepoRoot(cwd); e == nil {
			repoRoot = r
		}
	}
	cfg, err := loadConfig(cmd, repoRoot)
	if err != nil {
		return err
	}
	log, cleanup := newLogger(cmd, cfg)
	defer cleanup()

	failed := false
	tier := sysinfo.DefaultTier
	if specs, err := sysinfo.Detect(ctx); err != nil {
		log.Warn("hardware detection failed", zap.Error(err))
		fmt.Fprintf(stdout, "System: unknown (%v); using %s tier\n", err, tier)
	} else {
		tier = specs.Tier
		fmt.Fprintf(stdout, "System: %s, %d cores (%s), %d GB memory\n", specs.OS, specs.Cores, specs.CPUModel, specs.MemoryGB)
		fmt.Fprintf(stdout, "Performance tier: %s\n", tier)
	}
	b := run.Budget(*cfg, func() sysinfo.Tier { return tier })
	fmt.Fprintf(stdout, "Diff budget: %d per file, %d total\n", b.PerFile, b.Total)

	if path, ok := git.Available(); ok {
		fmt.Fprintf(stdout, "Git OK (%s)\n", path)
	} else {
		fmt.Fprintln(stdout, "Git not found on PATH")
		failed = true
	}

	client := ollama.NewClient(cfg.OllamaBaseURL, nil)
	result, err := client.Check(ctx, cfg.Model)
	if err != nil {
		if errors.Is(err, ollama.ErrUnreachable) {
			fmt.Fprintf(stderr, "Ollama unreachable at %s. Is the server running? For local: ollama serve.\n", cfg.OllamaBaseURL)
			fmt.Fprintf(stderr, "Details: %v\n", err)
			return errExit(2)
		}
		fmt.Fprintln(stderr, err.Error())
		return errExit(1)
	}
	fmt.Fprintln(stdout, "Ollama OK")
	if !result.ModelPresent {
		fmt.Fprintf(stderr, "Model %q not found. Pull it with: ollama pull %s\n", cfg.Model, cfg.Model)
		return errExit(1)
	}
	fmt.Fprintf(stdout, "Model: %s\n", cfg.Model)
	if failed {
		return errExit(1)
	}
	return nil
}
