// Package prompt builds the generation prompt for a filtered diff and the
// system instruction sent alongside it.
package prompt

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"commayte/cli/internal/commitmsg"
)

const (
	// DiffStart and DiffEnd fence the diff inside the prompt.
	DiffStart = "--- START OF DIFF ---"
	DiffEnd   = "--- END OF DIFF ---"
	// Cue ends the prompt; the model's answer follows it.
	Cue = "Commit message:"

	// MaxDescriptionChars is the description length the model is asked to stay under.
	MaxDescriptionChars = 50
)

// DefaultSystemPrompt asks for exactly one conventional commit line.
const DefaultSystemPrompt = "You are a concise AI assistant that only returns single-line Git commit messages " +
	"and that follows the conventional commit format https://www.conventionalcommits.org/en/v1.0.0/. " +
	"Never include explanations."

var typeMeanings = map[string]string{
	"feat":     "new features or functionality",
	"fix":      "bug fixes or error corrections",
	"chore":    "maintenance, dependencies, config changes",
	"docs":     "documentation updates",
	"style":    "formatting, whitespace, code style (Do not use style unless the change is purely formatting)",
	"refactor": "code restructuring without changing behavior",
	"test":     "adding or updating tests",
	"perf":     "performance improvements",
}

// Options adds optional metadata to the prompt.
type Options struct {
	Branch string // current branch; omitted when empty
}

// Build returns the prompt for diff. projectContext is the "- Key: value"
// block from project.Info.Context and may be empty. diff is embedded verbatim.
func Build(diff, projectContext string, opts Options) string {
	var b strings.Builder
	b.WriteString("Analyze the git diff below and generate a conventional commit message.\n\n")
	b.WriteString("Instructions:\n\n")
	b.WriteString("1. Look at each file name, added lines (+), and removed lines (-)\n")
	b.WriteString("2. Determine the type based on the changes:\n")
	b.WriteString("    Types: " + strings.Join(commitmsg.Types(), ", ") + "\n")
	for _, t := range commitmsg.Types() {
		b.WriteString("        - " + t + ": " + typeMeanings[t] + "\n")
	}
	b.WriteString("3. Determine scope from the file path\n")
	b.WriteString("4. Write a short, concise description based on what was actually changed under " +
		strconv.Itoa(MaxDescriptionChars) + " characters\n")
	b.WriteString("Use Format: type(scope): description\n\n")

	if ctx := strings.TrimSpace(projectContext); ctx != "" {
		b.WriteString("Project:\n")
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}
	if branch := strings.TrimSpace(opts.Branch); branch != "" {
		b.WriteString("Branch: " + branch + "\n\n")
	}

	b.WriteString(DiffStart + "\n")
	b.WriteString(diff)
	b.WriteString("\n\n" + DiffEnd + "\n")
	b.WriteString(Cue)
	return b.String()
}

// System returns DefaultSystemPrompt with the project context appended.
func System(projectContext string) string {
	return withContext(DefaultSystemPrompt, projectContext)
}

// LoadSystem is System with the instruction text read from path when that file
// exists. A missing file (or empty path) gives the default with nil error; any
// other read error is returned so the user can see it.
func LoadSystem(path, projectContext string) (string, error) {
	if path == "" {
		return System(projectContext), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return System(projectContext), nil
		}
		return "", errors.Wrap(err, "read system prompt")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return System(projectContext), nil
	}
	return withContext(text, projectContext), nil
}

func withContext(instructions, projectContext string) string {
	return instructions + " Project context: \n\n" + strings.TrimSpace(projectContext)
}
