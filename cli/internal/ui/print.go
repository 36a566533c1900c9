package ui

import (
	"fmt"
	"io"

	"commayte/cli/internal/session"
)

// Header prints the banner shown when a session starts.
func Header(w io.Writer, version, model string) {
	fmt.Fprintf(w, "%s (using %s)\n\n", titleStyle.Render("> Commayte (v"+version+")"), modelStyle.Render(model))
}

// NoChanges prints the notice for an empty staged diff.
func NoChanges(w io.Writer) {
	fmt.Fprintln(w, warnStyle.Render("⚠️  No changes to commit."))
}

// Outcome prints how a session ended.
func Outcome(w io.Writer, res session.Result) {
	switch res.Outcome {
	case session.OutcomeCommitted:
		fmt.Fprintln(w, successStyle.Render("✅ Commit successful!"))
		fmt.Fprintf(w, "📄 Message: %s\n", res.Message)
	case session.OutcomeCommitWarning:
		fmt.Fprintln(w, warnStyle.Render("⚠️ Commit completed with warnings."))
		fmt.Fprintf(w, "📄 Message: %s\n", res.Message)
		fmt.Fprintf(w, "🔍 Exit code: %d\n", res.ExitCode)
	case session.OutcomeCommitFailed:
		fmt.Fprintln(w, failStyle.Render("❌ Git commit failed."))
		fmt.Fprintf(w, "📄 Message: %s\n", res.Message)
		if res.Err != nil {
			fmt.Fprintln(w, hintStyle.Render(res.Err.Error()))
		}
	case session.OutcomeCancelled:
		fmt.Fprintln(w, errorStyle.Render("❌ Cancelled by user"))
	}
}
