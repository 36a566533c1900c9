package git

import (
	"os"
	"runtime"
)

// minimalEnv is the environment for read-only git subprocesses: enough to find
// git and the user's global config, with prompts and pagers disabled.
func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat", // output is captured
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	return env
}

// commitEnv keeps the full user environment so hooks, signing agents and
// identity settings behave as they do for a manual `git commit`.
func commitEnv() []string {
	return append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
}
