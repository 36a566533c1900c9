// Package project sniffs the repository root for a build manifest and
// summarizes it (name, version, ecosystem, tooling) as prompt context.
// Manifests are tried in a fixed order and the first one present wins;
// Docker, Compose and GitHub Actions flags and the README title fallback
// apply regardless.
package project

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// maxTitleLen bounds the README title used as a name fallback.
const maxTitleLen = 100

// Info is what Detect learned about a project. Zero fields are unknown.
type Info struct {
	Name        string
	Version     string
	Description string
	Type        string // rust, nodejs, java, python, go, php, ruby, dart
	Keywords    []string
	Group       string
	GoVersion   string

	HasDocker        bool
	HasDockerCompose bool
	HasGitHubActions bool

	Manifest string // file the fields were read from, "" when none
}

// manifest reads one kind of build file. read returns false when the file
// exists but yields nothing usable.
type manifest struct {
	file string
	read func(data []byte, info *Info) bool
}

var manifests = []manifest{
	{"Cargo.toml", readCargo},
	{"package.json", readPackageJSON},
	{"build.gradle", readGradle},
	{"pom.xml", readPom},
	{"pyproject.toml", readPyproject},
	{"requirements.txt", typeOnly("python")},
	{"go.mod", readGoMod},
	{"composer.json", readComposer},
	{"Gemfile", typeOnly("ruby")},
	{"pubspec.yaml", readPubspec},
}

// Detect inspects dir. Unreadable or malformed files are skipped; Detect
// never fails.
func Detect(dir string) Info {
	var info Info
	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(dir, m.file))
		if err != nil {
			continue
		}
		if m.read(data, &info) {
			info.Manifest = m.file
		}
		break
	}

	info.HasDocker = exists(filepath.Join(dir, "Dockerfile"))
	info.HasDockerCompose = exists(filepath.Join(dir, "docker-compose.yml")) ||
		exists(filepath.Join(dir, "docker-compose.yaml"))
	info.HasGitHubActions = exists(filepath.Join(dir, ".github", "workflows"))

	if info.Name == "" {
		info.Name = readmeTitle(filepath.Join(dir, "README.md"))
	}
	return info
}

// Empty reports whether nothing was detected.
func (i Info) Empty() bool {
	return i.Name == "" && i.Version == "" && i.Description == "" && i.Type == "" &&
		len(i.Keywords) == 0 && i.Group == "" && i.GoVersion == "" &&
		!i.HasDocker && !i.HasDockerCompose && !i.HasGitHubActions
}

// Context renders the known fields as "- Key: value" lines followed by a
// blank line, or "" when nothing is known.
func (i Info) Context() string {
	if i.Empty() {
		return ""
	}
	var b strings.Builder
	line := func(key, val string) {
		if val != "" {
			b.WriteString("- " + key + ": " + val + "\n")
		}
	}
	line("Name", i.Name)
	line("Version", i.Version)
	line("Description", i.Description)
	line("Type", i.Type)
	line("Keywords", strings.Join(i.Keywords, ", "))
	line("Group", i.Group)
	line("Go Version", i.GoVersion)
	if i.HasDocker {
		line("Has Docker", "true")
	}
	if i.HasDockerCompose {
		line("Has Docker Compose", "true")
	}
	if i.HasGitHubActions {
		line("Has GitHub Actions", "true")
	}
	b.WriteByte('\n')
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readmeTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ""
	}
	title := strings.TrimSpace(strings.TrimLeft(sc.Text(), "#"))
	if len(title) >= maxTitleLen {
		return ""
	}
	return title
}
