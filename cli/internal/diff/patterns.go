package diff

import "strings"

// defaultIgnorePatterns lists paths that add noise to a commit prompt:
// dependency manifests and lock files, vendored and build output, editor and
// OS artifacts, secrets, model weights, databases, media and coverage reports.
var defaultIgnorePatterns = []string{
	// Lock files and dependency manifests
	".lock", ".lockfile", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"Cargo.lock", "Gemfile.lock", "composer.lock", "poetry.lock", "Pipfile.lock",
	"requirements.txt", "requirements-dev.txt", "pyproject.toml", "setup.py",
	"setup.cfg", "package.json", "bun.lockb", "go.mod", "go.sum", "Pipfile",
	"mix.lock", "Gemfile", "composer.json", "pubspec.lock", "Podfile.lock",
	"Cartfile.resolved", "Pods/", "node_modules/", "vendor/",
	"bower_components/", "jspm_packages/",

	// Build output and binaries
	"target/", "dist/", "build/", "out/", "bin/", "obj/", "Debug/", "Release/",
	"x64/", "x86/", "*.o", "*.obj", "*.exe", "*.dll", "*.so", "*.dylib", "*.a",
	"*.lib", "*.class", "*.jar", "*.war", "*.ear", "*.pyc", "__pycache__/",
	"*.pyo", "*.pyd", "*.egg", "*.egg-info/", "*.whl", "*.tar.gz", "*.zip",
	"*.rar", "*.7z",

	// Editors and IDEs
	".vscode/", ".idea/", "*.swp", "*.swo", "*~", ".DS_Store", "Thumbs.db",
	"desktop.ini", ".vs/", "*.suo", "*.user", "*.userosscache",
	"*.sln.docstates", "*.userprefs", "*.pidb", "*.booproj", "*.svd", "*.pdb",
	"*.mdb", "*.opendb", "*.VC.db", "*.VC.VC.opendb",

	// Logs and temporary files
	"*.log", "*.tmp", "*.temp", "*.cache", "*.bak", "*.backup", "*.old",
	"*.orig", "*.rej", ".fuse_hidden*", ".Trash-*", ".nfs*",

	// Environment and local settings
	".env", ".env.local", ".env.development", ".env.test", ".env.production",
	".env.example", ".env.template", "config.local.*", "settings.local.*",

	// Model weights
	"models/", "*.gguf", "*.bin", "*.safetensors", "*.pt", "*.pth", "*.onnx",
	"*.tflite", "*.h5", "*.pb", "*.ckpt", "*.weights", "*.model",

	// Databases
	"*.db", "*.sqlite", "*.sqlite3", "*.accdb",

	// Git metadata
	".git/", ".gitignore", ".gitattributes", ".gitmodules", ".gitkeep",
	".git-blame*",

	// Documents, media and archives
	"*.pdf", "*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx", "*.jpg",
	"*.jpeg", "*.png", "*.gif", "*.bmp", "*.svg", "*.ico", "*.mp3", "*.mp4",
	"*.avi", "*.mov", "*.wmv", "*.flv", "*.webm", "*.mkv", "*.tar", "*.gz",

	// OS artifacts
	".DS_Store?", "._*", ".Spotlight-V100", ".Trashes", "ehthumbs.db",
	"$RECYCLE.BIN/", "*.lnk",

	// Coverage and test reports
	"coverage/", "*.lcov", "*.coverage", "htmlcov/", ".coverage",
	"coverage.xml", "junit.xml", "test-results/", "reports/", "*.report",
	"*.out",

	// Third-party trees
	"packages/", "lib/", "libs/", "deps/", "dependencies/", "third_party/",
	"third-party/", "external/", "externals/",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore list.
func DefaultIgnorePatterns() []string {
	return append([]string(nil), defaultIgnorePatterns...)
}

// Ignored reports whether path matches any of patterns. A pattern starting
// with '*' matches as a suffix, one ending in '/' matches as a path prefix
// (".git/" only matches the .git directory itself), anything else matches as a
// substring.
func Ignored(path string, patterns []string) bool {
	for _, p := range patterns {
		if matches(path, p) {
			return true
		}
	}
	return false
}

func matches(path, pattern string) bool {
	if pattern == "" {
		return false
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(path, suffix)
	}
	if dir, ok := strings.CutSuffix(pattern, "/"); ok {
		if dir == ".git" {
			return path == ".git" || strings.HasPrefix(path, ".git/")
		}
		return strings.HasPrefix(path, dir)
	}
	return strings.Contains(path, pattern)
}
