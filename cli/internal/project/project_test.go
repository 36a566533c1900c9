package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetect_manifests(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		file string
		body string
		want Info
	}{
		{
			name: "cargo",
			file: "Cargo.toml",
			body: "[package]\nname = \"commayte\"\nversion = \"0.3.1\"\ndescription = \"AI commits\"\nkeywords = [\"git\", \"ai\"]\n",
			want: Info{Name: "commayte", Version: "0.3.1", Description: "AI commits", Type: "rust", Keywords: []string{"git", "ai"}, Manifest: "Cargo.toml"},
		},
		{
			name: "cargo_workspace_version",
			file: "Cargo.toml",
			body: "[package]\nname = \"member\"\nversion.workspace = true\n",
			want: Info{Name: "member", Type: "rust", Manifest: "Cargo.toml"},
		},
		{
			name: "package_json",
			file: "package.json",
			body: `{"name":"web","version":"1.2.0","description":"site","keywords":["react",""]}`,
			want: Info{Name: "web", Version: "1.2.0", Description: "site", Type: "nodejs", Keywords: []string{"react"}, Manifest: "package.json"},
		},
		{
			name: "package_json_string_keywords",
			file: "package.json",
			body: `{"name":"web","keywords":"react"}`,
			want: Info{Name: "web", Type: "nodejs", Manifest: "package.json"},
		},
		{
			name: "gradle",
			file: "build.gradle",
			body: "plugins { id 'java' }\ngroup = 'com.example'\nversion = \"2.0\"\ndescription='svc'\n",
			want: Info{Group: "com.example", Version: "2.0", Description: "svc", Type: "java", Manifest: "build.gradle"},
		},
		{
			name: "pom",
			file: "pom.xml",
			body: "<project><parent><version>9</version></parent><groupId>org.acme</groupId><name> api </name><version>1.0</version><description>d</description></project>",
			want: Info{Name: "api", Version: "1.0", Description: "d", Group: "org.acme", Type: "java", Manifest: "pom.xml"},
		},
		{
			name: "pyproject",
			file: "pyproject.toml",
			body: "[project]\nname = \"tool\"\nversion = \"0.1\"\ndescription = \"py\"\n",
			want: Info{Name: "tool", Version: "0.1", Description: "py", Type: "python", Manifest: "pyproject.toml"},
		},
		{
			name: "requirements",
			file: "requirements.txt",
			body: "requests\n",
			want: Info{Type: "python", Manifest: "requirements.txt"},
		},
		{
			name: "gomod",
			file: "go.mod",
			body: "module example.com/svc\n\ngo 1.22\n\nrequire github.com/x/y v1.0.0\n",
			want: Info{Name: "example.com/svc", GoVersion: "1.22", Type: "go", Manifest: "go.mod"},
		},
		{
			name: "composer",
			file: "composer.json",
			body: `{"name":"acme/app","description":"php app","version":"3"}`,
			want: Info{Name: "acme/app", Description: "php app", Type: "php", Manifest: "composer.json"},
		},
		{
			name: "gemfile",
			file: "Gemfile",
			body: "source 'https://rubygems.org'\n",
			want: Info{Type: "ruby", Manifest: "Gemfile"},
		},
		{
			name: "pubspec",
			file: "pubspec.yaml",
			body: "name: app\nversion: 1.0.0+1\ndescription: >\n  A Flutter app.\ntopics: [ui]\n",
			want: Info{Name: "app", Version: "1.0.0+1", Description: "A Flutter app.", Type: "dart", Keywords: []string{"ui"}, Manifest: "pubspec.yaml"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.body)
			assert.Equal(t, tt.want, Detect(dir))
		})
	}
}

func TestDetect_firstManifestWins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"core\"\n")
	writeFile(t, dir, "package.json", `{"name":"ui"}`)
	info := Detect(dir)
	assert.Equal(t, "core", info.Name)
	assert.Equal(t, "rust", info.Type)
}

func TestDetect_malformedManifestStopsSearch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{broken`)
	writeFile(t, dir, "go.mod", "module x\n")
	info := Detect(dir)
	assert.Empty(t, info.Type)
	assert.Empty(t, info.Manifest)
}

func TestDetect_toolingFlagsAndReadme(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM scratch\n")
	writeFile(t, dir, "docker-compose.yaml", "services: {}\n")
	writeFile(t, dir, ".github/workflows/ci.yml", "on: push\n")
	writeFile(t, dir, "README.md", "#  My Tool \n\ntext\n")
	info := Detect(dir)
	assert.Equal(t, Info{Name: "My Tool", HasDocker: true, HasDockerCompose: true, HasGitHubActions: true}, info)
}

func TestDetect_readmeDoesNotOverrideManifestName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/a\n")
	writeFile(t, dir, "README.md", "# Something Else\n")
	assert.Equal(t, "example.com/a", Detect(dir).Name)
}

func TestDetect_longReadmeTitleIgnored(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	long := make([]byte, 120)
	for i := range long {
		long[i] = 'x'
	}
	writeFile(t, dir, "README.md", "# "+string(long)+"\n")
	assert.True(t, Detect(dir).Empty())
}

func TestDetect_emptyDir(t *testing.T) {
	t.Parallel()
	info := Detect(t.TempDir())
	assert.True(t, info.Empty())
	assert.Equal(t, "", info.Context())
}

func TestInfo_Context(t *testing.T) {
	t.Parallel()
	info := Info{
		Name:             "svc",
		Version:          "1.0",
		Description:      "does things",
		Type:             "go",
		Keywords:         []string{"a", "b"},
		Group:            "g",
		GoVersion:        "1.24",
		HasDocker:        true,
		HasDockerCompose: true,
		HasGitHubActions: true,
	}
	want := "- Name: svc\n- Version: 1.0\n- Description: does things\n- Type: go\n" +
		"- Keywords: a, b\n- Group: g\n- Go Version: 1.24\n- Has Docker: true\n" +
		"- Has Docker Compose: true\n- Has GitHub Actions: true\n\n"
	assert.Equal(t, want, info.Context())

	assert.Equal(t, "- Type: ruby\n\n", Info{Type: "ruby"}.Context())
}
