package project

import (
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

func typeOnly(typ string) func([]byte, *Info) bool {
	return func(_ []byte, info *Info) bool {
		info.Type = typ
		return true
	}
}

func readCargo(data []byte, info *Info) bool {
	var m struct {
		Package struct {
			Name        string   `toml:"name"`
			Version     any      `toml:"version"` // string, or {workspace = true}
			Description string   `toml:"description"`
			Keywords    []string `toml:"keywords"`
		} `toml:"package"`
	}
	if _, err := toml.Decode(string(data), &m); err != nil {
		return false
	}
	info.Name = m.Package.Name
	info.Version, _ = m.Package.Version.(string)
	info.Description = m.Package.Description
	info.Keywords = nonEmpty(m.Package.Keywords)
	info.Type = "rust"
	return true
}

func readPyproject(data []byte, info *Info) bool {
	var m struct {
		Project struct {
			Name        string   `toml:"name"`
			Version     string   `toml:"version"`
			Description string   `toml:"description"`
			Keywords    []string `toml:"keywords"`
		} `toml:"project"`
	}
	if _, err := toml.Decode(string(data), &m); err != nil {
		return false
	}
	info.Name = m.Project.Name
	info.Version = m.Project.Version
	info.Description = m.Project.Description
	info.Keywords = nonEmpty(m.Project.Keywords)
	info.Type = "python"
	return true
}

// jsonManifest covers the fields shared by package.json and composer.json.
// Keywords is loosely typed because real-world files are not always arrays.
type jsonManifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Keywords    any    `json:"keywords"`
}

func readPackageJSON(data []byte, info *Info) bool {
	var m jsonManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	info.Name = m.Name
	info.Version = m.Version
	info.Description = m.Description
	info.Keywords = stringList(m.Keywords)
	info.Type = "nodejs"
	return true
}

func readComposer(data []byte, info *Info) bool {
	var m jsonManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	info.Name = m.Name
	info.Description = m.Description
	info.Type = "php"
	return true
}

// readGradle picks group, version and description assignments out of a
// Groovy build script.
func readGradle(data []byte, info *Info) bool {
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		switch strings.TrimSpace(key) {
		case "group":
			info.Group, found = val, true
		case "version":
			info.Version, found = val, true
		case "description":
			info.Description, found = val, true
		}
	}
	if found {
		info.Type = "java"
	}
	return found
}

func readPom(data []byte, info *Info) bool {
	var m struct {
		XMLName     xml.Name `xml:"project"`
		GroupID     string   `xml:"groupId"`
		Name        string   `xml:"name"`
		Version     string   `xml:"version"`
		Description string   `xml:"description"`
	}
	if err := xml.Unmarshal(data, &m); err != nil {
		return false
	}
	info.Name = strings.TrimSpace(m.Name)
	info.Version = strings.TrimSpace(m.Version)
	info.Description = strings.TrimSpace(m.Description)
	info.Group = strings.TrimSpace(m.GroupID)
	if info.Name == "" && info.Version == "" && info.Description == "" && info.Group == "" {
		return false
	}
	info.Type = "java"
	return true
}

func readGoMod(data []byte, info *Info) bool {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil || f.Module == nil {
		return false
	}
	info.Name = f.Module.Mod.Path
	if f.Go != nil {
		info.GoVersion = f.Go.Version
	}
	info.Type = "go"
	return true
}

func readPubspec(data []byte, info *Info) bool {
	var m struct {
		Name        string   `yaml:"name"`
		Version     string   `yaml:"version"`
		Description string   `yaml:"description"`
		Topics      []string `yaml:"topics"`
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return false
	}
	info.Name = m.Name
	info.Version = m.Version
	info.Description = strings.TrimSpace(m.Description)
	info.Keywords = nonEmpty(m.Topics)
	info.Type = "dart"
	return true
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
