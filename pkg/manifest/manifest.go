// Package manifest renders the target pyproject.toml for a migrated module.
//
// Rendering is text-level rather than TOML marshaling: the workspace tool
// expects a fixed block order and the uv-conventional inline-table layout,
// neither of which a generic encoder guarantees. Every rendered document is
// verified to parse as TOML before it is returned.
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/adhd-framework/uvmigrate/pkg/deps"
	"github.com/adhd-framework/uvmigrate/pkg/layer"
)

// Input carries everything Render needs. Render is a pure function of this
// value: no filesystem or network access, so previews are exact.
type Input struct {
	// ModuleName is the original (underscored) module directory name.
	ModuleName string
	// Version is the declared semantic version.
	Version string
	// Type is the declared module type, used in the description line.
	Type string
	// PythonRequires is the requires-python constraint.
	PythonRequires string
	// Decision is the inferred layer.
	Decision layer.Decision
	// Entries is the ordered dependency list from the translator.
	Entries []deps.Entry
}

// Render assembles the manifest text in fixed block order: project,
// framework layer, source map (omitted when empty), build system.
func Render(in Input) (string, error) {
	name := deps.Hyphenate(in.ModuleName)
	if name == "" {
		return "", fmt.Errorf("module name %q yields an empty package name", in.ModuleName)
	}

	var b strings.Builder

	b.WriteString("[project]\n")
	fmt.Fprintf(&b, "name = %s\n", strconv.Quote(name))
	fmt.Fprintf(&b, "version = %s\n", strconv.Quote(in.Version))
	fmt.Fprintf(&b, "description = %s\n", strconv.Quote(fmt.Sprintf("ADHD Framework %s: %s", in.Type, in.ModuleName)))
	fmt.Fprintf(&b, "requires-python = %s\n", strconv.Quote(in.PythonRequires))

	if len(in.Entries) == 0 {
		b.WriteString("dependencies = []\n")
	} else {
		b.WriteString("dependencies = [\n")
		for _, entry := range in.Entries {
			fmt.Fprintf(&b, "    %s,\n", strconv.Quote(entry.Literal()))
		}
		b.WriteString("]\n")
	}

	b.WriteString("\n[tool.adhd]\n")
	fmt.Fprintf(&b, "layer = %s\n", strconv.Quote(string(in.Decision.Layer)))
	if in.Decision.IsMCP {
		b.WriteString("mcp = true\n")
	}

	gitEntries := gitOnly(in.Entries)
	if len(gitEntries) > 0 {
		b.WriteString("\n[tool.uv.sources]\n")
		for _, entry := range gitEntries {
			fmt.Fprintf(&b, "%s = { git = %s }\n", entry.Name, strconv.Quote(entry.URL))
		}
	}

	b.WriteString("\n[build-system]\n")
	b.WriteString("requires = [\"hatchling\"]\n")
	b.WriteString("build-backend = \"hatchling.build\"\n")
	b.WriteString("\n[tool.hatch.build.targets.wheel]\n")
	b.WriteString("only-include = [\".\"]\n")
	b.WriteString("\n[tool.hatch.build.targets.wheel.sources]\n")
	fmt.Fprintf(&b, "\"\" = %s\n", strconv.Quote(in.ModuleName))

	content := b.String()
	if err := verify(content); err != nil {
		return "", err
	}
	return content, nil
}

// gitOnly filters the translated entries down to the source-map rows,
// preserving declaration order.
func gitOnly(entries []deps.Entry) []deps.Entry {
	var git []deps.Entry
	for _, e := range entries {
		if e.Kind == deps.KindGit {
			git = append(git, e)
		}
	}
	return git
}

// verify rejects any rendered document that is not parseable TOML.
func verify(content string) error {
	var doc map[string]interface{}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("rendered manifest is not valid TOML: %w", err)
	}
	return nil
}

// ExistingVersion reads project.version from an existing manifest file.
// Used to enrich the skip-due-to-existing message; any failure simply
// yields an empty version.
func ExistingVersion(path string) string {
	data, err := os.ReadFile(path) // #nosec G304 -- path is inside a discovered module directory
	if err != nil {
		return ""
	}
	var doc struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.Project.Version
}
