package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhd-framework/uvmigrate/pkg/deps"
	"github.com/adhd-framework/uvmigrate/pkg/layer"
)

func exampleInput() Input {
	return Input{
		ModuleName:     "session_manager",
		Version:        "0.0.1",
		Type:           "manager",
		PythonRequires: ">=3.11",
		Decision:       layer.Decision{Layer: layer.Runtime},
		Entries: []deps.Entry{
			{Kind: deps.KindGit, Name: "logger-util", URL: "https://github.com/Org/Logger-Util.git"},
			{Kind: deps.KindRegistry, Line: "sqlalchemy>=2.0.0"},
		},
	}
}

const exampleManifest = `[project]
name = "session-manager"
version = "0.0.1"
description = "ADHD Framework manager: session_manager"
requires-python = ">=3.11"
dependencies = [
    "logger-util",
    "sqlalchemy>=2.0.0",
]

[tool.adhd]
layer = "runtime"

[tool.uv.sources]
logger-util = { git = "https://github.com/Org/Logger-Util.git" }

[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"

[tool.hatch.build.targets.wheel]
only-include = ["."]

[tool.hatch.build.targets.wheel.sources]
"" = "session_manager"
`

func TestRenderWorkedExample(t *testing.T) {
	got, err := Render(exampleInput())
	require.NoError(t, err)
	assert.Equal(t, exampleManifest, got)
}

func TestRenderDeterministic(t *testing.T) {
	first, err := Render(exampleInput())
	require.NoError(t, err)
	second, err := Render(exampleInput())
	require.NoError(t, err)
	assert.Equal(t, first, second, "render must be byte-identical across calls")
}

func TestRenderOutputIsValidTOML(t *testing.T) {
	content, err := Render(exampleInput())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, toml.Unmarshal([]byte(content), &doc))

	project, ok := doc["project"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "session-manager", project["name"])
	assert.Equal(t, []interface{}{"logger-util", "sqlalchemy>=2.0.0"}, project["dependencies"])
}

func TestRenderMCPMarker(t *testing.T) {
	in := exampleInput()
	in.Decision = layer.Decision{Layer: layer.Runtime, IsMCP: true}
	content, err := Render(in)
	require.NoError(t, err)
	assert.Contains(t, content, "mcp = true\n")

	in.Decision.IsMCP = false
	content, err = Render(in)
	require.NoError(t, err)
	// The marker is absent entirely, never written as false.
	assert.NotContains(t, content, "mcp")
}

func TestRenderOmitsEmptySourceMap(t *testing.T) {
	in := exampleInput()
	in.Entries = []deps.Entry{{Kind: deps.KindRegistry, Line: "requests"}}
	content, err := Render(in)
	require.NoError(t, err)
	assert.NotContains(t, content, "[tool.uv.sources]")
}

func TestRenderEmptyDependencies(t *testing.T) {
	in := exampleInput()
	in.Entries = nil
	content, err := Render(in)
	require.NoError(t, err)
	assert.Contains(t, content, "dependencies = []\n")

	var doc map[string]interface{}
	require.NoError(t, toml.Unmarshal([]byte(content), &doc))
}

func TestRenderEscapesRequirementLines(t *testing.T) {
	in := exampleInput()
	in.Entries = []deps.Entry{
		{Kind: deps.KindRegistry, Line: `pywin32; sys_platform == "win32"`},
	}
	content, err := Render(in)
	require.NoError(t, err)

	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
	}
	require.NoError(t, toml.Unmarshal([]byte(content), &doc))
	require.Len(t, doc.Project.Dependencies, 1)
	assert.Equal(t, `pywin32; sys_platform == "win32"`, doc.Project.Dependencies[0])
}

func TestRenderRejectsEmptyModuleName(t *testing.T) {
	in := exampleInput()
	in.ModuleName = "___"
	_, err := Render(in)
	assert.Error(t, err)
}

func TestExistingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(exampleManifest), 0o644))

	assert.Equal(t, "0.0.1", ExistingVersion(path))
	assert.Equal(t, "", ExistingVersion(filepath.Join(dir, "missing.toml")))

	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))
	assert.Equal(t, "", ExistingVersion(path))
}

func TestRenderNameHyphenationMatchesDependencyRule(t *testing.T) {
	in := exampleInput()
	in.ModuleName = "LoggerUtil"
	content, err := Render(in)
	require.NoError(t, err)
	assert.True(t, strings.Contains(content, `name = "logger-util"`))
	// Wheel sources keep the original module name untouched.
	assert.True(t, strings.Contains(content, `"" = "LoggerUtil"`))
}
