/*
Copyright © 2026 ADHD Framework Authors
*/
package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhd-framework/uvmigrate/pkg/config"
)

func writeModule(t *testing.T, root, dir, name, initYAML string, requirements string) string {
	t.Helper()
	moduleDir := filepath.Join(root, dir, name)
	require.NoError(t, os.MkdirAll(moduleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "init.yaml"), []byte(initYAML), 0o644))
	if requirements != "" {
		require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "requirements.txt"), []byte(requirements), 0o644))
	}
	return moduleDir
}

func newOrchestrator(t *testing.T, root string) *Orchestrator {
	t.Helper()
	orch, err := New(root, config.Default())
	require.NoError(t, err)
	return orch
}

const sessionManagerYAML = `version: "0.0.1"
type: manager
requirements:
  - https://github.com/Org/Logger-Util.git
`

func TestMigrateModuleWritesManifest(t *testing.T) {
	root := t.TempDir()
	moduleDir := writeModule(t, root, "managers", "session_manager", sessionManagerYAML, "sqlalchemy>=2.0.0\n")

	result := newOrchestrator(t, root).MigrateModule("session_manager", Options{})
	require.True(t, result.Success, result.Message)
	assert.True(t, result.Written)
	assert.Equal(t, KindNone, result.Kind)

	data, err := os.ReadFile(filepath.Join(moduleDir, "pyproject.toml"))
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, result.Content, content)

	assert.Contains(t, content, `name = "session-manager"`)
	assert.Contains(t, content, `version = "0.0.1"`)
	assert.Contains(t, content, `layer = "runtime"`)
	assert.Contains(t, content, "logger-util = { git = \"https://github.com/Org/Logger-Util.git\" }")
	assert.NotContains(t, content, "mcp")

	// Git-derived entry precedes the pip requirement.
	assert.Less(t,
		strings.Index(content, `"logger-util"`),
		strings.Index(content, `"sqlalchemy>=2.0.0"`))
}

func TestMigrateModuleDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	moduleDir := writeModule(t, root, "managers", "session_manager", sessionManagerYAML, "")

	result := newOrchestrator(t, root).MigrateModule("session_manager", Options{DryRun: true})
	require.True(t, result.Success, result.Message)
	assert.False(t, result.Written)
	assert.NotEmpty(t, result.Content)

	_, err := os.Stat(filepath.Join(moduleDir, "pyproject.toml"))
	assert.True(t, os.IsNotExist(err), "dry run must not create the manifest")
}

func TestPreviewMatchesWrittenContent(t *testing.T) {
	root := t.TempDir()
	moduleDir := writeModule(t, root, "managers", "session_manager", sessionManagerYAML, "sqlalchemy>=2.0.0\n")
	orch := newOrchestrator(t, root)

	previewed, err := orch.Preview("session_manager")
	require.NoError(t, err)

	result := orch.MigrateModule("session_manager", Options{})
	require.True(t, result.Success)

	written, err := os.ReadFile(filepath.Join(moduleDir, "pyproject.toml"))
	require.NoError(t, err)
	assert.Equal(t, previewed, string(written))
}

func TestMigrateModuleNoOverwriteLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	moduleDir := writeModule(t, root, "managers", "session_manager", sessionManagerYAML, "")
	existing := "[project]\nname = \"session-manager\"\nversion = \"9.9.9\"\n"
	target := filepath.Join(moduleDir, "pyproject.toml")
	require.NoError(t, os.WriteFile(target, []byte(existing), 0o644))

	result := newOrchestrator(t, root).MigrateModule("session_manager", Options{NoOverwrite: true})
	require.True(t, result.Success)
	assert.False(t, result.Written)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Message, "9.9.9")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data), "no-overwrite must leave bytes unchanged")
}

func TestMigrateModuleOverwritesByDefault(t *testing.T) {
	root := t.TempDir()
	moduleDir := writeModule(t, root, "managers", "session_manager", sessionManagerYAML, "")
	target := filepath.Join(moduleDir, "pyproject.toml")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	result := newOrchestrator(t, root).MigrateModule("session_manager", Options{})
	require.True(t, result.Success)
	assert.True(t, result.Written)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestMigrateModuleNotFound(t *testing.T) {
	root := t.TempDir()
	result := newOrchestrator(t, root).MigrateModule("ghost_module", Options{})
	assert.False(t, result.Success)
	assert.Equal(t, KindModuleNotFound, result.Kind)
	assert.Contains(t, result.Message, "ghost_module")
}

func TestMigrateModuleDescriptorReadFailure(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "cores", "broken_core", "version: [unclosed\n", "")

	result := newOrchestrator(t, root).MigrateModule("broken_core", Options{})
	assert.False(t, result.Success)
	assert.Equal(t, KindDescriptorRead, result.Kind)
}

func TestMigrateModuleNamingConflict(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "cores", "conflicted_core", `requirements:
  - https://github.com/org-a/logger_util.git
  - https://github.com/org-b/Logger-Util.git
`, "")

	result := newOrchestrator(t, root).MigrateModule("conflicted_core", Options{})
	assert.False(t, result.Success)
	assert.Equal(t, KindNamingConflict, result.Kind)
}

func TestMigrateModuleDevCore(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "cores", "migrator_core", "type: core\ndev: true\n", "")

	result := newOrchestrator(t, root).MigrateModule("migrator_core", Options{DryRun: true})
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Content, `layer = "dev"`)
}

func TestMigrateModuleMCP(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "mcps", "search_mcp", "type: mcp\n", "")

	result := newOrchestrator(t, root).MigrateModule("search_mcp", Options{DryRun: true})
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Content, `layer = "runtime"`)
	assert.Contains(t, result.Content, "mcp = true\n")
}

func TestMigrateAllIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "cores", "good_core", "type: core\n", "")
	writeModule(t, root, "managers", "bad_manager", `requirements:
  - https://example.com
`, "")
	writeModule(t, root, "utils", "good_util", "type: util\n", "")

	report, err := newOrchestrator(t, root).MigrateAll(Options{})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	// Enumeration order: cores, utils, managers.
	assert.Equal(t, "good_core", report.Results[0].Module)
	assert.Equal(t, "good_util", report.Results[1].Module)
	assert.Equal(t, "bad_manager", report.Results[2].Module)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, KindMalformedURL, report.Results[2].Kind)

	// The failing module must not block the others.
	assert.FileExists(t, filepath.Join(root, "cores", "good_core", "pyproject.toml"))
	assert.FileExists(t, filepath.Join(root, "utils", "good_util", "pyproject.toml"))
	assert.NoFileExists(t, filepath.Join(root, "managers", "bad_manager", "pyproject.toml"))
}

func TestMigrateAllConcurrentKeepsOrder(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "cores", "core_a", "type: core\n", "")
	writeModule(t, root, "cores", "core_b", "type: core\n", "")
	writeModule(t, root, "managers", "manager_a", "type: manager\n", "")
	writeModule(t, root, "plugins", "plugin_a", "type: plugin\n", "")

	report, err := newOrchestrator(t, root).MigrateAll(Options{DryRun: true, Concurrency: 4})
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	want := []string{"core_a", "core_b", "manager_a", "plugin_a"}
	for i, name := range want {
		assert.Equal(t, name, report.Results[i].Module)
		assert.True(t, report.Results[i].Success)
	}
}

func TestMigrateAllNoOverwriteCountsSkips(t *testing.T) {
	root := t.TempDir()
	dir := writeModule(t, root, "cores", "settled_core", "type: core\n", "")
	writeModule(t, root, "cores", "fresh_core", "type: core\n", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("existing"), 0o644))

	report, err := newOrchestrator(t, root).MigrateAll(Options{NoOverwrite: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, 1, report.Skipped())
}

func TestPreviewFailure(t *testing.T) {
	root := t.TempDir()
	_, err := newOrchestrator(t, root).Preview("nope")
	assert.Error(t, err)
}
