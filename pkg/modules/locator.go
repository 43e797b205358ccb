// Package modules discovers framework modules in a workspace and resolves
// them by name. A module is any child directory of a configured category
// directory that carries the legacy descriptor file.
package modules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/adhd-framework/uvmigrate/pkg/config"
	"github.com/adhd-framework/uvmigrate/pkg/logger"
)

// Category is the architectural folder category a module lives under.
type Category string

const (
	CategoryCores    Category = "cores"
	CategoryUtils    Category = "utils"
	CategoryManagers Category = "managers"
	CategoryPlugins  Category = "plugins"
	CategoryMCPs     Category = "mcps"
	CategoryUnknown  Category = "unknown"
)

// CategoryForDir maps a workspace directory name to its folder category.
// Directory names outside the fixed set map to CategoryUnknown so that
// extra configured scan directories still yield migratable modules.
func CategoryForDir(dir string) Category {
	switch dir {
	case "cores":
		return CategoryCores
	case "utils":
		return CategoryUtils
	case "managers":
		return CategoryManagers
	case "plugins":
		return CategoryPlugins
	case "mcps":
		return CategoryMCPs
	default:
		return CategoryUnknown
	}
}

// Module identifies a discovered module on disk.
type Module struct {
	Name     string
	Path     string // absolute module directory
	RelPath  string // workspace-relative, forward slashes
	Category Category
}

// ErrNotFound is returned by Find when no module carries the requested name.
var ErrNotFound = errors.New("module not found")

// Locator discovers and resolves modules beneath a workspace root.
type Locator struct {
	root   string
	cfg    *config.Config
	ignore *IgnoreMatcher
}

// NewLocator creates a locator anchored at root.
func NewLocator(root string, cfg *config.Config) (*Locator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	matcher, err := NewIgnoreMatcher(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	return &Locator{root: abs, cfg: cfg, ignore: matcher}, nil
}

// Root returns the absolute workspace root.
func (l *Locator) Root() string {
	return l.root
}

// Discover enumerates all modules in deterministic order: configured
// category directories first, lexical module order within each.
func (l *Locator) Discover() ([]Module, error) {
	var found []Module

	for _, dir := range l.cfg.ModuleDirs {
		categoryPath := filepath.Join(l.root, dir)
		entries, err := os.ReadDir(categoryPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read category directory %s: %w", dir, err)
		}

		var names []string
		for _, entry := range entries {
			if entry.IsDir() {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		category := CategoryForDir(dir)
		for _, name := range names {
			rel := filepath.ToSlash(filepath.Join(dir, name))
			if l.skip(rel) {
				logger.Debug("Skipping excluded directory", logger.String("path", rel))
				continue
			}
			moduleDir := filepath.Join(categoryPath, name)
			descriptor := filepath.Join(moduleDir, l.cfg.DescriptorName)
			if _, err := os.Stat(descriptor); err != nil {
				continue
			}
			found = append(found, Module{
				Name:     name,
				Path:     moduleDir,
				RelPath:  rel,
				Category: category,
			})
		}
	}

	logger.Debug("Discovered modules", logger.Int("count", len(found)))
	return found, nil
}

// Find resolves a single module by name. Returns ErrNotFound (wrapped with
// the name) when no discovered module matches.
func (l *Locator) Find(name string) (Module, error) {
	all, err := l.Discover()
	if err != nil {
		return Module{}, err
	}
	for _, mod := range all {
		if mod.Name == name {
			return mod, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// skip applies ignore-file rules and configured exclude globs.
func (l *Locator) skip(rel string) bool {
	if l.ignore.IsIgnored(rel, true) {
		return true
	}
	for _, pattern := range l.cfg.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
