// Package layer derives the architectural layer of a module from its folder
// category and descriptor hints. Inference never fails: unknown categories
// fall through to the runtime default so a migration is never blocked here.
package layer

import (
	"github.com/adhd-framework/uvmigrate/pkg/modules"
)

// Layer is one of the fixed architectural tiers.
type Layer string

const (
	Foundation Layer = "foundation"
	Runtime    Layer = "runtime"
	Dev        Layer = "dev"
)

// Valid reports whether s names a known layer.
func Valid(s string) bool {
	switch Layer(s) {
	case Foundation, Runtime, Dev:
		return true
	}
	return false
}

// Decision is the inferred layer plus the MCP marker. The marker is set
// if and only if the module lives under the mcps category, independent of
// which layer rule fired.
type Decision struct {
	Layer Layer
	IsMCP bool
}

// Options carries the descriptor hints that influence inference.
type Options struct {
	// Explicit is a layer name declared directly in the descriptor.
	// A valid value wins over every category rule.
	Explicit string
	// Dev marks a dev-specific core.
	Dev bool
}

// rule pairs a predicate with the layer it selects. Rules are evaluated
// top-to-bottom; the first match wins.
type rule struct {
	match func(modules.Category, Options) bool
	layer func(Options) Layer
}

var rules = []rule{
	{
		match: func(_ modules.Category, o Options) bool { return Valid(o.Explicit) },
		layer: func(o Options) Layer { return Layer(o.Explicit) },
	},
	{
		match: func(c modules.Category, o Options) bool { return c == modules.CategoryCores && o.Dev },
		layer: func(Options) Layer { return Dev },
	},
	{
		match: func(c modules.Category, _ Options) bool { return c == modules.CategoryCores },
		layer: func(Options) Layer { return Foundation },
	},
	{
		match: func(c modules.Category, _ Options) bool { return c == modules.CategoryUtils },
		layer: func(Options) Layer { return Foundation },
	},
	{
		match: func(c modules.Category, _ Options) bool { return c == modules.CategoryManagers },
		layer: func(Options) Layer { return Runtime },
	},
	{
		match: func(c modules.Category, _ Options) bool { return c == modules.CategoryPlugins },
		layer: func(Options) Layer { return Runtime },
	},
	{
		match: func(c modules.Category, _ Options) bool { return c == modules.CategoryMCPs },
		layer: func(Options) Layer { return Runtime },
	},
}

// Infer applies the precedence table. The final fallthrough is the safe
// runtime default.
func Infer(category modules.Category, opts Options) Decision {
	decision := Decision{Layer: Runtime, IsMCP: category == modules.CategoryMCPs}
	for _, r := range rules {
		if r.match(category, opts) {
			decision.Layer = r.layer(opts)
			break
		}
	}
	return decision
}
