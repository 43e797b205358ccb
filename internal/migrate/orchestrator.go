/*
Copyright © 2026 ADHD Framework Authors
*/
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adhd-framework/uvmigrate/pkg/config"
	"github.com/adhd-framework/uvmigrate/pkg/deps"
	"github.com/adhd-framework/uvmigrate/pkg/descriptor"
	"github.com/adhd-framework/uvmigrate/pkg/layer"
	"github.com/adhd-framework/uvmigrate/pkg/logger"
	"github.com/adhd-framework/uvmigrate/pkg/manifest"
	"github.com/adhd-framework/uvmigrate/pkg/modules"
	"github.com/adhd-framework/uvmigrate/pkg/safeio"
)

// Options control a migration run.
type Options struct {
	// DryRun suppresses writing; the rendered content is still produced.
	DryRun bool
	// NoOverwrite turns a migration into a successful no-op when the
	// target manifest already exists.
	NoOverwrite bool
	// Concurrency bounds parallel batch migration. Values below 2 run
	// strictly sequentially.
	Concurrency int
}

// Orchestrator coordinates single and batch migrations over a workspace.
type Orchestrator struct {
	cfg *config.Config
	loc *modules.Locator
}

// New creates an orchestrator rooted at the given workspace directory.
func New(root string, cfg *config.Config) (*Orchestrator, error) {
	loc, err := modules.NewLocator(root, cfg)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{cfg: cfg, loc: loc}, nil
}

// MigrateModule migrates one module by name. Every error is converted into
// a failed Result here; nothing propagates past this boundary.
func (o *Orchestrator) MigrateModule(name string, opts Options) Result {
	mod, err := o.loc.Find(name)
	if err != nil {
		return failure(name, err)
	}
	return o.migrate(mod, opts)
}

// MigrateAll migrates every discovered module independently and aggregates
// results in enumeration order. One module's failure never stops the batch.
func (o *Orchestrator) MigrateAll(opts Options) (*Report, error) {
	mods, err := o.loc.Discover()
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: time.Now(),
		Results:     make([]Result, len(mods)),
	}

	if opts.Concurrency > 1 {
		// Results are written by index so report order stays the
		// enumeration order regardless of completion order.
		var g errgroup.Group
		g.SetLimit(opts.Concurrency)
		for i, mod := range mods {
			g.Go(func() error {
				report.Results[i] = o.migrate(mod, opts)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, mod := range mods {
			report.Results[i] = o.migrate(mod, opts)
		}
	}

	return report, nil
}

// Preview returns the manifest text a non-dry-run migration would write.
func (o *Orchestrator) Preview(name string) (string, error) {
	result := o.MigrateModule(name, Options{DryRun: true})
	if !result.Success {
		return "", errors.New(result.Message)
	}
	return result.Content, nil
}

// migrate runs the per-module pipeline: read, infer, translate, render,
// then decide between skip, preview, and write.
func (o *Orchestrator) migrate(mod modules.Module, opts Options) Result {
	desc, err := descriptor.Load(mod.Path, o.cfg.DescriptorName)
	if err != nil {
		return failure(mod.Name, err)
	}
	pipLines, err := descriptor.LoadRequirements(mod.Path, o.cfg.RequirementsName)
	if err != nil {
		return failure(mod.Name, err)
	}

	decision := layer.Infer(mod.Category, layer.Options{Explicit: desc.Layer, Dev: desc.Dev})

	entries, _, err := deps.Translate(desc.Requirements, pipLines)
	if err != nil {
		return failure(mod.Name, err)
	}

	content, err := manifest.Render(manifest.Input{
		ModuleName:     mod.Name,
		Version:        desc.Version,
		Type:           desc.Type,
		PythonRequires: o.cfg.PythonRequires,
		Decision:       decision,
		Entries:        entries,
	})
	if err != nil {
		return Result{Module: mod.Name, Kind: KindRender, Message: err.Error()}
	}

	target := filepath.Join(mod.Path, o.cfg.ManifestName)

	if opts.NoOverwrite {
		if _, err := os.Stat(target); err == nil {
			message := fmt.Sprintf("Skipped (%s exists)", o.cfg.ManifestName)
			if existing := manifest.ExistingVersion(target); existing != "" {
				message = fmt.Sprintf("Skipped (%s exists, version %s)", o.cfg.ManifestName, existing)
			}
			return Result{
				Module:     mod.Name,
				Success:    true,
				Skipped:    true,
				Message:    message,
				Content:    content,
				OutputPath: target,
			}
		}
	}

	if opts.DryRun {
		logger.Info("Dry run, no file written", logger.String("module", mod.Name))
		return Result{
			Module:     mod.Name,
			Success:    true,
			Message:    "Dry run - preview only",
			Content:    content,
			OutputPath: target,
		}
	}

	if err := safeio.WriteFilePreservePerms(target, []byte(content)); err != nil {
		return Result{Module: mod.Name, Kind: KindRender, Message: fmt.Sprintf("failed to write %s: %v", target, err)}
	}

	logger.Info("Generated manifest", logger.String("module", mod.Name), logger.String("path", target))
	return Result{
		Module:     mod.Name,
		Success:    true,
		Written:    true,
		Message:    fmt.Sprintf("Generated %s", o.cfg.ManifestName),
		Content:    content,
		OutputPath: target,
	}
}

// failure maps a typed error to its failure kind and wraps it in a Result.
func failure(module string, err error) Result {
	return Result{
		Module:  module,
		Kind:    classify(err),
		Message: err.Error(),
	}
}

// classify maps typed errors from the pipeline onto failure kinds.
func classify(err error) FailureKind {
	var readErr *descriptor.ReadError
	var urlErr *deps.MalformedURLError
	var conflictErr *deps.ConflictError
	switch {
	case errors.Is(err, modules.ErrNotFound):
		return KindModuleNotFound
	case errors.As(err, &readErr):
		return KindDescriptorRead
	case errors.As(err, &urlErr):
		return KindMalformedURL
	case errors.As(err, &conflictErr):
		return KindNamingConflict
	default:
		return KindNone
	}
}
