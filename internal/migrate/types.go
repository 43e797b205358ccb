/*
Copyright © 2026 ADHD Framework Authors
*/
package migrate

import (
	"time"
)

// FailureKind classifies why a module's migration failed.
type FailureKind string

const (
	KindNone           FailureKind = ""
	KindModuleNotFound FailureKind = "module-not-found"
	KindDescriptorRead FailureKind = "descriptor-read"
	KindMalformedURL   FailureKind = "malformed-url"
	KindNamingConflict FailureKind = "naming-conflict"
	KindRender         FailureKind = "render"
)

// Result is the immutable outcome of one migration attempt.
type Result struct {
	Module     string      `json:"module"`
	Success    bool        `json:"success"`
	Written    bool        `json:"written"`
	Skipped    bool        `json:"skipped,omitempty"`
	Kind       FailureKind `json:"kind,omitempty"`
	Message    string      `json:"message"`
	Content    string      `json:"content,omitempty"`
	OutputPath string      `json:"output_path,omitempty"`
}

// Report aggregates batch migration results in enumeration order.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Results     []Result  `json:"results"`
}

// Succeeded counts successful results, including deliberate skips.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Failed counts failed results.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}

// Skipped counts successful no-ops due to an existing target manifest.
func (r *Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}
