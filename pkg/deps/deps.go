// Package deps translates legacy dependency declarations into target
// manifest entries. Git-sourced declarations become normalized package
// names with a source-map entry; everything else passes through verbatim
// as registry requirement lines.
package deps

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Kind tags a dependency entry variant.
type Kind string

const (
	KindGit      Kind = "git"
	KindRegistry Kind = "registry"
)

// Entry is one translated dependency. Git entries carry Name and URL,
// registry entries carry Line.
type Entry struct {
	Kind Kind
	Name string
	URL  string
	Line string
}

// Literal is the string the manifest dependency list emits for this entry.
func (e Entry) Literal() string {
	if e.Kind == KindGit {
		return e.Name
	}
	return e.Line
}

// MalformedURLError reports a git-classified requirement that yields no
// derivable package name.
type MalformedURLError struct {
	Raw string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed git dependency URL: %q", e.Raw)
}

// ConflictError reports two distinct git URLs normalizing to the same
// package name within one module.
type ConflictError struct {
	Name   string
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("git dependencies %q and %q both normalize to %q", e.First, e.Second, e.Name)
}

// scp-like remote shape, e.g. git@github.com:org/repo.git
var scpLikeRe = regexp.MustCompile(`^[a-zA-Z0-9._~-]+@[a-zA-Z0-9._-]+:`)

var hyphenRunRe = regexp.MustCompile(`-+`)

// IsGitURL reports whether a requirement string has a recognized
// git-hosting URL shape: scheme://host/path, or the scp-like form.
// Bare registry identifiers never match because they carry no host.
func IsGitURL(requirement string) bool {
	s := strings.TrimSpace(requirement)
	if !strings.Contains(s, "://") && !scpLikeRe.MatchString(s) {
		return false
	}
	ep, err := transport.NewEndpoint(s)
	if err != nil {
		return false
	}
	return ep.Host != ""
}

// PackageName derives the normalized package name from a git URL: the final
// path segment, stripped of a trailing .git, hyphenated and lowercased.
// Pure and idempotent: the same URL always yields the same name.
func PackageName(url string) (string, error) {
	ep, err := transport.NewEndpoint(strings.TrimSpace(url))
	if err != nil {
		return "", &MalformedURLError{Raw: url}
	}

	path := strings.Trim(ep.Path, "/")
	segments := strings.Split(path, "/")
	repo := segments[len(segments)-1]
	repo = strings.TrimSuffix(repo, ".git")

	name := Hyphenate(repo)
	if name == "" {
		return "", &MalformedURLError{Raw: url}
	}
	return name, nil
}

// Hyphenate converts an identifier to the manifest's hyphen-separated
// lowercase convention: underscores and spaces become hyphens, camel-case
// boundaries split, runs of hyphens collapse. Applying it twice yields the
// same result as once.
func Hyphenate(name string) string {
	var b strings.Builder
	prevLowerOrDigit := false
	for _, r := range name {
		switch {
		case r == '_' || r == ' ' || r == '-':
			b.WriteRune('-')
			prevLowerOrDigit = false
		case unicode.IsUpper(r):
			if prevLowerOrDigit {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLowerOrDigit = false
		default:
			b.WriteRune(r)
			prevLowerOrDigit = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	return strings.Trim(hyphenRunRe.ReplaceAllString(b.String(), "-"), "-")
}

// Translate classifies every declared requirement and produces the ordered
// dependency list plus the source map (normalized name -> git URL).
//
// Order is fixed: git entries in declaration order, then registry entries
// from the descriptor in order, then pip requirement lines in order. No
// deduplication happens across the two sources; a package listed in both
// appears twice (documented limitation).
func Translate(requirements, pipLines []string) ([]Entry, map[string]string, error) {
	var gitEntries []Entry
	var registryEntries []Entry
	sources := make(map[string]string)

	for _, req := range requirements {
		req = strings.TrimSpace(req)
		if req == "" {
			continue
		}
		if !IsGitURL(req) {
			registryEntries = append(registryEntries, Entry{Kind: KindRegistry, Line: req})
			continue
		}
		name, err := PackageName(req)
		if err != nil {
			return nil, nil, err
		}
		if prior, exists := sources[name]; exists {
			if prior == req {
				// Same URL declared twice; one source-map entry suffices.
				continue
			}
			return nil, nil, &ConflictError{Name: name, First: prior, Second: req}
		}
		sources[name] = req
		gitEntries = append(gitEntries, Entry{Kind: KindGit, Name: name, URL: req})
	}

	entries := make([]Entry, 0, len(gitEntries)+len(registryEntries)+len(pipLines))
	entries = append(entries, gitEntries...)
	entries = append(entries, registryEntries...)

	for _, line := range pipLines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Kind: KindRegistry, Line: line})
	}

	if len(sources) == 0 {
		sources = nil
	}
	return entries, sources, nil
}
