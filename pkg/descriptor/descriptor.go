// Package descriptor reads the legacy per-module descriptor pair: the YAML
// manifest and the plain requirements file. All defaulting happens here so
// downstream components always see a fully-populated Descriptor.
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adhd-framework/uvmigrate/pkg/safeio"
)

// DefaultVersion is used when the legacy manifest declares no version.
const DefaultVersion = "0.0.1"

// Descriptor is the normalized legacy manifest of one module.
type Descriptor struct {
	Version      string   // defaults to DefaultVersion
	Type         string   // declared module type, "unknown" when absent
	Layer        string   // explicit layer override, empty when absent
	Dev          bool     // marks dev-specific cores
	Requirements []string // ordered; git URLs and registry identifiers mixed
}

// ReadError wraps any I/O, parse, or schema failure while reading a
// module's descriptor files.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read descriptor %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Load reads and normalizes the legacy YAML manifest from moduleDir.
func Load(moduleDir, descriptorName string) (*Descriptor, error) {
	path := filepath.Join(moduleDir, descriptorName)
	data, err := safeio.ReadFileContained(moduleDir, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("document is not a mapping")}
	}
	if err := validate(doc); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return normalize(doc), nil
}

// normalize applies defaulting rules in one place, per the parse-boundary rule.
func normalize(doc map[string]interface{}) *Descriptor {
	d := &Descriptor{
		Version: DefaultVersion,
		Type:    "unknown",
	}
	if v, ok := doc["version"].(string); ok && v != "" {
		d.Version = v
	}
	if t, ok := doc["type"].(string); ok && t != "" {
		d.Type = t
	}
	if l, ok := doc["layer"].(string); ok {
		d.Layer = l
	}
	if dev, ok := doc["dev"].(bool); ok {
		d.Dev = dev
	}
	if reqs, ok := doc["requirements"].([]interface{}); ok {
		for _, r := range reqs {
			if s, ok := r.(string); ok {
				d.Requirements = append(d.Requirements, s)
			}
		}
	}
	return d
}

// LoadRequirements reads the plain dependency file from moduleDir. A missing
// file is not an error; it simply yields no lines. Blank lines and comments
// are dropped, order is preserved.
func LoadRequirements(moduleDir, requirementsName string) ([]string, error) {
	path := filepath.Join(moduleDir, requirementsName)
	data, err := safeio.ReadFileContained(moduleDir, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
