// Package composer reads and rewrites composer.json manifests.
//
// The manifest is treated as a document, not a data structure: updates are
// applied as targeted string replacements on the original bytes, so key
// order, indentation, and unrelated fields survive a rewrite untouched.
package composer

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"

	"github.com/qoqn/comze/pkg/errors"
	"github.com/qoqn/comze/pkg/semver"
)

// Requirement is one declared dependency of the manifest.
type Requirement struct {
	Name       string
	Constraint string
	Dev        bool // true when declared under require-dev
}

// Manifest is a parsed composer.json plus the raw bytes it came from.
type Manifest struct {
	Path string
	Name string

	Require    map[string]string
	RequireDev map[string]string

	// MinimumStability and PreferStable mirror the manifest fields of the
	// same names, with Composer's defaults (stable, false) when absent.
	MinimumStability semver.Stability
	PreferStable     bool

	// PHP is the project's own php requirement from require, if declared.
	PHP string

	raw    []byte
	indent string
}

type manifestFile struct {
	Name             string            `json:"name"`
	Require          map[string]string `json:"require"`
	RequireDev       map[string]string `json:"require-dev"`
	MinimumStability string            `json:"minimum-stability"`
	PreferStable     bool              `json:"prefer-stable"`
}

// Load reads and parses a composer.json file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %s", path)
	}
	return Parse(path, data)
}

// Parse parses manifest bytes. The path is recorded for later writes and
// error messages; it is not accessed.
func Parse(path string, data []byte) (*Manifest, error) {
	var f manifestFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parsing %s", path)
	}

	m := &Manifest{
		Path:             path,
		Name:             f.Name,
		Require:          f.Require,
		RequireDev:       f.RequireDev,
		MinimumStability: semver.ParseStability(f.MinimumStability),
		PreferStable:     f.PreferStable,
		PHP:              f.Require["php"],
		raw:              data,
		indent:           detectIndent(data),
	}
	return m, nil
}

// Packages returns the manifest's dependencies in sorted order, require
// first, then require-dev when includeDev is set. Platform packages (php,
// ext-*, lib-*) are excluded: they resolve against the environment, not a
// registry.
func (m *Manifest) Packages(includeDev bool) []Requirement {
	var reqs []Requirement
	reqs = appendSorted(reqs, m.Require, false)
	if includeDev {
		reqs = appendSorted(reqs, m.RequireDev, true)
	}
	return reqs
}

func appendSorted(reqs []Requirement, section map[string]string, dev bool) []Requirement {
	names := make([]string, 0, len(section))
	for name := range section {
		if errors.IsPlatformPackage(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		reqs = append(reqs, Requirement{Name: name, Constraint: section[name], Dev: dev})
	}
	return reqs
}

// Constraint returns the declared constraint for a package, searching
// require first and require-dev second.
func (m *Manifest) Constraint(name string) (string, bool) {
	if c, ok := m.Require[name]; ok {
		return c, true
	}
	c, ok := m.RequireDev[name]
	return c, ok
}

// Raw returns the manifest bytes as loaded.
func (m *Manifest) Raw() []byte { return m.raw }

// Indent returns the manifest's indentation unit ("    ", "\t", ...). An
// empty string means no indented line was found.
func (m *Manifest) Indent() string { return m.indent }

var indentRe = regexp.MustCompile(`(?m)^([ \t]+)"`)

// detectIndent finds the document's indentation unit from the first
// indented key line.
func detectIndent(data []byte) string {
	if m := indentRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}
