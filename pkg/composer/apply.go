package composer

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/qoqn/comze/pkg/errors"
)

// Edit is one constraint change to apply to the manifest.
type Edit struct {
	Name string // package name
	From string // current constraint, verbatim
	To   string // replacement constraint
}

// Apply returns a copy of the manifest bytes with the given edits applied.
// Each edit replaces the constraint value of one `"name": "from"` entry by
// exact string match, leaving formatting, key order, and every other byte
// of the document untouched.
//
// An edit whose entry cannot be found (the constraint changed on disk, or
// the package was removed) fails the whole Apply; partial rewrites are
// never produced.
func (m *Manifest) Apply(edits []Edit) ([]byte, error) {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)

	for _, e := range edits {
		pattern, err := entryPattern(e.Name, e.From)
		if err != nil {
			return nil, err
		}
		loc := pattern.FindSubmatchIndex(out)
		if loc == nil {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"entry %q: %q not found in %s", e.Name, e.From, m.Path)
		}
		// Replace only the value capture (group 2).
		var buf bytes.Buffer
		buf.Write(out[:loc[4]])
		buf.WriteString(e.To)
		buf.Write(out[loc[5]:])
		out = buf.Bytes()
	}
	return out, nil
}

// Write applies the edits and rewrites the manifest file in place. The
// in-memory manifest is updated to match, so consecutive writes compose.
func (m *Manifest) Write(edits []Edit) error {
	out, err := m.Apply(edits)
	if err != nil {
		return err
	}

	info, err := os.Stat(m.Path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(m.Path, out, mode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", m.Path)
	}

	m.raw = out
	for _, e := range edits {
		if _, ok := m.Require[e.Name]; ok {
			m.Require[e.Name] = e.To
		}
		if _, ok := m.RequireDev[e.Name]; ok {
			m.RequireDev[e.Name] = e.To
		}
	}
	return nil
}

// entryPattern builds the match for one `"name": "constraint"` entry.
func entryPattern(name, constraint string) (*regexp.Regexp, error) {
	expr := fmt.Sprintf(`("%s"\s*:\s*")(%s)(")`,
		regexp.QuoteMeta(name), regexp.QuoteMeta(constraint))
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "building pattern for %q", name)
	}
	return pattern, nil
}
