// Package semver implements the version reconciliation engine behind comze:
// parsing Composer-style version constraints, classifying release stability,
// checking PHP runtime compatibility, selecting update candidates from a
// registry version list, diffing versions by severity, and re-serializing
// constraints in their original style.
//
// Everything in this package is pure and synchronous. Functions never return
// errors: malformed input degrades to conservative values (an exact-kind
// constraint, an absent diff) so that callers can process large manifests
// without per-entry failure handling. All types are immutable value objects,
// safe for concurrent use across independent packages.
package semver

import (
	"regexp"
	"strings"
)

// Kind identifies the syntactic style of a version constraint.
type Kind int

const (
	// KindExact is a plain pinned version ("1.2.3").
	KindExact Kind = iota
	// KindRange is an operator-led range (">=1.0 <2.0").
	KindRange
	// KindHyphen is a hyphenated range ("1.0 - 2.0").
	KindHyphen
	// KindWildcard is a wildcard pattern ("1.2.*").
	KindWildcard
	// KindTilde is a tilde constraint ("~1.2").
	KindTilde
	// KindCaret is a caret constraint ("^1.2").
	KindCaret
	// KindDev is a development branch or alias ("dev-main", "2.x-dev").
	KindDev
)

// String returns the kind name used in debug output.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRange:
		return "range"
	case KindHyphen:
		return "hyphen-range"
	case KindWildcard:
		return "wildcard"
	case KindTilde:
		return "tilde"
	case KindCaret:
		return "caret"
	case KindDev:
		return "dev"
	default:
		return "unknown"
	}
}

// Constraint is the parsed form of a raw dependency-version string.
//
// Original always holds the verbatim input; Reformat derives new constraints
// from Original's detected style, never from a re-serialized form.
type Constraint struct {
	Kind        Kind
	Prefix      string // operator token ("^", "~", ">=", ...) or empty
	Base        string // bare version remainder; semantics depend on Kind
	Original    string // verbatim input, never mutated
	Development bool   // textual dev/pre-release marker detected
}

var (
	aliasRe    = regexp.MustCompile(`^(.+)\s+as\s+(.+)$`)
	operatorRe = regexp.MustCompile(`^(>=|<=|!=|>|<)\s*`)
	versionRe  = regexp.MustCompile(`\d+(?:\.\d+)*`)
	stabilityRe = regexp.MustCompile(`(?i)@(dev|alpha|beta|rc|stable)\s*$`)
)

// Parse converts a raw constraint string into a Constraint. It is total:
// every input yields some Constraint. Unrecognized or malformed input falls
// through to KindExact with a best-effort base version; downstream numeric
// comparisons treat an uncoercible base as absent rather than failing.
//
// Detection is an ordered first-match list because the patterns overlap
// (a dev-tagged wildcard must be recognized as dev, not wildcard).
func Parse(raw string) Constraint {
	s := strings.TrimSpace(raw)
	c := Constraint{Original: raw, Development: isDevelopment(s)}

	switch {
	case aliasRe.MatchString(s):
		// "dev-main as 1.2.0": the alias names the concrete version.
		m := aliasRe.FindStringSubmatch(s)
		c.Kind = KindDev
		c.Base = normalize(strings.TrimSpace(m[2]))
		c.Development = true

	case strings.HasPrefix(s, "dev-"):
		// Branch constraint; base is an opaque branch name, not a version.
		c.Kind = KindDev
		c.Base = strings.TrimPrefix(s, "dev-")

	case strings.HasSuffix(strings.ToLower(s), "-dev"):
		// Covers both "2.0-dev" and "2.x-dev".
		c.Kind = KindDev
		c.Base = s
		c.Development = true

	case strings.HasPrefix(s, "^"):
		c.Kind = KindCaret
		c.Prefix = "^"
		c.Base = normalize(strings.TrimPrefix(s, "^"))

	case strings.HasPrefix(s, "~"):
		c.Kind = KindTilde
		c.Prefix = "~"
		c.Base = normalize(strings.TrimPrefix(s, "~"))

	case strings.Contains(s, "*"):
		c.Kind = KindWildcard
		base := s[:strings.Index(s, "*")]
		c.Base = normalize(strings.TrimRight(base, ".-"))

	case strings.Contains(s, " - "):
		c.Kind = KindHyphen
		c.Base = normalize(strings.TrimSpace(s[:strings.Index(s, " - ")]))

	case operatorRe.MatchString(s):
		m := operatorRe.FindStringSubmatch(s)
		c.Kind = KindRange
		c.Prefix = m[1]
		c.Base = normalize(versionRe.FindString(s[len(m[0]):]))

	default:
		c.Kind = KindExact
		c.Base = normalize(s)
	}

	return c
}

// normalize strips a leading "v"/"V" and a trailing "@<stability>" annotation
// from an extracted base version.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = stabilityRe.ReplaceAllString(s, "")
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}
	return strings.TrimSpace(s)
}

// devMarkers are the textual signals that a constraint targets unstable
// code. Checked case-insensitively against the pre-normalization input.
var devMarkers = []string{"-dev", "alpha", "beta", "-rc", "@dev", "@alpha", "@beta", "@rc"}

func isDevelopment(s string) bool {
	ls := strings.ToLower(s)
	for _, m := range devMarkers {
		if strings.Contains(ls, m) {
			return true
		}
	}
	return false
}
