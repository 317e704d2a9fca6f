package semver

import (
	"fmt"
	"regexp"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Compatible reports whether a consumer's PHP runtime constraint can satisfy
// a package's declared PHP requirement. The returned reason is non-empty
// only when the check fails, and names the requirement for display.
//
// The check is deliberately permissive: Composer requirement strings in the
// wild mix bare majors, partial versions, and combined AND/OR groups that no
// single range parser covers, so each alternative falls through a chain of
// progressively looser tests. When a requirement cannot be understood at
// all, the answer is "satisfied"; a false positive is preferred over
// rejecting a usable update.
func Compatible(consumer, requirement string) (bool, string) {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" || requirement == "*" {
		return true, ""
	}
	if strings.TrimSpace(consumer) == "" {
		return true, ""
	}

	// The consumer's minimum resolvable version is the probe value for every
	// containment test below. Unresolvable consumers fail open.
	min, ok := consumerMinimum(consumer)
	if !ok {
		return true, ""
	}

	for _, alt := range splitAlternatives(requirement) {
		if alternativeSatisfies(alt, min) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("requires php %s", requirement)
}

// consumerMinimum extracts the lowest version bound implied by the
// consumer's constraint syntax.
func consumerMinimum(consumer string) (Bare, bool) {
	c := Parse(consumer)
	if c.Kind == KindDev {
		return Bare{}, false
	}
	// Upper-bound-only ranges imply no usable minimum.
	if c.Kind == KindRange && (c.Prefix == "<" || c.Prefix == "<=") {
		return Bare{}, false
	}
	return ParseBare(c.Base)
}

// splitAlternatives normalizes Composer's OR syntax ("|" and "||" both mean
// OR) and returns the individual alternatives. Commas within an alternative
// mean AND and become space-joined. Stability annotations are stripped.
func splitAlternatives(requirement string) []string {
	s := strings.ReplaceAll(requirement, "||", "|")
	var alts []string
	for _, alt := range strings.Split(s, "|") {
		alt = strings.ReplaceAll(alt, ",", " ")
		alt = inlineStabilityRe.ReplaceAllString(alt, "")
		alt = strings.Join(strings.Fields(alt), " ")
		if alt != "" {
			alts = append(alts, alt)
		}
	}
	return alts
}

var inlineStabilityRe = regexp.MustCompile(`(?i)@(dev|alpha|beta|rc|stable)\b`)

var upperBoundRe = regexp.MustCompile(`(<=?)\s*v?(\d+(?:\.\d+)*)`)

// alternativeSatisfies tests a single OR-alternative against the consumer's
// minimum version, in order: implied-maximum pruning, exact range
// containment, then the permissive structural fallbacks.
func alternativeSatisfies(alt string, min Bare) bool {
	// Prune alternatives whose implied maximum the consumer already
	// exceeds: the alternative can never admit a version that high.
	if max, inclusive, ok := impliedMaximum(alt); ok {
		if cmp := min.Compare(max); cmp > 0 || (cmp == 0 && !inclusive) {
			return false
		}
	}

	if ok, decided := rangeContains(alt, min); decided {
		return ok
	}

	// Range parsing failed; fall back to structural reasoning.
	c := Parse(alt)
	base, ok := ParseBare(c.Base)
	if !ok {
		// Requirement shape is beyond parsing entirely; fail open.
		return true
	}
	if c.Kind == KindCaret {
		// Same major line is close enough when the range itself cannot
		// be evaluated.
		return min.Major == base.Major
	}
	// Treat everything else as a lower bound without a ceiling.
	return min.Compare(base) >= 0
}

// impliedMaximum derives the upper bound of one alternative: an explicit
// "<"/"<=" token, or the next major for a caret constraint. inclusive
// reports whether the bound itself is admitted. The last return value is
// false when the alternative is unbounded above.
func impliedMaximum(alt string) (max Bare, inclusive, ok bool) {
	if m := upperBoundRe.FindStringSubmatch(alt); m != nil {
		b, parsed := ParseBare(m[2])
		return b, m[1] == "<=", parsed
	}
	c := Parse(alt)
	if c.Kind == KindCaret {
		if b, parsed := ParseBare(c.Base); parsed {
			return Bare{Major: b.Major + 1}, false, true
		}
	}
	return Bare{}, false, false
}

// rangeContains runs a strict containment test of min against alt using a
// real range parser. The second return value is false when alt cannot be
// parsed as a range, in which caller falls back to heuristics.
func rangeContains(alt string, min Bare) (satisfied, decided bool) {
	cons, err := mmsemver.NewConstraint(alt)
	if err != nil {
		return false, false
	}
	v, err := mmsemver.NewVersion(min.String())
	if err != nil {
		return false, false
	}
	return cons.Check(v), true
}
