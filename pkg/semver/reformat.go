package semver

import (
	"fmt"
	"regexp"
	"strings"
)

var bareMajorWildcardRe = regexp.MustCompile(`^\d+\.\*$`)

// Reformat produces a new constraint string targeting version, preserving
// the syntactic style of the original constraint:
//
//   - dev constraints (branches, aliases) pass through unchanged; comze
//     never rewrites a branch pin.
//   - wildcards keep their granularity: "1.*" becomes "2.*", anything finer
//     becomes "major.minor.*".
//   - hyphen ranges keep the original lower bound and replace the upper.
//   - operator ranges collapse to a caret on the new version rather than
//     being preserved literally.
//   - exact, caret, and tilde constraints keep their original prefix.
//
// A leading "v"/"V" on version is stripped first. If the original is a
// wildcard and version cannot be coerced, the original is returned unchanged.
func Reformat(original, version string) string {
	if len(version) > 0 && (version[0] == 'v' || version[0] == 'V') {
		version = version[1:]
	}

	c := Parse(original)
	switch c.Kind {
	case KindDev:
		return original

	case KindWildcard:
		b, ok := ParseBare(version)
		if !ok {
			return original
		}
		if bareMajorWildcardRe.MatchString(strings.TrimSpace(original)) {
			return fmt.Sprintf("%d.*", b.Major)
		}
		return fmt.Sprintf("%d.%d.*", b.Major, b.Minor)

	case KindHyphen:
		left := original[:strings.Index(original, " - ")]
		return fmt.Sprintf("%s - %s", left, version)

	case KindRange:
		return "^" + version

	default:
		return c.Prefix + version
	}
}
