package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Bare is a concrete numeric version with no range operator.
// Missing components parse as zero ("1.2" is {1, 2, 0}).
type Bare struct {
	Major, Minor, Patch int
}

// String renders the version as "major.minor.patch".
func (b Bare) String() string {
	return fmt.Sprintf("%d.%d.%d", b.Major, b.Minor, b.Patch)
}

// Compare returns -1, 0, or 1 as b is ordered before, equal to, or after o.
func (b Bare) Compare(o Bare) int {
	switch {
	case b.Major != o.Major:
		return sign(b.Major - o.Major)
	case b.Minor != o.Minor:
		return sign(b.Minor - o.Minor)
	default:
		return sign(b.Patch - o.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

var bareRe = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// ParseBare coerces a version string to its numeric components. The string
// may carry a leading "v" and trailing pre-release or build decoration
// ("v2.1.0-beta1" coerces to {2, 1, 0}). The second return value is false
// when no leading numeric version can be extracted; callers treat that as
// an absent version and skip numeric reasoning for the entry.
func ParseBare(s string) (Bare, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') {
		s = s[1:]
	}
	m := bareRe.FindStringSubmatch(s)
	if m == nil {
		return Bare{}, false
	}
	var b Bare
	b.Major, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		b.Minor, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		b.Patch, _ = strconv.Atoi(m[3])
	}
	return b, true
}

// bareOf parses a raw constraint and coerces its base to a Bare version.
func bareOf(constraint string) (Bare, bool) {
	return ParseBare(Parse(constraint).Base)
}
