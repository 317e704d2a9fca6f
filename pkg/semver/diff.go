package semver

// DiffType is the severity of a version change.
type DiffType string

const (
	DiffMajor DiffType = "major"
	DiffMinor DiffType = "minor"
	DiffPatch DiffType = "patch"
)

// Diff classifies the change from current to candidate. Both inputs pass
// through constraint parsing and bare-version coercion, so either side may
// be a constraint ("^1.0") or a concrete version ("1.5.0").
//
// The second return value is false when there is no actionable change:
// candidate equal to or older than current, or either side uncoercible to
// a comparable bare version. Diff never fails.
func Diff(current, candidate string) (DiffType, bool) {
	cur, ok := bareOf(current)
	if !ok {
		return "", false
	}
	cand, ok := bareOf(candidate)
	if !ok {
		return "", false
	}

	switch {
	case cand.Major > cur.Major:
		return DiffMajor, true
	case cand.Major == cur.Major && cand.Minor > cur.Minor:
		return DiffMinor, true
	case cand.Major == cur.Major && cand.Minor == cur.Minor && cand.Patch > cur.Patch:
		return DiffPatch, true
	default:
		return "", false
	}
}
