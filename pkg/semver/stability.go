package semver

import "strings"

// Stability is the ordered maturity tier of a release.
// The ordering is total and load-bearing: it backs both the minimum-stability
// filter and the prefer-stable tie-break in Select.
type Stability int

const (
	StabilityDev Stability = iota
	StabilityAlpha
	StabilityBeta
	StabilityRC
	StabilityStable
)

// String returns the Composer-style name of the tier.
func (s Stability) String() string {
	switch s {
	case StabilityDev:
		return "dev"
	case StabilityAlpha:
		return "alpha"
	case StabilityBeta:
		return "beta"
	case StabilityRC:
		return "RC"
	default:
		return "stable"
	}
}

// ParseStability maps a Composer minimum-stability word to a tier.
// Unknown words default to stable, matching Composer's own default.
func ParseStability(s string) Stability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev":
		return StabilityDev
	case "alpha":
		return StabilityAlpha
	case "beta":
		return StabilityBeta
	case "rc":
		return StabilityRC
	default:
		return StabilityStable
	}
}

// Classify derives the stability tier of a raw version string by
// case-insensitive substring matching in strict priority order:
// dev beats alpha beats beta beats RC. A string carrying several markers
// resolves to the first test that matches.
func Classify(version string) Stability {
	v := strings.ToLower(version)
	switch {
	case strings.HasPrefix(v, "dev-") || strings.HasSuffix(v, "-dev") || strings.Contains(v, "@dev"):
		return StabilityDev
	case strings.Contains(v, "alpha") || strings.Contains(v, "@alpha"):
		return StabilityAlpha
	case strings.Contains(v, "beta") || strings.Contains(v, "@beta"):
		return StabilityBeta
	case strings.Contains(v, "-rc") || strings.Contains(v, "@rc"):
		return StabilityRC
	default:
		return StabilityStable
	}
}
