package semver

import "time"

// RegistryVersion is one published release as reported by a package
// registry. The selector assumes the slice it receives preserves the
// registry's ordering, most recent release first; it never re-sorts by
// timestamp itself.
type RegistryVersion struct {
	Version    string    // raw version string ("v2.1.0", "dev-main", ...)
	Released   time.Time // release timestamp
	Runtime    string    // declared PHP requirement, empty if none
	Abandoned  bool      // deprecation marker
	ReplacedBy string    // suggested replacement package, if any
}

// Policy carries the knobs that steer Select for one package.
type Policy struct {
	MinimumStability Stability
	PreferStable     bool
	AllowMajor       bool
	Current          string // current constraint, empty when unknown
	Runtime          string // consumer's own PHP constraint, empty when unknown
}

// Selection is the outcome of Select for one package. It is constructed
// once and never mutated afterwards; comze does not persist it.
type Selection struct {
	Version  string
	Released time.Time
	Runtime  string // selected version's PHP requirement

	MajorAvailable      string // newer major that policy kept us off of
	RuntimeIncompatible bool   // a newer candidate was skipped for PHP reasons
	SkippedVersion      string // the candidate skipped by the runtime gate
	Deprecated          bool
	ReplacedBy          string
}

// Select picks one target version from a registry version list under the
// given policy. It reports false only for an empty list.
//
// The decision runs in fixed order: stability filter, stable preference,
// runtime-compatibility gate, major-update gate, then deprecation
// annotation. Gates that reject a candidate re-search the already-narrowed
// pool rather than restarting, so the stable-preference decision holds
// through later substitutions.
func Select(versions []RegistryVersion, p Policy) (*Selection, bool) {
	if len(versions) == 0 {
		return nil, false
	}

	// Stage 1: stability floor.
	var filtered []RegistryVersion
	for _, v := range versions {
		if Classify(v.Version) >= p.MinimumStability {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		// Nothing meets the bar, but something must be reported: fall back
		// to the newest entry, with no auxiliary facts.
		return &Selection{Version: versions[0].Version, Released: versions[0].Released}, true
	}

	// Stage 2: stable preference. The pool established here is what later
	// gates re-search.
	pool := filtered
	if p.PreferStable {
		var stable []RegistryVersion
		for _, v := range filtered {
			if Classify(v.Version) == StabilityStable {
				stable = append(stable, v)
			}
		}
		if len(stable) > 0 {
			pool = stable
		}
	}
	working := pool[0]
	sel := &Selection{}

	// Stage 3: runtime-compatibility gate.
	if p.Runtime != "" && working.Runtime != "" {
		if ok, _ := Compatible(p.Runtime, working.Runtime); !ok {
			sel.RuntimeIncompatible = true
			sel.SkippedVersion = working.Version
			for _, v := range pool {
				if v.Runtime == "" {
					working = v
					break
				}
				if ok, _ := Compatible(p.Runtime, v.Runtime); ok {
					working = v
					break
				}
			}
		}
	}

	// Stage 4: major-update gate. Only applies when both sides coerce to
	// comparable bare versions.
	if p.Current != "" {
		cur, curOK := bareOf(p.Current)
		work, workOK := ParseBare(working.Version)
		if curOK && workOK && work.Major > cur.Major {
			sel.MajorAvailable = working.Version
			if !p.AllowMajor {
				for _, v := range pool {
					if b, ok := ParseBare(v.Version); ok && b.Major == cur.Major {
						working = v
						break
					}
				}
			}
		}
	}

	// Stage 5: deprecation annotation, read off the final working selection.
	if working.Abandoned {
		sel.Deprecated = true
		sel.ReplacedBy = working.ReplacedBy
	}

	sel.Version = working.Version
	sel.Released = working.Released
	sel.Runtime = working.Runtime
	return sel, true
}
