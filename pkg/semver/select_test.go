package semver

import (
	"testing"
	"time"
)

func rv(version string) RegistryVersion {
	return RegistryVersion{Version: version, Released: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestSelectEmpty(t *testing.T) {
	if sel, ok := Select(nil, Policy{}); ok || sel != nil {
		t.Fatalf("Select(nil) = (%v, %v), want (nil, false)", sel, ok)
	}
}

func TestSelectNewestFirst(t *testing.T) {
	versions := []RegistryVersion{rv("2.1.0"), rv("2.0.0"), rv("1.9.0")}
	sel, ok := Select(versions, Policy{MinimumStability: StabilityStable, AllowMajor: true})
	if !ok || sel.Version != "2.1.0" {
		t.Fatalf("Select = %+v, want 2.1.0", sel)
	}
}

func TestSelectStabilityFloor(t *testing.T) {
	versions := []RegistryVersion{rv("3.0.0-beta1"), rv("3.0.0-alpha2"), rv("2.4.0")}

	sel, _ := Select(versions, Policy{MinimumStability: StabilityStable, AllowMajor: true})
	if sel.Version != "2.4.0" {
		t.Errorf("stable floor selected %q, want 2.4.0", sel.Version)
	}

	sel, _ = Select(versions, Policy{MinimumStability: StabilityBeta, AllowMajor: true})
	if sel.Version != "3.0.0-beta1" {
		t.Errorf("beta floor selected %q, want 3.0.0-beta1", sel.Version)
	}
}

func TestSelectDevOnlyFallback(t *testing.T) {
	// Nothing meets the stability floor: report the newest entry anyway,
	// carrying no auxiliary facts.
	versions := []RegistryVersion{
		{Version: "dev-main", Abandoned: true, ReplacedBy: "acme/other"},
		{Version: "dev-develop"},
	}
	sel, ok := Select(versions, Policy{MinimumStability: StabilityStable})
	if !ok || sel.Version != "dev-main" {
		t.Fatalf("fallback selected %+v, want dev-main", sel)
	}
	if sel.Deprecated || sel.ReplacedBy != "" || sel.MajorAvailable != "" || sel.RuntimeIncompatible {
		t.Errorf("fallback selection carries auxiliary facts: %+v", sel)
	}
}

func TestSelectPreferStable(t *testing.T) {
	versions := []RegistryVersion{rv("2.0.0-RC1"), rv("1.9.0"), rv("1.8.0")}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityDev,
		PreferStable:     true,
		AllowMajor:       true,
	})
	if sel.Version != "1.9.0" {
		t.Errorf("prefer-stable selected %q, want 1.9.0", sel.Version)
	}

	// Without the preference the RC wins on registry order.
	sel, _ = Select(versions, Policy{MinimumStability: StabilityDev, AllowMajor: true})
	if sel.Version != "2.0.0-RC1" {
		t.Errorf("plain order selected %q, want 2.0.0-RC1", sel.Version)
	}
}

func TestSelectRuntimeGate(t *testing.T) {
	versions := []RegistryVersion{
		{Version: "2.0.0", Runtime: "^8.1"},
		{Version: "1.5.0", Runtime: "^8.0"},
		{Version: "1.0.0", Runtime: "^7.4"},
	}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityStable,
		AllowMajor:       true,
		Runtime:          "8.0.0",
	})
	if sel.Version != "1.5.0" {
		t.Errorf("runtime gate selected %q, want 1.5.0", sel.Version)
	}
	if !sel.RuntimeIncompatible || sel.SkippedVersion != "2.0.0" {
		t.Errorf("runtime gate facts = %+v, want skip of 2.0.0", sel)
	}
}

func TestSelectRuntimeGateSilentWithoutConsumer(t *testing.T) {
	versions := []RegistryVersion{{Version: "2.0.0", Runtime: "^8.1"}}
	sel, _ := Select(versions, Policy{MinimumStability: StabilityStable, AllowMajor: true})
	if sel.Version != "2.0.0" || sel.RuntimeIncompatible {
		t.Errorf("gate ran without a consumer runtime: %+v", sel)
	}
}

func TestSelectMajorGate(t *testing.T) {
	versions := []RegistryVersion{rv("2.0.0"), rv("1.5.0"), rv("1.0.0")}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityStable,
		Current:          "^1.0",
	})
	if sel.Version != "1.5.0" {
		t.Errorf("major gate selected %q, want 1.5.0", sel.Version)
	}
	if sel.MajorAvailable != "2.0.0" {
		t.Errorf("MajorAvailable = %q, want 2.0.0", sel.MajorAvailable)
	}
}

func TestSelectMajorAllowed(t *testing.T) {
	versions := []RegistryVersion{rv("2.0.0"), rv("1.5.0")}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityStable,
		AllowMajor:       true,
		Current:          "^1.0",
	})
	if sel.Version != "2.0.0" {
		t.Errorf("allowed major selected %q, want 2.0.0", sel.Version)
	}
	if sel.MajorAvailable != "2.0.0" {
		t.Errorf("MajorAvailable = %q, want 2.0.0 even when taken", sel.MajorAvailable)
	}
}

func TestSelectMajorGateNoFallback(t *testing.T) {
	// No candidate shares the current major: the newer major is reported
	// rather than nothing.
	versions := []RegistryVersion{rv("3.0.0"), rv("2.5.0")}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityStable,
		Current:          "^1.0",
	})
	if sel.Version != "3.0.0" || sel.MajorAvailable != "3.0.0" {
		t.Errorf("selection = %+v, want 3.0.0 with MajorAvailable", sel)
	}
}

func TestSelectDeprecation(t *testing.T) {
	versions := []RegistryVersion{
		{Version: "2.0.0", Abandoned: true, ReplacedBy: "acme/successor"},
	}
	sel, _ := Select(versions, Policy{MinimumStability: StabilityStable, AllowMajor: true})
	if !sel.Deprecated || sel.ReplacedBy != "acme/successor" {
		t.Errorf("deprecation facts = %+v", sel)
	}
}

func TestSelectGatesCompose(t *testing.T) {
	// Runtime gate moves to 1.5.0 first, then the major gate has nothing
	// further to do; the stable-preference pool holds through both.
	versions := []RegistryVersion{
		{Version: "2.0.0", Runtime: "^8.2"},
		{Version: "2.0.0-beta1", Runtime: "^8.0"},
		{Version: "1.5.0", Runtime: "^8.0"},
	}
	sel, _ := Select(versions, Policy{
		MinimumStability: StabilityDev,
		PreferStable:     true,
		Current:          "^1.0",
		Runtime:          "8.0.0",
	})
	if sel.Version != "1.5.0" {
		t.Errorf("composed gates selected %q, want 1.5.0", sel.Version)
	}
	if !sel.RuntimeIncompatible || sel.SkippedVersion != "2.0.0" {
		t.Errorf("runtime facts lost: %+v", sel)
	}
}
