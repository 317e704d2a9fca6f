// Package updater orchestrates a full manifest check: it fans package
// lookups out over a bounded worker pool, runs the selection engine on each
// version list, and assembles the results into a report.
package updater

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/qoqn/comze/pkg/composer"
	"github.com/qoqn/comze/pkg/semver"
)

// workers is the number of concurrent registry lookups.
const workers = 5

// Registry looks up the published versions of one package, most recent
// release first. Implementations must be safe for concurrent use.
type Registry interface {
	Lookup(ctx context.Context, pkg string, refresh bool) ([]semver.RegistryVersion, error)
}

// Options steer one check run.
type Options struct {
	IncludeDev bool     // check require-dev entries too
	AllowMajor bool     // let the selector cross major boundaries
	Minor      bool     // report minor updates
	Patch      bool     // report patch updates
	Exclude    []string // package names to skip entirely
	Refresh    bool     // bypass the registry cache
	Runtime    string   // consumer PHP constraint override; default manifest php
}

// Row is the outcome for one package.
type Row struct {
	Package string
	Dev     bool
	Current string // declared constraint, verbatim

	// Candidate fields are empty when no update is reported.
	Candidate     string // selected target version
	NewConstraint string // Current reformatted onto Candidate
	Severity      semver.DiffType
	Released      time.Time

	MajorAvailable      string
	RuntimeIncompatible bool
	SkippedVersion      string
	Deprecated          bool
	ReplacedBy          string

	// Err records a failed lookup; the row carries no other facts then.
	Err error
}

// HasUpdate reports whether the row proposes a constraint change.
func (r Row) HasUpdate() bool {
	return r.Err == nil && r.Severity != ""
}

// Report is the outcome of a full check run.
type Report struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration
	Manifest string
	Rows     []Row
}

// Updates returns the rows that propose a constraint change.
func (r *Report) Updates() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.HasUpdate() {
			out = append(out, row)
		}
	}
	return out
}

// Failed returns the rows whose lookup failed.
func (r *Report) Failed() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Err != nil {
			out = append(out, row)
		}
	}
	return out
}

// Edits converts the report's updates into manifest edits.
func (r *Report) Edits() []composer.Edit {
	var edits []composer.Edit
	for _, row := range r.Updates() {
		edits = append(edits, composer.Edit{
			Name: row.Package,
			From: row.Current,
			To:   row.NewConstraint,
		})
	}
	return edits
}

// Updater runs checks against a registry.
type Updater struct {
	registry Registry
	logger   *log.Logger
}

// New creates an Updater. A nil logger discards diagnostics.
func New(registry Registry, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Updater{registry: registry, logger: logger}
}

// Check looks up every checkable package of the manifest and reports the
// selected update candidates. Rows come back in the manifest's sorted
// package order regardless of lookup completion order.
//
// One package's lookup failure does not fail the run: the row records the
// error and the remaining packages are still checked. Check itself fails
// only when ctx is cancelled.
func (u *Updater) Check(ctx context.Context, m *composer.Manifest, opts Options) (*Report, error) {
	report := &Report{
		ID:       uuid.New(),
		Started:  time.Now(),
		Manifest: m.Path,
	}

	reqs := filterExcluded(m.Packages(opts.IncludeDev), opts.Exclude)
	report.Rows = make([]Row, len(reqs))

	runtime := opts.Runtime
	if runtime == "" {
		runtime = m.PHP
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report.Rows[i] = u.check(ctx, reqs[i], m, runtime, opts)
			}
		}()
	}

	for i := range reqs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}

// check runs the lookup and selection pipeline for one requirement.
func (u *Updater) check(ctx context.Context, req composer.Requirement, m *composer.Manifest, runtime string, opts Options) Row {
	row := Row{Package: req.Name, Dev: req.Dev, Current: req.Constraint}

	versions, err := u.registry.Lookup(ctx, req.Name, opts.Refresh)
	if err != nil {
		u.logger.Warn("lookup failed", "package", req.Name, "error", err)
		row.Err = err
		return row
	}

	sel, ok := semver.Select(versions, semver.Policy{
		MinimumStability: m.MinimumStability,
		PreferStable:     m.PreferStable,
		AllowMajor:       opts.AllowMajor,
		Current:          req.Constraint,
		Runtime:          runtime,
	})
	if !ok {
		return row
	}

	row.MajorAvailable = sel.MajorAvailable
	row.RuntimeIncompatible = sel.RuntimeIncompatible
	row.SkippedVersion = sel.SkippedVersion
	row.Deprecated = sel.Deprecated
	row.ReplacedBy = sel.ReplacedBy

	severity, ok := semver.Diff(req.Constraint, sel.Version)
	if !ok || !u.allowed(severity, opts) {
		return row
	}

	row.Candidate = sel.Version
	row.NewConstraint = semver.Reformat(req.Constraint, sel.Version)
	row.Severity = severity
	row.Released = sel.Released
	return row
}

func (u *Updater) allowed(severity semver.DiffType, opts Options) bool {
	switch severity {
	case semver.DiffMajor:
		return opts.AllowMajor
	case semver.DiffMinor:
		return opts.Minor
	case semver.DiffPatch:
		return opts.Patch
	default:
		return false
	}
}

func filterExcluded(reqs []composer.Requirement, exclude []string) []composer.Requirement {
	if len(exclude) == 0 {
		return reqs
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	var out []composer.Requirement
	for _, req := range reqs {
		if !skip[req.Name] {
			out = append(out, req)
		}
	}
	return out
}
