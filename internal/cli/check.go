package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qoqn/comze/pkg/composer"
	"github.com/qoqn/comze/pkg/packagist"
	"github.com/qoqn/comze/pkg/updater"
)

// ErrUpdatesAvailable is returned by `check --ci` when at least one update
// exists, so main can translate it into a non-zero exit.
var ErrUpdatesAvailable = errors.New("updates available")

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	major       bool     // report and select major updates
	minor       bool     // report minor updates
	patch       bool     // report patch updates
	dev         bool     // include require-dev
	exclude     []string // packages to skip, merged with config excludes
	runtime     string   // PHP constraint override
	write       bool     // rewrite composer.json in place
	install     bool     // run composer update after writing
	interactive bool     // pick updates in a checklist before applying
	dryRun      bool     // preview the rewritten manifest without writing
	noCache     bool     // disable the metadata cache
	refresh     bool     // bypass cached metadata for this run
	ci          bool     // exit non-zero when updates exist
	format      string   // text or json
}

// defaultCheckOpts are the options for a bare `comze` invocation.
func defaultCheckOpts() checkOpts {
	return checkOpts{minor: true, patch: true, dev: true, format: "text"}
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := defaultCheckOpts()

	cmd := &cobra.Command{
		Use:   "check [composer.json]",
		Short: "Check composer.json dependencies for updates",
		Long: `Check a project's composer.json against Packagist and report available updates.

The argument may be a composer.json file or a directory containing one;
it defaults to the working directory.

Examples:
  comze check                        # check ./composer.json
  comze check ~/src/app              # check a project directory
  comze check --major --write        # apply updates including major bumps
  comze check --ci --format json     # machine-readable, exit 1 on updates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "composer.json"
			if len(args) == 1 {
				path = args[0]
			}
			if opts.format != "text" && opts.format != "json" {
				return fmt.Errorf("unknown format %q (expected text or json)", opts.format)
			}
			return c.runCheck(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.major, "major", opts.major, "include major updates (crosses breaking-change boundaries)")
	cmd.Flags().BoolVar(&opts.minor, "minor", opts.minor, "include minor updates")
	cmd.Flags().BoolVar(&opts.patch, "patch", opts.patch, "include patch updates")
	cmd.Flags().BoolVar(&opts.dev, "dev", opts.dev, "include require-dev packages")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "packages to skip (repeatable)")
	cmd.Flags().StringVar(&opts.runtime, "php", "", "PHP version constraint override (default: manifest require.php)")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite composer.json with the new constraints")
	cmd.Flags().BoolVar(&opts.install, "install", false, "run composer update after writing (implies --write)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick updates to apply in a checklist")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the rewritten manifest without touching the file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached metadata for this run")
	cmd.Flags().BoolVar(&opts.ci, "ci", false, "exit with status 1 when updates are available")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")

	return cmd
}

// runCheck executes the full check pipeline against one manifest.
func (c *CLI) runCheck(ctx context.Context, path string, opts checkOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	manifestPath := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		manifestPath = filepath.Join(path, "composer.json")
	}

	manifest, err := composer.Load(manifestPath)
	if err != nil {
		return err
	}

	store := c.newCache(ctx, opts.noCache, cfg)
	defer store.Close()

	client := packagist.NewClient(store, cfg.Registry, cfg.ttl())
	u := updater.New(client, c.Logger)

	total := len(manifest.Packages(opts.dev))
	quiet := opts.format == "json"

	var spinner *Spinner
	if !quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Checking %d packages...", total))
		spinner.Start()
	}

	report, err := u.Check(ctx, manifest, updater.Options{
		IncludeDev: opts.dev,
		AllowMajor: opts.major,
		Minor:      opts.minor,
		Patch:      opts.patch,
		Exclude:    append(cfg.Exclude, opts.exclude...),
		Refresh:    opts.refresh,
		Runtime:    opts.runtime,
	})
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Check failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}

	if quiet {
		if err := renderJSON(os.Stdout, report); err != nil {
			return err
		}
		return c.finishCheck(ctx, manifestPath, manifest, report.Updates(), opts, cfg, true)
	}

	renderReport(report)
	return c.finishCheck(ctx, manifestPath, manifest, report.Updates(), opts, cfg, false)
}

// finishCheck handles everything after rendering: interactive selection,
// dry-run preview, manifest rewrite, install, and the CI exit signal.
func (c *CLI) finishCheck(ctx context.Context, manifestPath string, manifest *composer.Manifest, updates []updater.Row, opts checkOpts, cfg Config, quiet bool) error {
	if len(updates) == 0 {
		return nil
	}

	selected := updates
	if opts.interactive && !quiet {
		var err error
		selected, err = selectUpdates(updates)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			printInfo("No updates selected")
			return c.ciResult(updates, opts)
		}
	}

	edits := make([]composer.Edit, 0, len(selected))
	names := make([]string, 0, len(selected))
	for _, row := range selected {
		edits = append(edits, composer.Edit{Name: row.Package, From: row.Current, To: row.NewConstraint})
		names = append(names, row.Package)
	}

	switch {
	case opts.dryRun:
		rewritten, err := manifest.Apply(edits)
		if err != nil {
			return err
		}
		// The JSON report already carries the proposed constraints; the
		// manifest preview is for human eyes only.
		if !quiet {
			printInfo("Dry run, composer.json left untouched:")
			printNewline()
			fmt.Print(string(rewritten))
		}

	case opts.write || opts.install:
		if err := manifest.Write(edits); err != nil {
			return err
		}
		if !quiet {
			printSuccess("Updated %d constraint(s)", len(edits))
			printFile(manifestPath)
		}
		if opts.install {
			installer := &composer.Installer{Binary: cfg.Composer, Stdout: os.Stdout, Stderr: os.Stderr}
			if err := installer.Update(ctx, manifestPath, names); err != nil {
				return err
			}
			if !quiet {
				printSuccess("Installed new versions")
			}
		} else if !quiet {
			printNextStep("Install the new versions", "composer update")
		}

	default:
		if !quiet {
			printNextStep("Apply these constraints", "comze check --write")
		}
	}

	return c.ciResult(updates, opts)
}

// ciResult maps available updates onto the CI exit contract.
func (c *CLI) ciResult(updates []updater.Row, opts checkOpts) error {
	if opts.ci && len(updates) > 0 {
		return ErrUpdatesAvailable
	}
	return nil
}
