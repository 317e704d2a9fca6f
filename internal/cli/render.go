package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/qoqn/comze/pkg/updater"
)

// renderReport prints the human-readable check outcome: a summary line, a
// table of actionable rows, and any failed lookups.
func renderReport(report *updater.Report) {
	rows := tableRows(report)
	updates := report.Updates()
	failed := report.Failed()

	printNewline()
	if len(updates) == 0 {
		printSuccess("All %d packages are up to date", len(report.Rows)-len(failed))
	} else {
		printInfo("%d of %d packages have updates", len(updates), len(report.Rows))
	}

	if len(rows) > 0 {
		printNewline()
		fmt.Println(updatesTable(rows))
	}

	for _, row := range failed {
		printError("%s: %v", row.Package, row.Err)
	}
	if len(failed) > 0 {
		printDetail("%d lookup(s) failed, rerun with --refresh or -v for details", len(failed))
	}
	printNewline()
}

// tableRow pairs a report row with its rendered cells so StyleFunc can
// color by severity.
type tableRow struct {
	row   updater.Row
	cells []string
}

// tableRows selects the rows worth showing: proposed updates plus rows
// that carry a notable fact even without one.
func tableRows(report *updater.Report) []tableRow {
	var out []tableRow
	for _, row := range report.Rows {
		if row.Err != nil {
			continue
		}
		note := rowNotes(row)
		if !row.HasUpdate() && note == "" {
			continue
		}

		target, severity, age := "-", "-", "-"
		if row.HasUpdate() {
			target = row.NewConstraint
			severity = string(row.Severity)
			age = formatRelativeTime(row.Released)
		}
		out = append(out, tableRow{row: row, cells: []string{
			row.Package, row.Current, target, severity, age, note,
		}})
	}
	return out
}

// updatesTable renders the selected rows as a bordered table.
func updatesTable(rows []tableRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Current", "Target", "Severity", "Released", "Notes").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			r := rows[row].row
			switch col {
			case 3:
				return severityStyle(r.Severity)
			case 4, 5:
				return StyleDim
			default:
				return lipgloss.NewStyle()
			}
		}).
		String()
}

// rowNotes summarizes a row's auxiliary facts for the Notes column.
func rowNotes(row updater.Row) string {
	var notes []string
	if row.RuntimeIncompatible && row.SkippedVersion != "" {
		notes = append(notes, fmt.Sprintf("%s needs newer PHP", row.SkippedVersion))
	}
	if row.MajorAvailable != "" {
		notes = append(notes, fmt.Sprintf("major %s available", row.MajorAvailable))
	}
	if row.Deprecated {
		if row.ReplacedBy != "" {
			notes = append(notes, fmt.Sprintf("abandoned, use %s", row.ReplacedBy))
		} else {
			notes = append(notes, "abandoned")
		}
	}
	return strings.Join(notes, ", ")
}

// jsonReport is the machine-readable report shape.
type jsonReport struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	Manifest string    `json:"manifest"`
	Rows     []jsonRow `json:"rows"`
}

type jsonRow struct {
	Package             string     `json:"package"`
	Dev                 bool       `json:"dev,omitempty"`
	Current             string     `json:"current"`
	Candidate           string     `json:"candidate,omitempty"`
	NewConstraint       string     `json:"new_constraint,omitempty"`
	Severity            string     `json:"severity,omitempty"`
	Released            *time.Time `json:"released,omitempty"`
	MajorAvailable      string     `json:"major_available,omitempty"`
	RuntimeIncompatible bool       `json:"runtime_incompatible,omitempty"`
	SkippedVersion      string     `json:"skipped_version,omitempty"`
	Deprecated          bool       `json:"deprecated,omitempty"`
	ReplacedBy          string     `json:"replaced_by,omitempty"`
	Error               string     `json:"error,omitempty"`
}

// renderJSON writes the report as indented JSON.
func renderJSON(w io.Writer, report *updater.Report) error {
	out := jsonReport{
		ID:       report.ID.String(),
		Started:  report.Started,
		Duration: report.Duration.String(),
		Manifest: report.Manifest,
		Rows:     make([]jsonRow, 0, len(report.Rows)),
	}
	for _, row := range report.Rows {
		jr := jsonRow{
			Package:             row.Package,
			Dev:                 row.Dev,
			Current:             row.Current,
			Candidate:           row.Candidate,
			NewConstraint:       row.NewConstraint,
			Severity:            string(row.Severity),
			MajorAvailable:      row.MajorAvailable,
			RuntimeIncompatible: row.RuntimeIncompatible,
			SkippedVersion:      row.SkippedVersion,
			Deprecated:          row.Deprecated,
			ReplacedBy:          row.ReplacedBy,
		}
		if !row.Released.IsZero() {
			released := row.Released
			jr.Released = &released
		}
		if row.Err != nil {
			jr.Error = row.Err.Error()
		}
		out.Rows = append(out.Rows, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatRelativeTime renders a release date relative to now, falling back
// to an absolute date for anything older than a week.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
