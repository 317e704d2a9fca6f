package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/qoqn/comze/pkg/semver"
	"github.com/qoqn/comze/pkg/updater"
)

func sampleReport() *updater.Report {
	return &updater.Report{
		ID:       uuid.New(),
		Started:  time.Now().Add(-2 * time.Second),
		Duration: 2 * time.Second,
		Manifest: "composer.json",
		Rows: []updater.Row{
			{
				Package:       "monolog/monolog",
				Current:       "^2.0",
				Candidate:     "2.9.2",
				NewConstraint: "^2.9.2",
				Severity:      semver.DiffMinor,
				Released:      time.Now().Add(-48 * time.Hour),
			},
			{
				Package:             "symfony/console",
				Current:             "^5.4",
				MajorAvailable:      "6.4.0",
				RuntimeIncompatible: true,
				SkippedVersion:      "5.4.99",
			},
			{
				Package: "twig/twig",
				Current: "^3.4",
			},
		},
	}
}

func TestRowNotes(t *testing.T) {
	tests := []struct {
		name string
		row  updater.Row
		want string
	}{
		{
			name: "no facts",
			row:  updater.Row{Package: "twig/twig"},
			want: "",
		},
		{
			name: "major available",
			row:  updater.Row{MajorAvailable: "3.0.0"},
			want: "major 3.0.0 available",
		},
		{
			name: "runtime skip",
			row:  updater.Row{RuntimeIncompatible: true, SkippedVersion: "2.0.0"},
			want: "2.0.0 needs newer PHP",
		},
		{
			name: "abandoned with replacement",
			row:  updater.Row{Deprecated: true, ReplacedBy: "new/pkg"},
			want: "abandoned, use new/pkg",
		},
		{
			name: "abandoned without replacement",
			row:  updater.Row{Deprecated: true},
			want: "abandoned",
		},
		{
			name: "combined",
			row:  updater.Row{RuntimeIncompatible: true, SkippedVersion: "2.0.0", MajorAvailable: "2.0.0"},
			want: "2.0.0 needs newer PHP, major 2.0.0 available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rowNotes(tt.row); got != tt.want {
				t.Errorf("rowNotes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableRows(t *testing.T) {
	rows := tableRows(sampleReport())

	// The minor update and the noteworthy row make the cut, the quiet
	// up-to-date row does not.
	if len(rows) != 2 {
		t.Fatalf("tableRows() returned %d rows, want 2", len(rows))
	}
	if rows[0].row.Package != "monolog/monolog" {
		t.Errorf("rows[0] = %q, want monolog/monolog", rows[0].row.Package)
	}
	if rows[0].cells[2] != "^2.9.2" {
		t.Errorf("target cell = %q, want ^2.9.2", rows[0].cells[2])
	}
	if rows[1].cells[2] != "-" {
		t.Errorf("no-update target cell = %q, want -", rows[1].cells[2])
	}
}

func TestRenderJSON(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	if err := renderJSON(&buf, report); err != nil {
		t.Fatalf("renderJSON error: %v", err)
	}

	var decoded jsonReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.ID != report.ID.String() {
		t.Errorf("id = %q, want %q", decoded.ID, report.ID.String())
	}
	if len(decoded.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(decoded.Rows))
	}
	if decoded.Rows[0].NewConstraint != "^2.9.2" {
		t.Errorf("new_constraint = %q, want ^2.9.2", decoded.Rows[0].NewConstraint)
	}
	if decoded.Rows[0].Released == nil {
		t.Error("released should be set for the update row")
	}
	if decoded.Rows[2].Released != nil {
		t.Error("released should be omitted for the quiet row")
	}
	if !decoded.Rows[1].RuntimeIncompatible {
		t.Error("runtime_incompatible should survive the round trip")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "-"},
		{"minutes", time.Now().Add(-30 * time.Minute), "30m ago"},
		{"hours", time.Now().Add(-5 * time.Hour), "5h ago"},
		{"days", time.Now().Add(-3 * 24 * time.Hour), "3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("old dates are absolute", func(t *testing.T) {
		old := time.Date(2020, time.March, 14, 0, 0, 0, 0, time.UTC)
		if got := formatRelativeTime(old); !strings.Contains(got, "2020") {
			t.Errorf("formatRelativeTime() = %q, want absolute 2020 date", got)
		}
	})
}
