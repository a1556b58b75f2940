package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/pithecene-io/debfetch/deb"
	"github.com/pithecene-io/debfetch/manifest"
)

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		// Supported: inspect views
		{"inspect_deb", true},
		{"inspect_manifest", true},

		// Supported: stats views
		{"stats_manifest", true},

		// Not supported: download and resolve
		{"download", false},
		{"resolve", false},

		// Not supported: version
		{"version", false},

		// Not supported: unknown
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			got := IsTUISupported(tt.viewType)
			if got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestSupportedTUIViews(t *testing.T) {
	views := SupportedTUIViews()

	if len(views) != 3 {
		t.Errorf("SupportedTUIViews() returned %d views, expected 3", len(views))
	}

	for _, v := range views {
		if !IsTUISupported(v) {
			t.Errorf("SupportedTUIViews() returned %q but IsTUISupported returns false", v)
		}
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	if err := Run("download", nil); err == nil {
		t.Error("Expected error for unsupported view type")
	}
}

func TestInspectDebView(t *testing.T) {
	control := deb.ParseControlText(
		"Package: hello\nVersion: 2.10-3\nArchitecture: amd64\nDepends: libc6 (>= 2.34)\n")

	view := NewInspectModel("inspect_deb", control).View()
	for _, want := range []string{"hello", "2.10-3", "libc6"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestInspectManifestView(t *testing.T) {
	report := &manifest.Report{
		Tool:       "0.2.0",
		Package:    "hello",
		Version:    "latest",
		Series:     "noble",
		Arch:       "amd64",
		Depth:      1,
		StartedAt:  time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC),
		Artifacts: []manifest.Artifact{
			{Name: "hello_2.10-3_amd64.deb", Location: "/data/hello_2.10-3_amd64.deb"},
		},
		Dependencies: []string{"libc6"},
	}

	view := NewInspectModel("inspect_manifest", report).View()
	for _, want := range []string{"hello", "noble", "libc6", "success"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestInspectView_WrongDataType(t *testing.T) {
	view := NewInspectModel("inspect_deb", "not a control").View()
	if !strings.Contains(view, "Invalid data type") {
		t.Errorf("expected invalid data type message, got %q", view)
	}
}

func TestStatsManifestView(t *testing.T) {
	report := &manifest.Report{Package: "hello"}
	report.Metrics.Lookups = 3
	report.Metrics.ArtifactsFetched = 2

	view := NewStatsModel("stats_manifest", report).View()
	for _, want := range []string{"hello", "Lookups", "Fetched"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
