package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abhiatluri/NutritionTracker/internal/config"
)

// TestNewRootCmd tests command registration and metadata.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "nutritiontracker" {
		t.Errorf("Use = %q, want nutritiontracker", cmd.Use)
	}

	want := map[string]bool{
		"scan":      false,
		"receipt":   false,
		"locations": false,
		"version":   false,
	}
	for _, sub := range cmd.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing persistent verbose flag")
	}
}

// TestVersionCmd tests version output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "nutritiontracker version") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

// TestBuildScanConfig tests flag-to-config mapping.
func TestBuildScanConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildScanConfig(cmd)
		if err != nil {
			t.Fatalf("buildScanConfig() error = %v", err)
		}

		if cfg.Concurrency != config.DefaultConcurrency {
			t.Errorf("concurrency = %d, want %d", cfg.Concurrency, config.DefaultConcurrency)
		}
		if len(cfg.Locations) != len(config.DefaultLocations()) {
			t.Errorf("locations = %v, want defaults", cfg.Locations)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB by default")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config invalid: %v", err)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		args := []string{
			"--date", "01-15-2026",
			"--locations", "Wiley,Earhart",
			"--concurrency", "2",
			"--no-db",
			"--markdown",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildScanConfig(cmd)
		if err != nil {
			t.Fatalf("buildScanConfig() error = %v", err)
		}

		if cfg.Date != "01-15-2026" {
			t.Errorf("date = %q", cfg.Date)
		}
		if len(cfg.Locations) != 2 || cfg.Locations[0] != "Wiley" {
			t.Errorf("locations = %v", cfg.Locations)
		}
		if cfg.Concurrency != 2 {
			t.Errorf("concurrency = %d", cfg.Concurrency)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB disabled with --no-db")
		}
		if !cfg.MarkdownReport {
			t.Error("expected markdown report selected")
		}
	})

	t.Run("conflicting report formats fail validation", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildScanConfig(cmd)
		if err != nil {
			t.Fatalf("buildScanConfig() error = %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error for --json with --markdown")
		}
	})

	t.Run("explicit missing config file fails", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/config.yaml"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		if _, err := buildScanConfig(cmd); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}
