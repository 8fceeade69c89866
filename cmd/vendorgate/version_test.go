package main

import (
	"strings"
	"testing"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = "0.1.0-test", "abc123", "2026-10-01"
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	cmd, buf := newTestCommand()
	versionCmd.Run(cmd, nil)

	out := buf.String()
	for _, want := range []string{"Vendorgate 0.1.0-test", "Git Commit: abc123", "Build Date: 2026-10-01", "Go Version: go"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	want := []string{"serve", "validate", "lint", "batch", "registry", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rootCmd has no %q subcommand", name)
		}
	}
}
