package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/config"
)

// newTestCommand returns a command whose stdout is captured.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	return cmd, &buf
}

// useRules points the config at a rule file and quiets logging.
func useRules(t *testing.T, path string) {
	t.Helper()
	t.Setenv(config.EnvRulesPath, path)

	origCfg, origLevel := cfgFile, logLevel
	cfgFile, logLevel = "", "error"
	t.Cleanup(func() {
		cfgFile, logLevel = origCfg, origLevel
	})
}
