package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/registry"
)

var registryFlags struct {
	document bool
	format   string
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Commercial registry tools",
	Long:  `Look up commercial registration records the way document gathering does.`,
}

var registryFetchCmd = &cobra.Command{
	Use:   "fetch <cr-number>",
	Short: "Fetch one commercial registration record",
	Long: `Fetch one commercial registration record from the registry, using the
configured cache.

Examples:
  # Print the record
  vendorgate registry fetch 1010123456

  # Print the moc_certificate document built from the record
  vendorgate registry fetch 1010123456 --document --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runRegistryFetch,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryFetchCmd)

	registryFetchCmd.Flags().BoolVar(&registryFlags.document, "document", false, "print the derived moc_certificate document")
	registryFetchCmd.Flags().StringVar(&registryFlags.format, "format", "text", "output format: text, json")
}

func runRegistryFetch(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(registryFlags.format)
	if err != nil {
		return cli.NewCommandError("registry fetch", err)
	}
	if format == cli.FormatCSV {
		return cli.NewCommandError("registry fetch", fmt.Errorf("csv output is not supported"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Registry.Enabled = true
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("registry", err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	rec, err := a.registry.Lookup(ctx, args[0])
	if errors.Is(err, registry.ErrNotFound) {
		return cli.NewValidationFailure("registry fetch", fmt.Errorf("%s: %w", args[0], err))
	}
	if err != nil {
		return cli.NewCommandError("registry fetch", err)
	}

	out := commandOutput(cmd)
	if registryFlags.document {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(out, rec.ToDocument())
	}
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, rec)
	}
	fmt.Fprintf(out, "CR Number:  %s\n", rec.CRNumber)
	fmt.Fprintf(out, "Company:    %s\n", rec.CompanyName)
	fmt.Fprintf(out, "Issue Date: %s\n", rec.IssueDateGregorian)
	return nil
}
