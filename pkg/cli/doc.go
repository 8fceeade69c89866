/*
Package cli provides command-line helpers for the vendorgate command.

Errors and exit codes:

Commands return *ConfigError for unusable configuration and *CLIError for
everything else. ExitCode maps an error to the process exit status:

	0  success
	1  command failed
	2  configuration error
	3  validation completed with failures

Output formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Values implementing Table can also be written as CSV.

Signals:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
