package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitConfig           = 2
	ExitValidationFailed = 3
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.Message
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CLIError represents a failed command together with its exit code.
type CLIError struct {
	Command string
	Code    int
	Err     error
}

func (e *CLIError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a CLIError with ExitError.
func NewCommandError(command string, err error) *CLIError {
	return &CLIError{Command: command, Code: ExitError, Err: err}
}

// NewValidationFailure creates a CLIError with ExitValidationFailed, used
// when a command ran to completion but found failing checks.
func NewValidationFailure(command string, err error) *CLIError {
	return &CLIError{Command: command, Code: ExitValidationFailed, Err: err}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Code != 0 {
		return cliErr.Code
	}
	return ExitError
}
