package validation

import "fmt"

// ConfigError reports a rule whose configuration is incomplete, such as a
// document reference without a document type.
type ConfigError struct {
	RuleID  string
	Message string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.RuleID == "" {
		return e.Message
	}
	return fmt.Sprintf("rule %s: %s", e.RuleID, e.Message)
}

// EvaluationError reports a failure while evaluating a rule against input
// values, such as a page count that is not an integer.
type EvaluationError struct {
	RuleID string
	Cause  error
}

// Error returns the error message.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
