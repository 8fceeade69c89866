// Package validation evaluates a portal document and a set of extracted
// documents against a rule configuration and produces an ordered report.
//
// # Evaluation
//
// An [Engine] is built once from a [rules.Config]. Each call to
// [Engine.Validate] runs:
//
//  1. The portal field checks, in configuration order. Each field yields at
//     most one result: the first failing check among presence, pattern,
//     allowed values, minimum length and maximum length, or an OK result.
//     Optional fields that are absent or empty yield nothing.
//  2. The cross-source rules, in configuration order. Each rule yields
//     exactly one result.
//
// The summary status is FAIL if any result failed, otherwise WARNING if any
// result warned, otherwise PASS.
//
// # Fault Isolation
//
// Rule evaluators return a result and an error. A [*ConfigError] or
// [*EvaluationError] from one rule becomes a FAIL result for that rule and
// never prevents the remaining rules from running.
//
// # Field Resolution
//
// Portal references read top-level keys of the portal document. Document
// references read from the "fields" object of the named document when it has
// one, otherwise from the document itself. A document type that was not
// supplied resolves every field to nil.
//
// # Concurrency
//
// An Engine holds no per-call state. Validate is safe for concurrent use and
// performs no I/O.
package validation
