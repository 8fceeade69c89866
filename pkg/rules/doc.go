// Package rules defines the declarative rule configuration consumed by the
// validation engine and loads it from YAML or JSON documents.
//
// # Configuration Shape
//
// A configuration has two sections:
//
//	portal_field_validations:
//	  email:
//	    required: true
//	    pattern: "^\\S+@\\S+$"
//	cross_source_rules:
//	  - id: CR_MATCH
//	    description: CR number matches certificate
//	    rule_type: equality
//	    left:  {source: portal, field: cr_number}
//	    right: {source: doc, doc_type: moc_certificate, field: cr_number}
//
// Portal field validations are evaluated in the order they appear in the
// document. Cross-source rules are decoded into one of six concrete types
// implementing [Rule]: [EqualityRule], [InSetRule], [RegexRule],
// [DateWithinYearRule], [PageCountRule] and [FlagsMatchRule].
//
// # Strictness
//
// Loading rejects unknown rule types, sources and severities, and rules
// without an id or description. Incomplete rule payloads (an equality rule
// without a right-hand side, a regex rule without a regex) load successfully
// and are reported as failing results at evaluation time. [Lint] reports
// them ahead of time.
//
// A loaded [Config] is never mutated and may be shared freely.
package rules
