package rules

import "fmt"

// Source identifies where a field reference reads its value from.
type Source string

const (
	// SourcePortal reads from the portal document.
	SourcePortal Source = "portal"

	// SourceDoc reads from a named document source.
	SourceDoc Source = "doc"
)

// Severity is the configured severity of a rule. It is informational and
// never affects status aggregation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// RuleType is the closed set of cross-source rule kinds.
type RuleType string

const (
	RuleTypeEquality         RuleType = "equality"
	RuleTypeInSet            RuleType = "in_set"
	RuleTypeRegex            RuleType = "regex"
	RuleTypeDateWithinYear   RuleType = "date_within_year"
	RuleTypePageCountBetween RuleType = "page_count_between"
	RuleTypeFlagsMatch       RuleType = "flags_match"
)

// RuleTypes lists every supported rule type.
var RuleTypes = []RuleType{
	RuleTypeEquality,
	RuleTypeInSet,
	RuleTypeRegex,
	RuleTypeDateWithinYear,
	RuleTypePageCountBetween,
	RuleTypeFlagsMatch,
}

// DefaultMaxPages is the upper page bound used when a page count rule does
// not configure one.
const DefaultMaxPages = 1_000_000_000

// FieldRef points at a single field in the portal document or in a named
// document source. DocType is required when Source is SourceDoc.
type FieldRef struct {
	Source  Source `yaml:"source" json:"source"`
	Field   string `yaml:"field" json:"field"`
	DocType string `yaml:"doc_type,omitempty" json:"doc_type,omitempty"`
}

// String returns the reference in "<source>.<field>" form.
func (r FieldRef) String() string {
	if r.Source == SourceDoc {
		return fmt.Sprintf("doc(%s).%s", r.DocType, r.Field)
	}
	return fmt.Sprintf("%s.%s", r.Source, r.Field)
}

// PortalFieldValidation holds the single-field constraints for one portal
// field. Nil pointers and nil slices mean "not configured".
type PortalFieldValidation struct {
	Type          string   `yaml:"type,omitempty" json:"type,omitempty"`
	Required      bool     `yaml:"required" json:"required"`
	Pattern       *string  `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	AllowedValues []string `yaml:"allowed_values,omitempty" json:"allowed_values,omitempty"`
	MinLength     *int     `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength     *int     `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// PortalField pairs a field name with its validation. Config keeps these in
// document order.
type PortalField struct {
	Name       string
	Validation PortalFieldValidation
}

// Config is the parsed rule configuration.
type Config struct {
	PortalFields     []PortalField
	CrossSourceRules []Rule
}

// Field returns the validation configured for name.
func (c *Config) Field(name string) (PortalFieldValidation, bool) {
	for _, f := range c.PortalFields {
		if f.Name == name {
			return f.Validation, true
		}
	}
	return PortalFieldValidation{}, false
}

// Rule is a cross-source rule. The set of implementations is closed; callers
// switch on the concrete type.
type Rule interface {
	// Meta returns the identifying fields shared by every rule.
	Meta() RuleMeta

	// Type returns the rule kind.
	Type() RuleType

	rule()
}

// RuleMeta carries the identity of a rule into its results.
type RuleMeta struct {
	ID          string
	Description string
	Severity    Severity
}

// Meta returns m.
func (m RuleMeta) Meta() RuleMeta { return m }

// EqualityRule passes when two referenced values have equal trimmed string
// forms.
type EqualityRule struct {
	RuleMeta
	Left  *FieldRef
	Right *FieldRef
}

// InSetRule passes when the target value is one of AllowedValues.
type InSetRule struct {
	RuleMeta
	Target        *FieldRef
	AllowedValues []string
}

// RegexRule passes when the target value matches Regex at its start.
type RegexRule struct {
	RuleMeta
	Target *FieldRef
	Regex  string
}

// DateWithinYearRule passes when the target date's year is within YearDelta
// years of the current year.
type DateWithinYearRule struct {
	RuleMeta
	Target    *FieldRef
	YearDelta int
}

// PageCountRule passes when the page count of the target document lies in
// [MinPages, MaxPages].
type PageCountRule struct {
	RuleMeta
	Target   *FieldRef
	MinPages int
	MaxPages int
}

// FlagExpectation is one expected boolean flag of a FlagsMatchRule.
type FlagExpectation struct {
	Field    string `yaml:"field" json:"field"`
	Expected bool   `yaml:"expected" json:"expected"`
}

// FlagsMatchRule passes when every listed flag of the target document has
// the expected truthiness.
type FlagsMatchRule struct {
	RuleMeta
	Target *FieldRef
	Flags  []FlagExpectation
}

func (EqualityRule) Type() RuleType       { return RuleTypeEquality }
func (InSetRule) Type() RuleType          { return RuleTypeInSet }
func (RegexRule) Type() RuleType          { return RuleTypeRegex }
func (DateWithinYearRule) Type() RuleType { return RuleTypeDateWithinYear }
func (PageCountRule) Type() RuleType      { return RuleTypePageCountBetween }
func (FlagsMatchRule) Type() RuleType     { return RuleTypeFlagsMatch }

func (EqualityRule) rule()       {}
func (InSetRule) rule()          {}
func (RegexRule) rule()          {}
func (DateWithinYearRule) rule() {}
func (PageCountRule) rule()      {}
func (FlagsMatchRule) rule()     {}
