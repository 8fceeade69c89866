package rules

import "fmt"

// IssueLevel classifies a lint finding.
type IssueLevel string

const (
	// LevelError marks a defect that makes a check fail on every run.
	LevelError IssueLevel = "error"

	// LevelWarning marks a suspicious but evaluable configuration.
	LevelWarning IssueLevel = "warning"
)

// Issue is a single lint finding.
type Issue struct {
	Subject string     `json:"subject"`
	Level   IssueLevel `json:"level"`
	Message string     `json:"message"`
}

// String returns the issue in "level subject: message" form.
func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Level, i.Subject, i.Message)
}

// Lint reports configuration defects that loading accepts but that turn
// into failing results at evaluation time.
func Lint(cfg *Config) []Issue {
	var issues []Issue
	add := func(subject string, level IssueLevel, format string, args ...any) {
		issues = append(issues, Issue{Subject: subject, Level: level, Message: fmt.Sprintf(format, args...)})
	}

	for _, f := range cfg.PortalFields {
		subject := "portal." + f.Name
		v := f.Validation
		if v.Pattern != nil {
			if _, err := CompilePattern(*v.Pattern); err != nil {
				add(subject, LevelError, "pattern does not compile: %v", err)
			}
		}
		if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
			add(subject, LevelWarning, "min_length %d exceeds max_length %d", *v.MinLength, *v.MaxLength)
		}
		if !v.Required && v.Pattern == nil && len(v.AllowedValues) == 0 && v.MinLength == nil && v.MaxLength == nil {
			add(subject, LevelWarning, "optional field has no constraints")
		}
	}

	ids := make(map[string]bool, len(cfg.CrossSourceRules))
	for i, r := range cfg.CrossSourceRules {
		m := r.Meta()
		subject := m.ID
		if subject == "" {
			subject = fmt.Sprintf("cross_source_rules[%d]", i)
			add(subject, LevelWarning, "rule id is empty")
		} else if ids[m.ID] {
			add(subject, LevelWarning, "duplicate rule id")
		}
		ids[m.ID] = true
		if m.Description == "" {
			add(subject, LevelWarning, "rule description is empty")
		}

		for _, msg := range payloadProblems(r) {
			add(subject, LevelError, "%s", msg)
		}
	}
	return issues
}

func payloadProblems(r Rule) []string {
	var out []string
	checkRef := func(name string, ref *FieldRef) {
		if ref == nil {
			out = append(out, name+" is required")
			return
		}
		if ref.Source == SourceDoc && ref.DocType == "" {
			out = append(out, name+".doc_type is required for doc source")
		}
	}
	requireDocType := func(ref *FieldRef) {
		if ref == nil {
			out = append(out, "target is required")
			return
		}
		if ref.DocType == "" {
			out = append(out, "target.doc_type is required")
		}
	}

	switch rule := r.(type) {
	case EqualityRule:
		checkRef("left", rule.Left)
		checkRef("right", rule.Right)
	case InSetRule:
		checkRef("target", rule.Target)
		if len(rule.AllowedValues) == 0 {
			out = append(out, "allowed_values is required")
		}
	case RegexRule:
		checkRef("target", rule.Target)
		if rule.Regex == "" {
			out = append(out, "regex is required")
		} else if _, err := CompilePattern(rule.Regex); err != nil {
			out = append(out, fmt.Sprintf("regex does not compile: %v", err))
		}
	case DateWithinYearRule:
		checkRef("target", rule.Target)
	case PageCountRule:
		requireDocType(rule.Target)
		if rule.MinPages > rule.MaxPages {
			out = append(out, fmt.Sprintf("min_pages %d exceeds max_pages %d", rule.MinPages, rule.MaxPages))
		}
	case FlagsMatchRule:
		requireDocType(rule.Target)
		if len(rule.Flags) == 0 {
			out = append(out, "flags is required")
		}
	}
	return out
}
