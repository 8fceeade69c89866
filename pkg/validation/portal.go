package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"mercator-hq/vendorgate/pkg/rules"
)

// portalCheck is a portal field validation with its pattern compiled.
type portalCheck struct {
	name       string
	cfg        rules.PortalFieldValidation
	pattern    *regexp.Regexp
	patternErr error
}

func newPortalCheck(f rules.PortalField) portalCheck {
	c := portalCheck{name: f.Name, cfg: f.Validation}
	if p := f.Validation.Pattern; p != nil && *p != "" {
		c.pattern, c.patternErr = rules.CompilePattern(*p)
	}
	return c
}

func (c portalCheck) result(prefix, description string, severity rules.Severity, status Status, message string) RuleResult {
	meta := rules.RuleMeta{
		ID:          prefix + "::" + c.name,
		Description: description,
		Severity:    severity,
	}
	return newResult(meta, status, message, nil)
}

func (c portalCheck) fail(prefix, description, message string) RuleResult {
	return c.result(prefix, description, rules.SeverityError, StatusFail, message)
}

// evaluate runs the checks for one portal field and returns at most one
// result. ok is false when the field is optional and not provided.
func (c portalCheck) evaluate(portal map[string]any) (res RuleResult, ok bool) {
	name := c.name
	raw := portal[name]

	if isBlank(raw) {
		if c.cfg.Required {
			return c.fail(PrefixRequired, name+" is required",
				fmt.Sprintf("Field '%s' is missing or empty.", name)), true
		}
		return RuleResult{}, false
	}

	value := Stringify(raw)

	if c.patternErr != nil {
		return c.fail(PrefixPattern, name+" must match pattern",
			fmt.Sprintf("Field '%s' pattern does not compile: %v", name, c.patternErr)), true
	}
	if c.pattern != nil && !c.pattern.MatchString(value) {
		return c.fail(PrefixPattern, name+" must match pattern",
			fmt.Sprintf("Field '%s' has invalid format: '%s'", name, value)), true
	}

	if len(c.cfg.AllowedValues) > 0 && !contains(c.cfg.AllowedValues, value) {
		return c.fail(PrefixInSet, name+" must be one of allowed values",
			fmt.Sprintf("Field '%s' has value '%s' not in [%s]", name, value, strings.Join(c.cfg.AllowedValues, ", "))), true
	}

	length := utf8.RuneCountInString(value)
	if minLen := c.cfg.MinLength; minLen != nil && length < *minLen {
		return c.fail(PrefixMinLen, fmt.Sprintf("%s must have at least %d characters", name, *minLen),
			fmt.Sprintf("Field '%s' is too short", name)), true
	}
	if maxLen := c.cfg.MaxLength; maxLen != nil && length > *maxLen {
		return c.fail(PrefixMaxLen, fmt.Sprintf("%s must have at most %d characters", name, *maxLen),
			fmt.Sprintf("Field '%s' is too long", name)), true
	}

	return c.result(PrefixOK, name+" basic validation", rules.SeverityWarning, StatusPass,
		fmt.Sprintf("Field '%s' passed basic validation.", name)), true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
