package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mercator-hq/vendorgate/pkg/rules"
)

// Apply evaluates one cross-source rule. It always returns exactly one
// result; evaluator errors become a FAIL result carrying the error message.
func (e *Engine) Apply(rule rules.Rule, portal map[string]any, docs Documents) RuleResult {
	res, err := e.evaluate(rule, portal, docs)
	if err != nil {
		return newResult(rule.Meta(), StatusFail,
			"Exception while applying rule: "+errorMessage(err), nil)
	}
	return res
}

func errorMessage(err error) string {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Message
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) && evalErr.Cause != nil {
		return evalErr.Cause.Error()
	}
	return err.Error()
}

func (e *Engine) evaluate(rule rules.Rule, portal map[string]any, docs Documents) (RuleResult, error) {
	switch r := rule.(type) {
	case rules.EqualityRule:
		return evalEquality(r, portal, docs)
	case rules.InSetRule:
		return evalInSet(r, portal, docs)
	case rules.RegexRule:
		return e.evalRegex(r, portal, docs)
	case rules.DateWithinYearRule:
		return evalDateWithinYear(r, portal, docs, e.now())
	case rules.PageCountRule:
		return evalPageCount(r, docs)
	case rules.FlagsMatchRule:
		return evalFlagsMatch(r, docs)
	default:
		// Unreachable while every rule type has an evaluator.
		return newResult(rule.Meta(), StatusSkip,
			fmt.Sprintf("Unknown rule_type '%s'", rule.Type()), nil), nil
	}
}

func configError(meta rules.RuleMeta, format string, args ...any) *ConfigError {
	return &ConfigError{RuleID: meta.ID, Message: fmt.Sprintf(format, args...)}
}

func resolve(meta rules.RuleMeta, ref rules.FieldRef, portal map[string]any, docs Documents) (any, string, error) {
	v, path, err := Resolve(ref, portal, docs)
	if err == nil {
		return v, path, nil
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		cfgErr.RuleID = meta.ID
		return v, path, err
	}
	return v, path, &EvaluationError{RuleID: meta.ID, Cause: err}
}

func evalEquality(r rules.EqualityRule, portal map[string]any, docs Documents) (RuleResult, error) {
	if r.Left == nil || r.Right == nil {
		return RuleResult{}, configError(r.RuleMeta, "equality rule requires left and right")
	}
	left, leftPath, err := resolve(r.RuleMeta, *r.Left, portal, docs)
	if err != nil {
		return RuleResult{}, err
	}
	right, rightPath, err := resolve(r.RuleMeta, *r.Right, portal, docs)
	if err != nil {
		return RuleResult{}, err
	}

	if left == nil || right == nil {
		return newResult(r.RuleMeta, StatusFail,
			fmt.Sprintf("Missing values: %s=%s, %s=%s", leftPath, quote(left), rightPath, quote(right)),
			map[string]string{"left_path": leftPath, "right_path": rightPath}), nil
	}

	l, rv := Stringify(left), Stringify(right)
	ctx := map[string]string{"left": l, "right": rv}
	if strings.TrimSpace(l) == strings.TrimSpace(rv) {
		return newResult(r.RuleMeta, StatusPass,
			fmt.Sprintf("Values match for %s and %s", leftPath, rightPath), ctx), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("Values differ: %s='%s', %s='%s'", leftPath, l, rightPath, rv), ctx), nil
}

func evalInSet(r rules.InSetRule, portal map[string]any, docs Documents) (RuleResult, error) {
	if r.Target == nil {
		return RuleResult{}, configError(r.RuleMeta, "in_set rule requires target")
	}
	if len(r.AllowedValues) == 0 {
		return RuleResult{}, configError(r.RuleMeta, "in_set rule requires allowed_values")
	}
	value, path, err := resolve(r.RuleMeta, *r.Target, portal, docs)
	if err != nil {
		return RuleResult{}, err
	}
	if value == nil {
		return newResult(r.RuleMeta, StatusFail, "Missing value at "+path, nil), nil
	}

	s := Stringify(value)
	ctx := map[string]string{"value": s}
	if contains(r.AllowedValues, s) {
		return newResult(r.RuleMeta, StatusPass,
			fmt.Sprintf("%s value '%s' is allowed", path, s), ctx), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("%s value '%s' is not in allowed set [%s]", path, s, strings.Join(r.AllowedValues, ", ")), ctx), nil
}

func (e *Engine) evalRegex(r rules.RegexRule, portal map[string]any, docs Documents) (RuleResult, error) {
	if r.Target == nil {
		return RuleResult{}, configError(r.RuleMeta, "regex rule requires target")
	}
	if r.Regex == "" {
		return RuleResult{}, configError(r.RuleMeta, "regex rule requires regex")
	}
	re, err := e.compiled(r.Regex)
	if err != nil {
		return RuleResult{}, &EvaluationError{RuleID: r.ID, Cause: err}
	}

	value, path, err := resolve(r.RuleMeta, *r.Target, portal, docs)
	if err != nil {
		return RuleResult{}, err
	}
	s := Stringify(value)

	if re.MatchString(s) {
		return newResult(r.RuleMeta, StatusPass, path+" value matches regex", nil), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("%s value '%s' does not match regex '%s'", path, s, r.Regex), nil), nil
}

// dateLayouts are tried in order. Numeric day and month elements accept one
// or two digits.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

// ParseDate parses value with the first matching supported layout.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format '%s'", value)
}

func evalDateWithinYear(r rules.DateWithinYearRule, portal map[string]any, docs Documents, now time.Time) (RuleResult, error) {
	if r.Target == nil {
		return RuleResult{}, configError(r.RuleMeta, "date_within_year rule requires target")
	}
	value, path, err := resolve(r.RuleMeta, *r.Target, portal, docs)
	if err != nil {
		return RuleResult{}, err
	}
	if !Truthy(value) {
		return newResult(r.RuleMeta, StatusFail, path+" is missing", nil), nil
	}

	date, err := ParseDate(Stringify(value))
	if err != nil {
		return newResult(r.RuleMeta, StatusFail,
			fmt.Sprintf("%s date parse error: %v", path, err), nil), nil
	}

	iso := date.Format(time.DateOnly)
	diff := now.UTC().Year() - date.Year()
	if diff < 0 {
		diff = -diff
	}
	ctx := map[string]string{"date": iso, "year_diff": strconv.Itoa(diff)}
	if diff <= r.YearDelta {
		return newResult(r.RuleMeta, StatusPass,
			fmt.Sprintf("%s date %s is within %d year(s) of now", path, iso, r.YearDelta), ctx), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("%s date %s is older than %d year(s)", path, iso, r.YearDelta), ctx), nil
}

// PageCount returns the page count of a document: the length of its "pages"
// list, otherwise its "page_count" value. Falsy values count as zero.
func PageCount(doc map[string]any) (int, error) {
	pages := doc["pages"]
	if !Truthy(pages) {
		pages = doc["page_count"]
	}
	if list, ok := pages.([]any); ok {
		return len(list), nil
	}
	return toInt(pages)
}

func evalPageCount(r rules.PageCountRule, docs Documents) (RuleResult, error) {
	if r.Target == nil || r.Target.DocType == "" {
		return RuleResult{}, configError(r.RuleMeta, "page_count_between rule requires target.doc_type")
	}
	docType := r.Target.DocType

	count, err := PageCount(docs.Document(docType))
	if err != nil {
		return RuleResult{}, &EvaluationError{RuleID: r.ID, Cause: err}
	}

	ctx := map[string]string{"page_count": strconv.Itoa(count)}
	if r.MinPages <= count && count <= r.MaxPages {
		return newResult(r.RuleMeta, StatusPass,
			fmt.Sprintf("%s has %d pages (within [%d, %d])", docType, count, r.MinPages, r.MaxPages), ctx), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("%s has %d pages (expected between %d and %d)", docType, count, r.MinPages, r.MaxPages), ctx), nil
}

func evalFlagsMatch(r rules.FlagsMatchRule, docs Documents) (RuleResult, error) {
	if r.Target == nil || r.Target.DocType == "" {
		return RuleResult{}, configError(r.RuleMeta, "flags_match rule requires target.doc_type")
	}
	if len(r.Flags) == 0 {
		return RuleResult{}, configError(r.RuleMeta, "flags_match rule requires flags")
	}
	docType := r.Target.DocType
	fields, err := Namespace(docs.Document(docType))
	if err != nil {
		return RuleResult{}, &EvaluationError{RuleID: r.ID, Cause: fmt.Errorf("%s: %w", docType, err)}
	}

	var mismatches []string
	for _, flag := range r.Flags {
		actual := Truthy(fields[flag.Field])
		if actual != flag.Expected {
			mismatches = append(mismatches, fmt.Sprintf("%s=expected %t, got %t", flag.Field, flag.Expected, actual))
		}
	}

	if len(mismatches) == 0 {
		return newResult(r.RuleMeta, StatusPass, "All required flags present for "+docType, nil), nil
	}
	return newResult(r.RuleMeta, StatusFail,
		fmt.Sprintf("Flag mismatches for %s: %s", docType, strings.Join(mismatches, ", ")), nil), nil
}
