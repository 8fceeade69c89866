// Package portal maps validation reports onto the per-field view returned to
// supplier portal clients and written to the results store.
package portal

import (
	"strings"

	"mercator-hq/vendorgate/pkg/validation"
)

// Reason codes recorded for failed portal fields.
const (
	ReasonMissingRequired = "MISSING_REQUIRED"
	ReasonPatternMismatch = "PATTERN_MISMATCH"
	ReasonInvalidValue    = "INVALID_VALUE"
	ReasonMinLength       = "MIN_LENGTH"
	ReasonMaxLength       = "MAX_LENGTH"
	ReasonGenericFail     = "GENERIC_FAIL"
)

// SupplierPayload is the request body of a portal validation.
type SupplierPayload struct {
	SupplierID string         `json:"supplier_id"`
	Fields     map[string]any `json:"fields"`
}

// FieldResult is the validation outcome of one portal field.
type FieldResult struct {
	FieldName     string  `json:"field_name"`
	Value         *string `json:"value"`
	IsValid       bool    `json:"is_valid"`
	FailureReason *string `json:"failure_reason"`
}

// SupplierValidationResponse is the response body of a portal validation.
type SupplierValidationResponse struct {
	SupplierID string        `json:"supplier_id"`
	Results    []FieldResult `json:"results"`
}

// ReasonCode maps a portal rule id to its reason code.
func ReasonCode(ruleID string) string {
	prefix, _, _ := strings.Cut(ruleID, "::")
	switch prefix {
	case validation.PrefixRequired:
		return ReasonMissingRequired
	case validation.PrefixPattern:
		return ReasonPatternMismatch
	case validation.PrefixInSet:
		return ReasonInvalidValue
	case validation.PrefixMinLen:
		return ReasonMinLength
	case validation.PrefixMaxLen:
		return ReasonMaxLength
	default:
		return ReasonGenericFail
	}
}

// FieldResults converts the portal field results of report into one
// FieldResult per field, in report order. Cross-source results are skipped.
func FieldResults(report *validation.Report, fields map[string]any) []FieldResult {
	out := make([]FieldResult, 0, len(report.Results))
	index := make(map[string]int)

	for _, res := range report.Results {
		if !strings.HasPrefix(res.RuleID, validation.PortalPrefix) {
			continue
		}
		_, name, ok := strings.Cut(res.RuleID, "::")
		if !ok {
			continue
		}

		fr := FieldResult{FieldName: name, IsValid: res.Status == validation.StatusPass}
		if raw, present := fields[name]; present && raw != nil {
			v := validation.Stringify(raw)
			fr.Value = &v
		}
		if !fr.IsValid {
			reason := ReasonCode(res.RuleID)
			fr.FailureReason = &reason
		}

		if i, seen := index[name]; seen {
			out[i] = fr
			continue
		}
		index[name] = len(out)
		out = append(out, fr)
	}
	return out
}

// CrossSourceResults returns the results that are not portal field checks,
// in order.
func CrossSourceResults(results []validation.RuleResult) []validation.RuleResult {
	var out []validation.RuleResult
	for _, res := range results {
		if !strings.HasPrefix(res.RuleID, validation.PortalPrefix) {
			out = append(out, res)
		}
	}
	return out
}
