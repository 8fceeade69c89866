package validation

import "mercator-hq/vendorgate/pkg/rules"

// Status is the outcome of a single check or of a whole run.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
	StatusSkip    Status = "SKIP"
)

// Rule id prefixes used by portal field checks. Ids take the form
// "<prefix>::<field>".
const (
	PrefixRequired = "PORTAL_FIELD_REQUIRED"
	PrefixPattern  = "PORTAL_FIELD_PATTERN"
	PrefixInSet    = "PORTAL_FIELD_IN_SET"
	PrefixMinLen   = "PORTAL_FIELD_MIN_LEN"
	PrefixMaxLen   = "PORTAL_FIELD_MAX_LEN"
	PrefixOK       = "PORTAL_FIELD_OK"

	// PortalPrefix is shared by every portal field rule id.
	PortalPrefix = "PORTAL_FIELD_"
)

// RuleResult is the outcome of one check.
type RuleResult struct {
	RuleID      string            `json:"rule_id"`
	Description string            `json:"description"`
	Severity    rules.Severity    `json:"severity"`
	Status      Status            `json:"status"`
	Message     string            `json:"message"`
	Context     map[string]string `json:"context"`
}

// Report is the outcome of one Validate call.
type Report struct {
	SummaryStatus Status       `json:"summary_status"`
	Results       []RuleResult `json:"results"`
}

// Count returns the number of results with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Documents maps a document type to its extracted JSON object.
type Documents map[string]map[string]any

func newResult(meta rules.RuleMeta, status Status, message string, ctx map[string]string) RuleResult {
	if ctx == nil {
		ctx = map[string]string{}
	}
	return RuleResult{
		RuleID:      meta.ID,
		Description: meta.Description,
		Severity:    meta.Severity,
		Status:      status,
		Message:     message,
		Context:     ctx,
	}
}

// Aggregate derives the summary status of results.
func Aggregate(results []RuleResult) Status {
	hasFail, hasWarning := false, false
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			hasFail = true
		case StatusWarning:
			hasWarning = true
		}
	}
	if hasFail {
		return StatusFail
	}
	if hasWarning {
		return StatusWarning
	}
	return StatusPass
}
