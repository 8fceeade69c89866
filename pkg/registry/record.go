package registry

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DocType is the document type produced from registry records.
const DocType = "moc_certificate"

// Record holds the registry fields used for validation.
type Record struct {
	CRNumber           string `json:"cr_number"`
	CompanyName        string `json:"company_name"`
	IssueDateGregorian string `json:"issue_date_gregorian"`
}

// recordFromRaw picks the first non-empty value among the alternative keys
// the registry uses for each field.
func recordFromRaw(raw map[string]any) *Record {
	return &Record{
		CRNumber:           firstString(raw, "commercialRegistrationNumber", "crNumber", "id"),
		CompanyName:        firstString(raw, "commercialName", "tradeName", "entityName", "name"),
		IssueDateGregorian: firstString(raw, "issueDateGregorian", "issueDate", "registrationDate"),
	}
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			if s := v.String(); s != "0" {
				return s
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		case bool:
			if v {
				return "true"
			}
		}
	}
	return ""
}

// ToDocument returns the record as a moc_certificate document. Empty
// values are stored as null.
func (r *Record) ToDocument() map[string]any {
	return map[string]any{
		"doc_type":   DocType,
		"page_count": 1,
		"fields": map[string]any{
			"cr_number":            nullable(r.CRNumber),
			"company_name":         nullable(r.CompanyName),
			"issue_date_gregorian": nullable(r.IssueDateGregorian),
		},
	}
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
