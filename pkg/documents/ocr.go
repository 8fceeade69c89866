package documents

import (
	"regexp"
	"strings"

	"mercator-hq/vendorgate/pkg/validation"
)

// DefaultDocType is used for OCR files whose name has no mapping.
const DefaultDocType = "generic_document"

// DocTypeMapping maps OCR file stems to the doc_type used in rules.
var DocTypeMapping = map[string]string{
	"VAT":                  "vat_certificate",
	"IBAN":                 "iban_letter",
	"chamber_of_commerce":  "chamber_certificate",
	"code_of_conduct":      "code_of_conduct",
	"nda":                  "nda",
	"zatca":                "zatca_certificate",
	"GOSI":                 "gosi_certificate",
	"nationalization":      "nationalization_certificate",
	"portal_excel_quality": "portal_excel_quality",
}

// MapDocType returns the doc_type for an OCR file stem. A trailing "_raw"
// is ignored and matching falls back to case-insensitive.
func MapDocType(stem string) string {
	stem = strings.TrimSuffix(stem, "_raw")
	if docType, ok := DocTypeMapping[stem]; ok {
		return docType
	}
	for k, docType := range DocTypeMapping {
		if strings.EqualFold(k, stem) {
			return docType
		}
	}
	return DefaultDocType
}

var embeddedObject = regexp.MustCompile(`(?s)\{.*?\}`)

// ParseResponseJSON extracts the fields object from the "response" value
// of raw OCR output. The response may be an object, a JSON string, or free
// text with embedded objects, in which case the last one that parses wins.
// Anything else yields an empty map.
func ParseResponseJSON(raw map[string]any) map[string]any {
	switch resp := raw["response"].(type) {
	case map[string]any:
		return resp
	case string:
		text := strings.TrimSpace(resp)

		var obj map[string]any
		if err := validation.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
			return obj
		}

		var last map[string]any
		for _, snippet := range embeddedObject.FindAllString(text, -1) {
			var candidate map[string]any
			if err := validation.Unmarshal([]byte(snippet), &candidate); err == nil && candidate != nil {
				last = candidate
			}
		}
		if last != nil {
			return last
		}
	}
	return map[string]any{}
}

// ConvertOCRDoc turns raw OCR output {pages_count, response} into a
// document {doc_type, page_count, fields}.
func ConvertOCRDoc(raw map[string]any, docType string) map[string]any {
	return map[string]any{
		"doc_type":   docType,
		"page_count": raw["pages_count"],
		"fields":     ParseResponseJSON(raw),
	}
}

// isOCROutput reports whether doc looks like raw OCR output rather than a
// structured document.
func isOCROutput(doc map[string]any) bool {
	_, hasResponse := doc["response"]
	_, hasFields := doc["fields"]
	return hasResponse && !hasFields
}
