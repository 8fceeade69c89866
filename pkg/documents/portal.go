package documents

import (
	"strings"

	"mercator-hq/vendorgate/pkg/validation"
)

var crNumberKeys = []string{
	"CR Number",
	"Cr Number",
	"cr_number",
	"crNumber",
	"commercial_registration_number",
	"commercialRegistrationNumber",
}

var crContainerKeys = []string{"basic_info", "basicInfo", "Basic Information"}

// ExtractCRFromPortal finds the commercial registration number in a portal
// document, looking at top-level keys first and then inside the basic info
// sections.
func ExtractCRFromPortal(portal map[string]any) (string, bool) {
	if cr, ok := crFrom(portal); ok {
		return cr, true
	}
	for _, container := range crContainerKeys {
		if section, ok := portal[container].(map[string]any); ok {
			if cr, ok := crFrom(section); ok {
				return cr, true
			}
		}
	}
	return "", false
}

func crFrom(m map[string]any) (string, bool) {
	for _, key := range crNumberKeys {
		v, ok := m[key]
		if !ok || !validation.Truthy(v) {
			continue
		}
		if cr := strings.TrimSpace(validation.Stringify(v)); cr != "" {
			return cr, true
		}
	}
	return "", false
}
