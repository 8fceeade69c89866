// Vendorgate validates supplier onboarding submissions against a declarative
// rule configuration.
//
// It checks portal fields (required, pattern, allowed values, length) and
// cross-source rules that compare the portal against supporting documents
// such as the commercial registration certificate, VAT certificate or bank
// letter.
//
// Usage:
//
//	# Serve the HTTP API
//	vendorgate serve --config vendorgate.yaml
//
//	# Validate one portal submission from a file
//	vendorgate validate --supplier-id S-1 --portal portal.json
//
//	# Check the rule configuration
//	vendorgate lint --file configs/portal_validation_config.json
//
//	# Validate every vendor under data/portal
//	vendorgate batch
//
//	# Fetch a commercial registration record
//	vendorgate registry fetch 1010101010
package main

func main() {
	Execute()
}
