package rules

import "regexp"

// CompilePattern compiles pattern so that it only matches at the start of
// the input. The remainder of the input is not required to match.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}
