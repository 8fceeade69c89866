package rules

import "testing"

func TestLint(t *testing.T) {
	pattern := "(unclosed"
	minLen, maxLen := 5, 2
	cfg := &Config{
		PortalFields: []PortalField{
			{Name: "a", Validation: PortalFieldValidation{Required: true, Pattern: &pattern}},
			{Name: "b", Validation: PortalFieldValidation{Required: true, MinLength: &minLen, MaxLength: &maxLen}},
			{Name: "c", Validation: PortalFieldValidation{Required: false}},
		},
		CrossSourceRules: []Rule{
			EqualityRule{RuleMeta: RuleMeta{ID: "EQ", Description: "d"}, Left: &FieldRef{Source: SourcePortal, Field: "x"}},
			InSetRule{RuleMeta: RuleMeta{ID: "SET", Description: "d"}, Target: &FieldRef{Source: SourceDoc, Field: "x"}},
			PageCountRule{RuleMeta: RuleMeta{ID: "PAGES", Description: "d"}, MaxPages: DefaultMaxPages},
			FlagsMatchRule{RuleMeta: RuleMeta{ID: "EQ", Description: "d"}, Target: &FieldRef{Source: SourceDoc, DocType: "nda"}},
			RegexRule{RuleMeta: RuleMeta{ID: "RE", Description: "d"}, Target: &FieldRef{Source: SourcePortal, Field: "x"}, Regex: "ok"},
		},
	}

	issues := Lint(cfg)

	want := map[string]int{
		"portal.a": 1, // bad pattern
		"portal.b": 1, // min > max
		"portal.c": 1, // no constraints
		"EQ":       3, // right missing, duplicate id, flags missing
		"SET":      2, // doc_type missing, allowed_values missing
		"PAGES":    1, // target missing
	}
	got := map[string]int{}
	for _, i := range issues {
		got[i.Subject]++
	}
	for subject, n := range want {
		if got[subject] != n {
			t.Errorf("issues for %s = %d, want %d (all: %v)", subject, got[subject], n, issues)
		}
	}
	if got["RE"] != 0 {
		t.Errorf("issues for RE = %d, want 0", got["RE"])
	}
}

func TestLint_EmptyIdentifiers(t *testing.T) {
	cfg := &Config{
		CrossSourceRules: []Rule{
			RegexRule{RuleMeta: RuleMeta{ID: "", Description: ""}, Target: &FieldRef{Source: SourcePortal, Field: "x"}, Regex: "ok"},
			RegexRule{RuleMeta: RuleMeta{ID: "RE", Description: ""}, Target: &FieldRef{Source: SourcePortal, Field: "x"}, Regex: "ok"},
		},
	}

	issues := Lint(cfg)

	want := []Issue{
		{Subject: "cross_source_rules[0]", Level: LevelWarning, Message: "rule id is empty"},
		{Subject: "cross_source_rules[0]", Level: LevelWarning, Message: "rule description is empty"},
		{Subject: "RE", Level: LevelWarning, Message: "rule description is empty"},
	}
	if len(issues) != len(want) {
		t.Fatalf("Lint() = %v, want %v", issues, want)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Errorf("Lint()[%d] = %v, want %v", i, issues[i], want[i])
		}
	}
}
