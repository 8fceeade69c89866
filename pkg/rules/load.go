package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the rule configuration path used when neither the service
// configuration nor PathEnv name one.
const DefaultPath = "configs/portal_validation_config.json"

// PathEnv names the environment variable that overrides the rule
// configuration path.
const PathEnv = "PORTAL_VALIDATION_CONFIG_PATH"

// SchemaError reports a structural defect at a location in the document.
type SchemaError struct {
	Path    string
	Message string
}

// Error returns the error message.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ResolvePath returns configured if set, otherwise the PathEnv value,
// otherwise DefaultPath.
func ResolvePath(configured string) string {
	if configured != "" {
		return configured
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and parses the rule configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var cfg *Config
	if isJSON(path, data) {
		cfg, err = parseJSON(data)
	} else {
		cfg, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a rule configuration held in memory. JSON input is detected
// by a leading '{'; anything else is parsed as YAML.
func Parse(data []byte) (*Config, error) {
	if isJSON("", data) {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func isJSON(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

type rawPortalField struct {
	Type          string   `yaml:"type" json:"type"`
	Required      *bool    `yaml:"required" json:"required"`
	Pattern       *string  `yaml:"pattern" json:"pattern"`
	AllowedValues []string `yaml:"allowed_values" json:"allowed_values"`
	MinLength     *int     `yaml:"min_length" json:"min_length"`
	MaxLength     *int     `yaml:"max_length" json:"max_length"`
	Description   string   `yaml:"description" json:"description"`
}

type rawRule struct {
	ID            *string           `yaml:"id" json:"id"`
	Description   *string           `yaml:"description" json:"description"`
	Severity      string            `yaml:"severity" json:"severity"`
	RuleType      string            `yaml:"rule_type" json:"rule_type"`
	Left          *FieldRef         `yaml:"left" json:"left"`
	Right         *FieldRef         `yaml:"right" json:"right"`
	Target        *FieldRef         `yaml:"target" json:"target"`
	AllowedValues []string          `yaml:"allowed_values" json:"allowed_values"`
	Regex         *string           `yaml:"regex" json:"regex"`
	YearDelta     *int              `yaml:"year_delta" json:"year_delta"`
	MinPages      *int              `yaml:"min_pages" json:"min_pages"`
	MaxPages      *int              `yaml:"max_pages" json:"max_pages"`
	Flags         []FlagExpectation `yaml:"flags" json:"flags"`
}

type namedField struct {
	name string
	raw  rawPortalField
}

func parseYAML(data []byte) (*Config, error) {
	var doc struct {
		PortalFieldValidations yaml.Node `yaml:"portal_field_validations"`
		CrossSourceRules       []rawRule `yaml:"cross_source_rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	var fields []namedField
	node := &doc.PortalFieldValidations
	switch node.Kind {
	case 0:
		// section absent
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var f namedField
			f.name = node.Content[i].Value
			if err := node.Content[i+1].Decode(&f.raw); err != nil {
				return nil, &SchemaError{Path: "portal_field_validations." + f.name, Message: err.Error()}
			}
			fields = append(fields, f)
		}
	default:
		return nil, &SchemaError{Path: "portal_field_validations", Message: "must be a mapping"}
	}

	return build(fields, doc.CrossSourceRules)
}

func parseJSON(data []byte) (*Config, error) {
	var doc struct {
		PortalFieldValidations json.RawMessage `json:"portal_field_validations"`
		CrossSourceRules       []rawRule       `json:"cross_source_rules"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	fields, err := decodeOrderedFields(doc.PortalFieldValidations)
	if err != nil {
		return nil, err
	}
	return build(fields, doc.CrossSourceRules)
}

// decodeOrderedFields walks the object token by token so that key order
// survives decoding.
func decodeOrderedFields(raw json.RawMessage) ([]namedField, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &SchemaError{Path: "portal_field_validations", Message: "must be an object"}
	}

	var fields []namedField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		f := namedField{name: name}
		if err := dec.Decode(&f.raw); err != nil {
			return nil, &SchemaError{Path: "portal_field_validations." + name, Message: err.Error()}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func build(fields []namedField, rawRules []rawRule) (*Config, error) {
	var errs []error
	cfg := &Config{}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] {
			errs = append(errs, &SchemaError{Path: "portal_field_validations." + f.name, Message: "duplicate field"})
			continue
		}
		seen[f.name] = true

		v := PortalFieldValidation{
			Type:          f.raw.Type,
			Required:      true,
			Pattern:       f.raw.Pattern,
			AllowedValues: f.raw.AllowedValues,
			MinLength:     f.raw.MinLength,
			MaxLength:     f.raw.MaxLength,
			Description:   f.raw.Description,
		}
		if v.Type == "" {
			v.Type = "string"
		}
		if f.raw.Required != nil {
			v.Required = *f.raw.Required
		}
		switch v.Type {
		case "string", "number", "date", "boolean":
		default:
			errs = append(errs, &SchemaError{Path: "portal_field_validations." + f.name + ".type", Message: fmt.Sprintf("unknown type %q", v.Type)})
		}
		cfg.PortalFields = append(cfg.PortalFields, PortalField{Name: f.name, Validation: v})
	}

	for i, r := range rawRules {
		rule, ruleErrs := buildRule(fmt.Sprintf("cross_source_rules[%d]", i), r)
		errs = append(errs, ruleErrs...)
		if rule != nil {
			cfg.CrossSourceRules = append(cfg.CrossSourceRules, rule)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func buildRule(path string, r rawRule) (Rule, []error) {
	var errs []error
	// Empty strings are accepted here and reported by Lint.
	if r.ID == nil {
		errs = append(errs, &SchemaError{Path: path + ".id", Message: "is required"})
	}
	if r.Description == nil {
		errs = append(errs, &SchemaError{Path: path + ".description", Message: "is required"})
	}

	meta := RuleMeta{ID: derefString(r.ID), Description: derefString(r.Description), Severity: Severity(r.Severity)}
	switch meta.Severity {
	case "":
		meta.Severity = SeverityError
	case SeverityError, SeverityWarning:
	default:
		errs = append(errs, &SchemaError{Path: path + ".severity", Message: fmt.Sprintf("must be error or warning, got %q", r.Severity)})
	}

	refs := []struct {
		name string
		ref  *FieldRef
	}{{"left", r.Left}, {"right", r.Right}, {"target", r.Target}}
	for _, f := range refs {
		if f.ref == nil {
			continue
		}
		if f.ref.Source != SourcePortal && f.ref.Source != SourceDoc {
			errs = append(errs, &SchemaError{Path: path + "." + f.name + ".source", Message: fmt.Sprintf("must be portal or doc, got %q", f.ref.Source)})
		}
	}

	var rule Rule
	switch RuleType(r.RuleType) {
	case RuleTypeEquality:
		rule = EqualityRule{RuleMeta: meta, Left: r.Left, Right: r.Right}
	case RuleTypeInSet:
		rule = InSetRule{RuleMeta: meta, Target: r.Target, AllowedValues: r.AllowedValues}
	case RuleTypeRegex:
		rule = RegexRule{RuleMeta: meta, Target: r.Target, Regex: deref(r.Regex)}
	case RuleTypeDateWithinYear:
		rule = DateWithinYearRule{RuleMeta: meta, Target: r.Target, YearDelta: derefInt(r.YearDelta, 0)}
	case RuleTypePageCountBetween:
		rule = PageCountRule{
			RuleMeta: meta,
			Target:   r.Target,
			MinPages: derefInt(r.MinPages, 0),
			MaxPages: derefInt(r.MaxPages, DefaultMaxPages),
		}
	case RuleTypeFlagsMatch:
		rule = FlagsMatchRule{RuleMeta: meta, Target: r.Target, Flags: r.Flags}
	default:
		errs = append(errs, &SchemaError{Path: path + ".rule_type", Message: fmt.Sprintf("unknown rule type %q", r.RuleType)})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rule, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefInt returns def when v is absent or zero.
func derefInt(v *int, def int) int {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
