package validation

import (
	"regexp"
	"time"

	"mercator-hq/vendorgate/pkg/rules"
)

// EngineConfig contains configuration for the validation engine.
type EngineConfig struct {
	// Now returns the current time used by date_within_year rules.
	// Default: time.Now in UTC.
	Now func() time.Time
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// WithNow returns a copy of c that reports now as the current time.
func (c *EngineConfig) WithNow(now time.Time) *EngineConfig {
	cp := *c
	cp.Now = func() time.Time { return now }
	return &cp
}

type compiledRegex struct {
	re  *regexp.Regexp
	err error
}

// Engine evaluates portal and document inputs against a rule configuration.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	rules    *rules.Config
	fields   []portalCheck
	patterns map[string]compiledRegex
	now      func() time.Time
}

// New builds an engine for cfg. Patterns are compiled once here; a pattern
// that does not compile fails its check on every run rather than failing
// construction. A nil config yields an engine with no checks.
func New(cfg *rules.Config, config *EngineConfig) *Engine {
	if cfg == nil {
		cfg = &rules.Config{}
	}
	if config == nil {
		config = DefaultEngineConfig()
	}
	now := config.Now
	if now == nil {
		now = DefaultEngineConfig().Now
	}

	e := &Engine{
		rules:    cfg,
		fields:   make([]portalCheck, 0, len(cfg.PortalFields)),
		patterns: make(map[string]compiledRegex),
		now:      now,
	}
	for _, f := range cfg.PortalFields {
		e.fields = append(e.fields, newPortalCheck(f))
	}
	for _, r := range cfg.CrossSourceRules {
		if rr, ok := r.(rules.RegexRule); ok && rr.Regex != "" {
			if _, done := e.patterns[rr.Regex]; !done {
				re, err := rules.CompilePattern(rr.Regex)
				e.patterns[rr.Regex] = compiledRegex{re: re, err: err}
			}
		}
	}
	return e
}

// Rules returns the configuration the engine was built from.
func (e *Engine) Rules() *rules.Config {
	return e.rules
}

// compiled returns the prefix-anchored regexp for pattern, compiling it on
// demand for rules that were not part of the engine's configuration.
func (e *Engine) compiled(pattern string) (*regexp.Regexp, error) {
	if c, ok := e.patterns[pattern]; ok {
		return c.re, c.err
	}
	return rules.CompilePattern(pattern)
}

// Validate runs every portal field check and then every cross-source rule,
// and aggregates the results. docs may be nil.
func (e *Engine) Validate(portal map[string]any, docs Documents) *Report {
	if portal == nil {
		portal = map[string]any{}
	}

	results := make([]RuleResult, 0, len(e.fields)+len(e.rules.CrossSourceRules))
	for _, check := range e.fields {
		if res, ok := check.evaluate(portal); ok {
			results = append(results, res)
		}
	}
	for _, rule := range e.rules.CrossSourceRules {
		results = append(results, e.Apply(rule, portal, docs))
	}

	return &Report{
		SummaryStatus: Aggregate(results),
		Results:       results,
	}
}
