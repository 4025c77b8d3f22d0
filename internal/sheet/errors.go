package sheet

import (
	"errors"
	"fmt"

	"bennypowers.dev/stylenorm/internal/document"
)

// RuleError ties a compilation failure to the rule it happened in
type RuleError struct {
	Rule string
	Span document.Span
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// AsRuleError reports whether err happened inside a rule
func AsRuleError(err error) (*RuleError, bool) {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return nil, false
}
