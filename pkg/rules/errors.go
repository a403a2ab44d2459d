package rules

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// InvalidRuleError is returned by Compile when a rule does not fit
// the schema. The cause keeps the schema lookup error.
func InvalidRuleError(rule string, err error) error {
	msg := "Rule <em>%s</em> is invalid: %s"
	var reason string
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		reason = fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
	} else {
		reason = err.Error()
	}
	vars := []any{rule, reason}
	return &gn.Error{
		Code: errcode.InvalidRuleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid rule %q: %w", rule, err),
	}
}

// IsInvalidRule reports whether err is InvalidRuleError.
func IsInvalidRule(err error) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == errcode.InvalidRuleError
	}
	return false
}

func tooShortError(rule string) error {
	return fmt.Errorf("'%s' is shorter than a field tag", rule)
}
