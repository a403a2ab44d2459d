package row

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// RepeatabilityViolationError means a column got a list where a string
// was expected, or the opposite. It shows that the schema and the
// projected data disagree.
func RepeatabilityViolationError(col string, want Kind) error {
	msg := "Column <em>%s</em> expected a %s value"
	kind := "single"
	if want == ListKind {
		kind = "list"
	}
	vars := []any{col, kind}
	return &gn.Error{
		Code: errcode.RepeatabilityViolationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("repeatability violation in column %s", col),
	}
}
