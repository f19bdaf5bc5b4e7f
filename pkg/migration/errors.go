package migration

import (
	"errors"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

func PlanError(name string) error {
	msg := "Unknown migration plan <em>%s</em>, use 'merge' or 'legacy'"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.MigrationPlanError,
		Msg:  msg,
		Vars: vars,
		Err:  errors.New("unknown migration plan " + name),
	}
}
