package report

import (
	"fmt"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

func DateError(date string, err error) error {
	msg := "Cannot read date <em>%s</em>, use YYYY-MM-DD"
	vars := []any{date}
	return &gn.Error{
		Code: errcode.ReportDateRangeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse date %q: %w", date, err),
	}
}

func RangeError(start, end string) error {
	msg := "Start date <em>%s</em> is after end date <em>%s</em>"
	vars := []any{start, end}
	return &gn.Error{
		Code: errcode.ReportDateRangeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid date range %s..%s", start, end),
	}
}
