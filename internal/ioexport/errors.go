package ioexport

import (
	"fmt"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
)

// NotReadyError is returned when the reporting database has no export
// tables.
type NotReadyError struct {
	error
	gnlib.MessageBase
}

// NewNotReadyError creates a new not-ready error.
func NewNotReadyError(reason string) error {
	msgBase := gnlib.MessageBase{
		Msg: `<title>Reporting Database Is Not Ready</title>
<warn>Cannot export records: %s.</warn>

<em>How to fix:</em>
  1. Check the postgres section of the configuration file
  2. Run <em>trapdb export</em> again, it creates missing tables
`,
		Vars: []any{reason},
	}

	return NotReadyError{
		error:       fmt.Errorf("reporting database is not ready: %s", reason),
		MessageBase: msgBase,
	}
}

// TruncateError is returned when a forced export cannot clear its
// tables.
type TruncateError struct {
	error
	gnlib.MessageBase
}

// NewTruncateError creates a new truncate error.
func NewTruncateError(err error) error {
	msgBase := gnlib.MessageBase{
		Msg: `<title>Cannot Clear Export Tables</title>
<warn>The --force option could not truncate samples and sample_counts.</warn>

<em>How to fix:</em>
  1. Check that the database user owns the export tables
  2. Run <em>trapdb export</em> without --force to add only new records
`,
		Vars: nil,
	}

	return TruncateError{
		error:       fmt.Errorf("failed to truncate export tables: %w", err),
		MessageBase: msgBase,
	}
}

func QueryError(err error) error {
	msg := "Cannot read identities of exported samples"
	return &gn.Error{
		Code: errcode.ExportQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("query samples: %w", err),
	}
}

func CopyError(table string, num int, err error) error {
	msg := "Cannot copy <em>%d</em> rows into <em>%s</em>"
	vars := []any{num, table}
	return &gn.Error{
		Code: errcode.ExportCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("copy %d rows into %s: %w", num, table, err),
	}
}

func RunRecordError(id string, err error) error {
	msg := "Records were exported, but run <em>%s</em> was not saved"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.ExportRunRecordError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("save export run %s: %w", id, err),
	}
}
