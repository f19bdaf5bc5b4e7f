package iodb

import (
	"fmt"
	"strings"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when the reporting database cannot be
// reached.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d/%s</em> as <em>%s</em>

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready -h %s</em>
  2. Check the postgres section of the configuration file
     or TRAPDB_POSTGRES_* variables`
	vars := []any{host, port, database, user, host}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError is returned when the operator is used before
// Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

func TruncateError(tables []string, err error) error {
	list := strings.Join(tables, ", ")
	msg := "Cannot truncate tables <em>%s</em>"
	vars := []any{list}
	return &gn.Error{
		Code: errcode.DBTruncateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to truncate %s: %w", list, err),
	}
}
