package iomongo

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

func ConnectionError(hosts []string, err error) error {
	msg := `Cannot connect to MongoDB at <em>%s</em>

<em>How to fix:</em>
  1. Check that the server is running and reachable
  2. Check <em>MONGODB_URI</em> (user, password, host, options)
  3. Increase <em>mongo.timeout</em> for slow networks`
	host := strings.Join(hosts, ",")
	if host == "" {
		host = "unparsable URI"
	}
	vars := []any{host}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s: %w",
			fn.Name(), host, err),
	}
}

func NotConnectedError() error {
	msg := "Document store is not connected"
	return &gn.Error{
		Code: errcode.StoreNotConnectedError,
		Msg:  msg,
		Err:  errors.New("mongo client is not connected"),
	}
}

func ListCollectionsError(db string, err error) error {
	msg := "Cannot list collections of database <em>%s</em>"
	vars := []any{db}
	return &gn.Error{
		Code: errcode.StoreListCollectionsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot list collections of %s: %w", db, err),
	}
}

func FindError(coll string, err error) error {
	msg := "Cannot read records of <em>%s</em>"
	vars := []any{coll}
	return &gn.Error{
		Code: errcode.StoreFindError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read %s: %w", coll, err),
	}
}

func DecodeError(coll string, err error) error {
	msg := "Cannot decode a record of <em>%s</em>"
	vars := []any{coll}
	return &gn.Error{
		Code: errcode.StoreDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot decode record of %s: %w", coll, err),
	}
}

func ReplaceError(coll string, id any, err error) error {
	msg := "Cannot replace record <em>%v</em> in <em>%s</em>"
	vars := []any{id, coll}
	return &gn.Error{
		Code: errcode.StoreReplaceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot replace %v in %s: %w", id, coll, err),
	}
}

func InsertError(coll string, num int, err error) error {
	msg := "Cannot insert %d records into <em>%s</em>"
	vars := []any{num, coll}
	return &gn.Error{
		Code: errcode.StoreInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot insert %d records into %s: %w", num, coll, err),
	}
}

func BackupError(path string, err error) error {
	msg := "Cannot write backup <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.MigrationBackupError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write backup %s: %w", path, err),
	}
}
