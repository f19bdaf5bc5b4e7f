package iomigrate

import (
	"fmt"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

func CollectionMissingError(coll, db string) error {
	msg := "Collection <em>%s</em> does not exist in database <em>%s</em>"
	vars := []any{coll, db}
	return &gn.Error{
		Code: errcode.StoreCollectionMissingError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("collection %s not found in %s", coll, db),
	}
}

func CancelledError(err error) error {
	msg := "Migration aborted before all records were written"
	return &gn.Error{
		Code: errcode.MigrationCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("migration cancelled: %w", err),
	}
}

func WriteError(id any, err error) error {
	msg := "Cannot write record <em>%v</em>, migration stopped"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.MigrationWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("write of %v failed: %w", id, err),
	}
}

func PartialError(failed, total int) error {
	msg := `%d of %d records could not be written

Run the same command again: records that were written are not
transformed twice.`
	vars := []any{failed, total}
	return &gn.Error{
		Code: errcode.MigrationPartialError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d of %d writes failed", failed, total),
	}
}
