package ioreport

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
