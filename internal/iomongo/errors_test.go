package iomongo

import (
	"errors"
	"testing"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("server selection timeout")

	err := ConnectionError([]string{"db1:27017", "db2:27017"}, originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.StoreConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "db1:27017,db2:27017", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "cannot connect")
}

// TestConnectionError_NoHosts verifies message for a broken URI.
func TestConnectionError_NoHosts(t *testing.T) {
	err := ConnectionError(nil, errors.New("bad scheme"))
	gnErr := err.(*gn.Error)
	assert.Equal(t, "unparsable URI", gnErr.Vars[0])
}

// TestErrors_Codes verifies codes and wrapped causes of store errors.
func TestErrors_Codes(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		vars int
	}{
		{"list", ListCollectionsError("fish", cause), errcode.StoreListCollectionsError, 1},
		{"find", FindError("samples", cause), errcode.StoreFindError, 1},
		{"decode", DecodeError("samples", cause), errcode.StoreDecodeError, 1},
		{"replace", ReplaceError("samples", "X1", cause), errcode.StoreReplaceError, 2},
		{"insert", InsertError("samples", 3, cause), errcode.StoreInsertError, 2},
		{"backup", BackupError("/tmp/x", cause), errcode.MigrationBackupError, 1},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Len(t, gnErr.Vars, v.vars, v.msg)
		assert.ErrorIs(t, gnErr.Err, cause, v.msg)
	}

	gnErr := NotConnectedError().(*gn.Error)
	assert.Equal(t, errcode.StoreNotConnectedError, gnErr.Code)
}
