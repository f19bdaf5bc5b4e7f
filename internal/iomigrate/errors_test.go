package iomigrate

import (
	"context"
	"errors"
	"testing"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		wrap error
	}{
		{"missing", CollectionMissingError("c", "db"), errcode.StoreCollectionMissingError, nil},
		{"cancel", CancelledError(context.Canceled), errcode.MigrationCancelledError, context.Canceled},
		{"write", WriteError("X1", base), errcode.MigrationWriteError, base},
		{"partial", PartialError(1, 3), errcode.MigrationPartialError, nil},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			gnErr, ok := v.err.(*gn.Error)
			assert.True(t, ok)
			assert.Equal(t, v.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			if v.wrap != nil {
				assert.ErrorIs(t, gnErr.Err, v.wrap)
			}
		})
	}
}

func TestSleep(t *testing.T) {
	assert.NoError(t, sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, 0), context.Canceled)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", stConnecting.String())
	assert.Equal(t, "done", stDone.String())
}
