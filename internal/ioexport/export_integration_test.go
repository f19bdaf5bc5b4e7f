package ioexport_test

import (
	"context"
	"testing"
	"time"

	"github.com/fishresearch/trapdb/internal/iodb"
	"github.com/fishresearch/trapdb/internal/ioexport"
	"github.com/fishresearch/trapdb/internal/ioschema"
	"github.com/fishresearch/trapdb/internal/iotesting"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	iotesting.RequirePostgres(t)
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Postgres))
	defer op.Close()
	require.NoError(t, ioschema.NewManager(op).Migrate(ctx))
	require.NoError(t, op.TruncateTables(ctx, schema.ExportTables()...))

	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	recs := []sample.Record{
		{
			{Key: "_id", Value: "E1"},
			{Key: "Date", Value: "2024-05-01"},
			{Key: "Chum Fry", Value: 12},
			{Key: "Created At", Value: created},
		},
		{
			{Key: "_id", Value: "E2"},
			{Key: "chumCaught", Value: 3},
		},
		{
			{Key: "_id", Value: "E3"},
			{Key: "Date", Value: "2019-04-02"},
			{Key: "Water (°C)", Value: 6.5},
			{Key: "Chum Fry", Value: 40},
		},
	}
	store := iotesting.NewMemStore(map[string][]sample.Record{
		cfg.Mongo.Collection: recs,
	})

	num, err := ioexport.New(cfg, store, op).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, num)
	assert.True(t, store.Closed())

	// nothing new the second time
	num, err = ioexport.New(cfg, store, op).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, num)

	num, err = ioexport.New(cfg, store, op, ioexport.OptForce(true)).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, num)

	var count float64
	err = op.Pool().QueryRow(ctx,
		"SELECT count FROM sample_counts WHERE sample_id = 'E1' AND field = 'Chum Fry'",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 12.0, count)

	var temp float64
	err = op.Pool().QueryRow(ctx,
		"SELECT water_temp FROM samples WHERE id = 'E3'",
	).Scan(&temp)
	require.NoError(t, err)
	assert.Equal(t, 6.5, temp)
}
