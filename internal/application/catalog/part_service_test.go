package catalog_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/partshop/backend/internal/application/catalog"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/cache"
	"github.com/partshop/backend/internal/infrastructure/persistence"
	"github.com/partshop/backend/internal/infrastructure/spreadsheet"
	"github.com/partshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartService(t *testing.T) *appcatalog.PartService {
	t.Helper()
	return appcatalog.NewPartService(persistence.NewGormPartRepository(testutil.NewSQLiteDB(t)))
}

func TestPartService_Upsert(t *testing.T) {
	svc := newPartService(t)
	ctx := testutil.ActorContext()

	first, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{
		PartNumber: " 12/ab3 ",
		ItemName:   "Clutch plate",
		HSNCode:    "8708",
		Unit:       "SET",
		MRP:        decimal.RequireFromString("450.50"),
	})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "12/AB3", first.Part.PartNumber)

	second, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{
		PartNumber: "12/AB3",
		ItemName:   "Clutch plate (heavy)",
		MRP:        decimal.RequireFromString("480"),
	})
	require.NoError(t, err)
	assert.False(t, second.Created, "same part number updates in place")
	assert.Equal(t, first.Part.ID, second.Part.ID)
	assert.Equal(t, "Clutch plate (heavy)", second.Part.ItemName)
	assert.Equal(t, 2, second.Part.Version)

	_, err = svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "ABC", ItemName: "Bad"})
	testutil.RequireKind(t, err, shared.KindValidation, "")
}

func TestPartService_DeleteAndRevive(t *testing.T) {
	svc := newPartService(t)
	ctx := testutil.ActorContext()

	res, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "20/X", ItemName: "Piston"})
	require.NoError(t, err)
	id := res.Part.ID

	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id), "deleting twice is a no-op")

	_, err = svc.GetByID(ctx, id, false)
	testutil.RequireKind(t, err, shared.KindNotFound, "PART_NOT_FOUND")

	tomb, err := svc.GetByID(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, tomb.IsDeleted)
	assert.NotNil(t, tomb.DeletedAt)

	restored, err := svc.Restore(ctx, id)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	require.NoError(t, svc.Delete(ctx, id))
	revived, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "20/x", ItemName: "Piston kit"})
	require.NoError(t, err)
	assert.False(t, revived.Created)
	assert.Equal(t, id, revived.Part.ID)
	assert.False(t, revived.Part.IsDeleted, "upsert revives a deleted part")

	err = svc.Delete(ctx, uuid.New())
	testutil.RequireKind(t, err, shared.KindNotFound, "PART_NOT_FOUND")
}

func TestPartService_ListIsCachedUntilWrite(t *testing.T) {
	svc := newPartService(t)
	ctx := testutil.ActorContext()
	readCache := cache.NewMemoryReadCache()
	svc.SetCache(readCache, time.Minute)

	_, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "30/A", ItemName: "Gasket"})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, appcatalog.PartListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, 1, readCache.Len())

	_, err = svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "30/B", ItemName: "Gasket set"})
	require.NoError(t, err)
	assert.Zero(t, readCache.Len(), "writes drop cached listings")

	items, total, err = svc.List(ctx, appcatalog.PartListFilter{Search: "gasket"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "30/A", items[0].PartNumber)
}

func TestPartService_ImportCSV(t *testing.T) {
	svc := newPartService(t)
	ctx := testutil.ActorContext()
	_, err := svc.Upsert(ctx, appcatalog.UpsertPartRequest{PartNumber: "40/A", ItemName: "Old name"})
	require.NoError(t, err)

	csv := strings.Join([]string{
		"Part Number,Item Name,HSN Code,Unit,MRP,Min Stock",
		"40/A,Brake lever,8714,NOS,120.50,4",
		"40/B,Clutch lever,8714,NOS,130,2",
		",Missing number,,,,",
		"bad,Bad number,,,,",
		"40/C,Bad price,,,abc,",
		"40/B,Duplicate,,,,",
		"",
	}, "\n")

	res, err := svc.Import(ctx, "parts.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 6, res.TotalRows, "blank lines are skipped")
	assert.Equal(t, 1, res.CreatedRows)
	assert.Equal(t, 1, res.UpdatedRows)
	assert.Equal(t, 4, res.ErrorRows)
	assert.Equal(t, 4, res.TotalErrors)
	assert.False(t, res.IsTruncated)

	codes := map[int]string{}
	for _, e := range res.Errors {
		codes[e.Row] = e.Code
	}
	assert.Equal(t, spreadsheet.ErrCodeRequiredField, codes[4])
	assert.Equal(t, spreadsheet.ErrCodeInvalidValue, codes[5])
	assert.Equal(t, spreadsheet.ErrCodeInvalidType, codes[6])
	assert.Equal(t, spreadsheet.ErrCodeDuplicate, codes[7])

	items, _, err := svc.List(ctx, appcatalog.PartListFilter{Search: "40/A"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Brake lever", items[0].ItemName)
	assert.Equal(t, "120.50", items[0].MRP.StringFixed(2))
	assert.Equal(t, int64(4), items[0].MinStock)
}

func TestPartService_ImportXLSX(t *testing.T) {
	svc := newPartService(t)
	ctx := testutil.ActorContext()

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteWorkbook(&buf, spreadsheet.Table{
		Name:    "Parts",
		Headers: []string{"part_number", "item_name", "unit"},
		Rows: [][]any{
			{"50/A", "Air filter", "NOS"},
			{"50/b", "Fuel filter", "NOS"},
		},
	}))

	res, err := svc.Import(ctx, "catalog.XLSX", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CreatedRows)
	assert.Zero(t, res.ErrorRows)

	items, total, err := svc.List(ctx, appcatalog.PartListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "50/B", items[1].PartNumber)
}

func TestPartService_ImportRejectsBadFiles(t *testing.T) {
	svc := newPartService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		body     string
	}{
		{"unsupported extension", "parts.txt", "part_number,item_name\n1/A,x"},
		{"empty file", "parts.csv", ""},
		{"missing column", "parts.csv", "part_number,unit\n1/A,NOS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, tt.filename, strings.NewReader(tt.body))
			testutil.RequireKind(t, err, shared.KindValidation, "INVALID_IMPORT_FILE")
		})
	}
}
