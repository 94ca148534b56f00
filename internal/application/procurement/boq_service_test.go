package procurement

import (
	"bytes"
	"context"
	"testing"

	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const validCSV = `item_code,description,uom,quantity,unit_price
CAB-001,Fibre cable 48F,m,2000,12.50
SPL-014,Splice tray,each,40,85
`

func newTestBOQService(t *testing.T) (*BOQService, *MockBOQRepository) {
	t.Helper()
	boqRepo := new(MockBOQRepository)
	return NewBOQService(boqRepo, nil, nil), boqRepo
}

func TestBOQService_Import(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	uploader := uuid.New()

	t.Run("imports a valid CSV", func(t *testing.T) {
		svc, boqRepo := newTestBOQService(t)
		boqRepo.On("Save", ctx, mock.MatchedBy(func(b *procurement.BOQ) bool {
			return b.TotalItems == 2 && b.ExceptionsCount == 0 && b.Status == procurement.BOQApproved
		})).Return(nil)

		resp, err := svc.Import(ctx, ImportInput{
			ProjectID:  projectID,
			Title:      "Phase 1 backbone",
			FileName:   "phase1.csv",
			Data:       []byte(validCSV),
			UploadedBy: uploader,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalItems)
		assert.Equal(t, 2, resp.MappedItems)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "COMPLETED", resp.MappingStatus)
		assert.Equal(t, "28400", resp.TotalValue)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "CAB-001", resp.Items[0].ItemCode)
	})

	t.Run("rows without item code become mapping exceptions", func(t *testing.T) {
		svc, boqRepo := newTestBOQService(t)
		csv := "item_code,description,uom,quantity,unit_price\n" +
			",Unlabelled bracket,each,10,5\n"
		boqRepo.On("Save", ctx, mock.AnythingOfType("*procurement.BOQ")).Return(nil)

		resp, err := svc.Import(ctx, ImportInput{
			ProjectID:  projectID,
			Title:      "Brackets",
			FileName:   "brackets.csv",
			Data:       []byte(csv),
			UploadedBy: uploader,
		})

		require.NoError(t, err)
		assert.Equal(t, "MAPPING_REVIEW", resp.Status)
		assert.Equal(t, "NEEDS_REVIEW", resp.MappingStatus)
		assert.Equal(t, 1, resp.ExceptionsCount)
		require.Len(t, resp.Exceptions, 1)
		assert.Contains(t, resp.Exceptions[0].Reason, "Unlabelled bracket")
	})

	t.Run("any invalid row rejects the whole import", func(t *testing.T) {
		svc, boqRepo := newTestBOQService(t)
		cases := map[string]string{
			"negative quantity": "CAB-001,Fibre cable,m,-5,10\n",
			"empty description": "CAB-001,,m,5,10\n",
			"unknown uom":       "CAB-001,Fibre cable,lightyear,5,10\n",
			"non-numeric qty":   "CAB-001,Fibre cable,m,lots,10\n",
		}
		for name, row := range cases {
			t.Run(name, func(t *testing.T) {
				data := "item_code,description,uom,quantity,unit_price\n" +
					"SPL-014,Splice tray,each,40,85\n" + row

				_, err := svc.Import(ctx, ImportInput{
					ProjectID:  projectID,
					Title:      "Bad file",
					FileName:   "bad.csv",
					Data:       []byte(data),
					UploadedBy: uploader,
				})

				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid BOQ import data")
			})
		}
		boqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		svc, _ := newTestBOQService(t)
		_, err := svc.Import(ctx, ImportInput{
			ProjectID:  projectID,
			Title:      "Huge",
			FileName:   "huge.csv",
			Data:       bytes.Repeat([]byte("a"), maxImportFileSize+1),
			UploadedBy: uploader,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid BOQ import data")
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		svc, _ := newTestBOQService(t)
		_, err := svc.Import(ctx, ImportInput{
			ProjectID:  projectID,
			Title:      "Doc",
			FileName:   "notes.pdf",
			Data:       []byte("x"),
			UploadedBy: uploader,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file type")
	})

	t.Run("imports an XLSX workbook", func(t *testing.T) {
		svc, boqRepo := newTestBOQService(t)
		boqRepo.On("Save", ctx, mock.AnythingOfType("*procurement.BOQ")).Return(nil)

		workbook := excelize.NewFile()
		sheet := workbook.GetSheetName(0)
		rows := [][]any{
			{"item_code", "description", "uom", "quantity", "unit_price"},
			{"CAB-001", "Fibre cable 48F", "m", 2000, 12.5},
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
		}
		var buf bytes.Buffer
		require.NoError(t, workbook.Write(&buf))

		resp, err := svc.Import(ctx, ImportInput{
			ProjectID:  projectID,
			Title:      "Workbook import",
			FileName:   "phase1.xlsx",
			Data:       buf.Bytes(),
			UploadedBy: uploader,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalItems)
		assert.Equal(t, "25000", resp.TotalValue)
	})
}

func TestParseImportFile(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := ParseImportFile("x.csv", nil)
		require.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ParseImportFile("x.csv", []byte("item_code,description,uom,quantity\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no item rows")
	})

	t.Run("blank rows skipped", func(t *testing.T) {
		data := "item_code,description,uom,quantity,unit_price\n" +
			"CAB-001,Fibre cable,m,10,2\n" +
			",,,,\n"
		rows, err := ParseImportFile("x.csv", []byte(data))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("uom matching is case-insensitive", func(t *testing.T) {
		data := "item_code,description,uom,quantity,unit_price\n" +
			"CAB-001,Fibre cable,M,10,2\n"
		rows, err := ParseImportFile("x.csv", []byte(data))
		require.NoError(t, err)
		assert.Equal(t, "m", rows[0].UOM)
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		data := "item_code,description,uom,quantity\nCAB-001,Fibre cable,m,0\n"
		rows, err := ParseImportFile("x.csv", []byte(data))
		require.NoError(t, err)
		assert.True(t, rows[0].Quantity.IsZero())
		assert.True(t, rows[0].UnitPrice.IsZero())
	})
}

func TestBOQService_ResolveException(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	actor := uuid.New()
	svc, boqRepo := newTestBOQService(t)

	boq, err := procurement.NewBOQ(projectID, "Brackets", "brackets.csv", 100, actor)
	require.NoError(t, err)
	boq.AddItem(2, "", "Unlabelled bracket", "each", decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero)
	boq.AddException(2, "No catalog mapping for: Unlabelled bracket")
	exceptionID := boq.Exceptions[0].ID

	boqRepo.On("FindByIDForProject", ctx, projectID, boq.ID).Return(boq, nil)
	boqRepo.On("Save", ctx, boq).Return(nil)

	resp, err := svc.ResolveException(ctx, projectID, boq.ID, exceptionID, "BRK-001", actor)

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, 0, resp.ExceptionsCount)
	assert.Equal(t, "BRK-001", resp.Items[0].ItemCode)
}

func TestBOQService_Delete(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	svc, boqRepo := newTestBOQService(t)

	t.Run("missing BOQ surfaces not found", func(t *testing.T) {
		id := uuid.New()
		boqRepo.On("FindByIDForProject", ctx, projectID, id).Return(nil, shared.ErrNotFound)

		err := svc.Delete(ctx, projectID, id, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
