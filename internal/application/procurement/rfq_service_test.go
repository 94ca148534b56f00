package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRFQService(t *testing.T) (*RFQService, *MockRFQRepository, *MockSupplierLookup, *MockNotifier) {
	t.Helper()
	rfqRepo := new(MockRFQRepository)
	suppliers := new(MockSupplierLookup)
	notifier := new(MockNotifier)
	return NewRFQService(rfqRepo, suppliers, notifier, nil, nil), rfqRepo, suppliers, notifier
}

func draftRFQ(t *testing.T, projectID uuid.UUID, supplierIDs []uuid.UUID) *procurement.RFQ {
	t.Helper()
	rfq, err := procurement.NewRFQ(procurement.NewRFQInput{
		ProjectID:   projectID,
		Title:       "Backbone cable supply",
		SupplierIDs: supplierIDs,
		CreatedBy:   uuid.New(),
	})
	require.NoError(t, err)
	return rfq
}

func TestRFQService_Create(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	actor := uuid.New()
	supplierIDs := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("creates a draft with defaults", func(t *testing.T) {
		svc, rfqRepo, suppliers, _ := newTestRFQService(t)
		suppliers.On("ExistingIDs", ctx, supplierIDs).Return(supplierIDs, nil)
		rfqRepo.On("Save", ctx, mock.MatchedBy(func(r *procurement.RFQ) bool {
			return r.Status == procurement.RFQDraft && r.RFQNumber != ""
		})).Return(nil)

		resp, err := svc.Create(ctx, CreateRFQInput{
			ProjectID:           projectID,
			Title:               "Backbone cable supply",
			SupplierIDs:         supplierIDs,
			TotalBudgetEstimate: decimal.NewFromInt(250000),
			ActorID:             actor,
		})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "ZAR", resp.Currency)
		assert.Equal(t, 30, resp.ValidityPeriodDays)
		assert.Len(t, resp.SupplierIDs, 2)

		deadline, err := time.Parse(time.RFC3339, resp.ResponseDeadline)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), deadline, time.Minute)
	})

	t.Run("rejects unknown supplier IDs before persistence", func(t *testing.T) {
		svc, rfqRepo, suppliers, _ := newTestRFQService(t)
		suppliers.On("ExistingIDs", ctx, supplierIDs).Return(supplierIDs[:1], nil)

		_, err := svc.Create(ctx, CreateRFQInput{
			ProjectID:   projectID,
			Title:       "Backbone cable supply",
			SupplierIDs: supplierIDs,
			ActorID:     actor,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid RFQ data")
		rfqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects past deadline before persistence", func(t *testing.T) {
		svc, rfqRepo, suppliers, _ := newTestRFQService(t)
		suppliers.On("ExistingIDs", ctx, supplierIDs).Return(supplierIDs, nil)
		past := time.Now().Add(-time.Hour)

		_, err := svc.Create(ctx, CreateRFQInput{
			ProjectID:        projectID,
			Title:            "Backbone cable supply",
			SupplierIDs:      supplierIDs,
			ResponseDeadline: &past,
			ActorID:          actor,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid RFQ data")
		rfqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRFQService_Issue(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	actor := uuid.New()
	supplierIDs := []uuid.UUID{uuid.New()}

	t.Run("issues and notifies suppliers", func(t *testing.T) {
		svc, rfqRepo, _, notifier := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)

		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)
		rfqRepo.On("SaveWithLock", ctx, rfq).Return(nil)
		notifier.On("NotifyIssued", ctx, rfq).Return(nil)

		resp, err := svc.Issue(ctx, projectID, rfq.ID, actor)

		require.NoError(t, err)
		assert.Equal(t, "ISSUED", resp.Status)
		assert.NotEmpty(t, resp.IssuedAt)
		notifier.AssertExpectations(t)
	})

	t.Run("notification failure does not fail the issue", func(t *testing.T) {
		svc, rfqRepo, _, notifier := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)

		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)
		rfqRepo.On("SaveWithLock", ctx, rfq).Return(nil)
		notifier.On("NotifyIssued", ctx, rfq).Return(assert.AnError)

		resp, err := svc.Issue(ctx, projectID, rfq.ID, actor)

		require.NoError(t, err)
		assert.Equal(t, "ISSUED", resp.Status)
	})

	t.Run("issued RFQ rejects edits", func(t *testing.T) {
		svc, rfqRepo, _, _ := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)
		require.NoError(t, rfq.Issue())

		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)

		_, err := svc.Update(ctx, projectID, rfq.ID, UpdateInput{Title: "New title", ActorID: actor})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		rfqRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestRFQService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	actor := uuid.New()
	supplierIDs := []uuid.UUID{uuid.New()}

	t.Run("full forward path", func(t *testing.T) {
		svc, rfqRepo, _, notifier := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)

		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)
		rfqRepo.On("SaveWithLock", ctx, rfq).Return(nil)
		notifier.On("NotifyIssued", ctx, rfq).Return(nil)

		_, err := svc.Issue(ctx, projectID, rfq.ID, actor)
		require.NoError(t, err)
		_, err = svc.MarkResponsesReceived(ctx, projectID, rfq.ID, actor)
		require.NoError(t, err)
		resp, err := svc.Award(ctx, projectID, rfq.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, "AWARDED", resp.Status)
	})

	t.Run("skipping a stage is rejected", func(t *testing.T) {
		svc, rfqRepo, _, _ := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)
		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)

		_, err := svc.Award(ctx, projectID, rfq.ID, actor)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("close from any live state", func(t *testing.T) {
		svc, rfqRepo, _, _ := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)
		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)
		rfqRepo.On("SaveWithLock", ctx, rfq).Return(nil)

		resp, err := svc.Close(ctx, projectID, rfq.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, "CLOSED", resp.Status)
		assert.NotEmpty(t, resp.ClosedAt)

		_, err = svc.Close(ctx, projectID, rfq.ID, actor)
		require.Error(t, err)
	})

	t.Run("extend deadline after issue", func(t *testing.T) {
		svc, rfqRepo, _, notifier := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)
		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)
		rfqRepo.On("SaveWithLock", ctx, rfq).Return(nil)
		notifier.On("NotifyIssued", ctx, rfq).Return(nil)

		_, err := svc.Issue(ctx, projectID, rfq.ID, actor)
		require.NoError(t, err)

		newDeadline := rfq.ResponseDeadline.Add(14 * 24 * time.Hour)
		resp, err := svc.ExtendDeadline(ctx, projectID, rfq.ID, newDeadline, actor)
		require.NoError(t, err)
		assert.Equal(t, newDeadline.Format(time.RFC3339), resp.ResponseDeadline)

		_, err = svc.ExtendDeadline(ctx, projectID, rfq.ID, newDeadline, actor)
		require.Error(t, err)
	})

	t.Run("notify before issue is rejected", func(t *testing.T) {
		svc, rfqRepo, _, notifier := newTestRFQService(t)
		rfq := draftRFQ(t, projectID, supplierIDs)
		rfqRepo.On("FindByIDForProject", ctx, projectID, rfq.ID).Return(rfq, nil)

		err := svc.NotifySuppliers(ctx, projectID, rfq.ID)

		require.Error(t, err)
		notifier.AssertNotCalled(t, "NotifyIssued", mock.Anything, mock.Anything)
	})
}
