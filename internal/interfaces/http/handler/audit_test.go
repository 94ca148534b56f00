package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuditRouter(userID, projectID uuid.UUID) (*gin.Engine, *MockAuditRepository) {
	records := new(MockAuditRepository)
	h := NewAuditHandler(records)
	r := newProjectRouter(userID, projectID, h.RegisterRoutes)
	return r, records
}

func TestAuditHandler_ListForProject(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	base := "/projects/" + projectID.String() + "/audit"

	t.Run("lists records with explicit range and filters", func(t *testing.T) {
		r, records := newAuditRouter(userID, projectID)
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
		record := audit.NewRecord(userID, projectID, uuid.New(),
			"stock.position.adjust", "stock_position", nil, nil)

		records.On("FindByProject", mock.Anything, projectID, from, to,
			mock.MatchedBy(func(f shared.Filter) bool {
				return f.Filters["action"] == "stock.position.adjust" &&
					f.Filters["resource"] == "stock_position"
			})).Return([]audit.Record{*record}, nil)

		w := performJSON(t, r, http.MethodGet,
			base+"?from=2026-08-01T00:00:00Z&to=2026-08-28T00:00:00Z"+
				"&action=stock.position.adjust&resource=stock_position", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		rows, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, rows, 1)
	})

	t.Run("defaults to a recent window", func(t *testing.T) {
		r, records := newAuditRouter(userID, projectID)
		records.On("FindByProject", mock.Anything, projectID,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.Anything).
			Return([]audit.Record{}, nil)

		w := performJSON(t, r, http.MethodGet, base, nil)

		require.Equal(t, http.StatusOK, w.Code)
		records.AssertExpectations(t)
	})

	t.Run("rejects malformed from timestamp", func(t *testing.T) {
		r, _ := newAuditRouter(userID, projectID)

		w := performJSON(t, r, http.MethodGet, base+"?from=yesterday", nil)

		requireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}

func TestAuditHandler_ListForResource(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	t.Run("lists resource history", func(t *testing.T) {
		r, records := newAuditRouter(userID, projectID)
		resourceID := uuid.New()
		record := audit.NewRecord(userID, projectID, resourceID,
			"procurement.rfq.issue", "rfq", nil, nil)

		records.On("FindByResource", mock.Anything, "rfq", resourceID, mock.Anything).
			Return([]audit.Record{*record}, nil)

		w := performJSON(t, r, http.MethodGet,
			"/projects/"+projectID.String()+"/audit/rfq/"+resourceID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		rows, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, rows, 1)
	})

	t.Run("rejects malformed resource ID", func(t *testing.T) {
		r, _ := newAuditRouter(userID, projectID)

		w := performJSON(t, r, http.MethodGet,
			"/projects/"+projectID.String()+"/audit/rfq/not-a-uuid", nil)

		requireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}
