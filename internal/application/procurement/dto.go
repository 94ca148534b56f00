package procurement

import (
	"time"

	"github.com/fibreflow/procurement/internal/domain/procurement"
)

// BOQItemResponse is one imported line in API responses
type BOQItemResponse struct {
	ID                string `json:"id"`
	LineNumber        int    `json:"line_number"`
	ItemCode          string `json:"item_code,omitempty"`
	Description       string `json:"description"`
	UOM               string `json:"uom"`
	Quantity          string `json:"quantity"`
	UnitPrice         string `json:"unit_price"`
	MappingConfidence string `json:"mapping_confidence"`
}

// BOQExceptionResponse is one unresolved mapping row in API responses
type BOQExceptionResponse struct {
	ID        string `json:"id"`
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

// BOQResponse is the API view of a bill of quantities
type BOQResponse struct {
	ID              string                 `json:"id"`
	ProjectID       string                 `json:"project_id"`
	Title           string                 `json:"title"`
	Status          string                 `json:"status"`
	MappingStatus   string                 `json:"mapping_status"`
	FileName        string                 `json:"file_name,omitempty"`
	FileSize        int64                  `json:"file_size"`
	TotalItems      int                    `json:"total_items"`
	MappedItems     int                    `json:"mapped_items"`
	ExceptionsCount int                    `json:"exceptions_count"`
	TotalValue      string                 `json:"total_value"`
	UploadedBy      string                 `json:"uploaded_by"`
	CreatedAt       string                 `json:"created_at"`
	Items           []BOQItemResponse      `json:"items,omitempty"`
	Exceptions      []BOQExceptionResponse `json:"exceptions,omitempty"`
}

// ToBOQResponse maps a domain BOQ to its API representation. Set
// includeChildren for detail views; list views return headers only.
func ToBOQResponse(b *procurement.BOQ, includeChildren bool) *BOQResponse {
	resp := &BOQResponse{
		ID:              b.ID.String(),
		ProjectID:       b.ProjectID.String(),
		Title:           b.Title,
		Status:          string(b.Status),
		MappingStatus:   string(b.MappingStatus),
		FileName:        b.FileName,
		FileSize:        b.FileSize,
		TotalItems:      b.TotalItems,
		MappedItems:     b.MappedItems,
		ExceptionsCount: b.ExceptionsCount,
		TotalValue:      b.TotalValue.String(),
		UploadedBy:      b.UploadedBy.String(),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if !includeChildren {
		return resp
	}
	for i := range b.Items {
		item := &b.Items[i]
		resp.Items = append(resp.Items, BOQItemResponse{
			ID:                item.ID.String(),
			LineNumber:        item.LineNumber,
			ItemCode:          item.ItemCode,
			Description:       item.Description,
			UOM:               item.UOM,
			Quantity:          item.Quantity.String(),
			UnitPrice:         item.UnitPrice.String(),
			MappingConfidence: item.MappingConfidence.String(),
		})
	}
	for i := range b.Exceptions {
		ex := &b.Exceptions[i]
		resp.Exceptions = append(resp.Exceptions, BOQExceptionResponse{
			ID:        ex.ID.String(),
			RowNumber: ex.RowNumber,
			Reason:    ex.Reason,
		})
	}
	return resp
}

// RFQResponse is the API view of a request for quote
type RFQResponse struct {
	ID                  string   `json:"id"`
	ProjectID           string   `json:"project_id"`
	RFQNumber           string   `json:"rfq_number"`
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	Status              string   `json:"status"`
	SupplierIDs         []string `json:"supplier_ids"`
	BOQID               string   `json:"boq_id,omitempty"`
	ResponseDeadline    string   `json:"response_deadline"`
	PaymentTerms        string   `json:"payment_terms,omitempty"`
	DeliveryTerms       string   `json:"delivery_terms,omitempty"`
	ValidityPeriodDays  int      `json:"validity_period_days"`
	Currency            string   `json:"currency"`
	TotalBudgetEstimate string   `json:"total_budget_estimate"`
	IssuedAt            string   `json:"issued_at,omitempty"`
	ClosedAt            string   `json:"closed_at,omitempty"`
	Version             int      `json:"version"`
	CreatedAt           string   `json:"created_at"`
}

// ToRFQResponse maps a domain RFQ to its API representation
func ToRFQResponse(r *procurement.RFQ) *RFQResponse {
	resp := &RFQResponse{
		ID:                  r.ID.String(),
		ProjectID:           r.ProjectID.String(),
		RFQNumber:           r.RFQNumber,
		Title:               r.Title,
		Description:         r.Description,
		Status:              string(r.Status),
		SupplierIDs:         make([]string, 0, len(r.SupplierIDs)),
		ResponseDeadline:    r.ResponseDeadline.Format(time.RFC3339),
		PaymentTerms:        r.PaymentTerms,
		DeliveryTerms:       r.DeliveryTerms,
		ValidityPeriodDays:  r.ValidityPeriodDays,
		Currency:            r.Currency,
		TotalBudgetEstimate: r.TotalBudgetEstimate.String(),
		Version:             r.GetVersion(),
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
	for _, id := range r.SupplierIDs {
		resp.SupplierIDs = append(resp.SupplierIDs, id.String())
	}
	if r.BOQID != nil {
		resp.BOQID = r.BOQID.String()
	}
	if r.IssuedAt != nil {
		resp.IssuedAt = r.IssuedAt.Format(time.RFC3339)
	}
	if r.ClosedAt != nil {
		resp.ClosedAt = r.ClosedAt.Format(time.RFC3339)
	}
	return resp
}
