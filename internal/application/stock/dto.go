package stock

import (
	"time"

	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// PositionResponse is the API view of a stock position. Quantities are
// decimal strings to preserve precision across the boundary.
type PositionResponse struct {
	ID                string `json:"id"`
	ProjectID         string `json:"project_id"`
	ItemCode          string `json:"item_code"`
	ItemName          string `json:"item_name"`
	UOM               string `json:"uom"`
	OnHandQuantity    string `json:"on_hand_quantity"`
	ReservedQuantity  string `json:"reserved_quantity"`
	AvailableQuantity string `json:"available_quantity"`
	AverageUnitCost   string `json:"average_unit_cost"`
	TotalValue        string `json:"total_value"`
	ReorderLevel      string `json:"reorder_level"`
	StockStatus       string `json:"stock_status"`
	IsActive          bool   `json:"is_active"`
	Version           int    `json:"version"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// ToPositionResponse maps a domain position to its API representation
func ToPositionResponse(p *stock.Position) *PositionResponse {
	return &PositionResponse{
		ID:                p.ID.String(),
		ProjectID:         p.ProjectID.String(),
		ItemCode:          p.ItemCode,
		ItemName:          p.ItemName,
		UOM:               p.UOM,
		OnHandQuantity:    p.OnHandQuantity.String(),
		ReservedQuantity:  p.ReservedQuantity.String(),
		AvailableQuantity: p.AvailableQuantity.String(),
		AverageUnitCost:   p.AverageUnitCost.String(),
		TotalValue:        p.TotalValue.String(),
		ReorderLevel:      p.ReorderLevel.String(),
		StockStatus:       string(p.StockStatus),
		IsActive:          p.IsActive,
		Version:           p.GetVersion(),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

// MovementItemResponse is one line of a movement in API responses
type MovementItemResponse struct {
	ID              string `json:"id"`
	PositionID      string `json:"position_id"`
	ItemCode        string `json:"item_code"`
	PlannedQuantity string `json:"planned_quantity"`
	ActualQuantity  string `json:"actual_quantity"`
	UnitCost        string `json:"unit_cost"`
	LineValue       string `json:"line_value"`
}

// MovementResponse is the API view of a stock movement
type MovementResponse struct {
	ID              string                 `json:"id"`
	ProjectID       string                 `json:"project_id"`
	MovementType    string                 `json:"movement_type"`
	ReferenceNumber string                 `json:"reference_number"`
	FromLocation    string                 `json:"from_location,omitempty"`
	ToLocation      string                 `json:"to_location,omitempty"`
	Status          string                 `json:"status"`
	MovementDate    string                 `json:"movement_date"`
	PerformedBy     string                 `json:"performed_by"`
	Notes           string                 `json:"notes,omitempty"`
	TotalValue      string                 `json:"total_value"`
	Items           []MovementItemResponse `json:"items,omitempty"`
}

// ToMovementResponse maps a domain movement to its API representation
func ToMovementResponse(m *stock.Movement) *MovementResponse {
	resp := &MovementResponse{
		ID:              m.ID.String(),
		ProjectID:       m.ProjectID.String(),
		MovementType:    string(m.MovementType),
		ReferenceNumber: m.ReferenceNumber,
		FromLocation:    m.FromLocation,
		ToLocation:      m.ToLocation,
		Status:          string(m.Status),
		MovementDate:    m.MovementDate.Format(time.RFC3339),
		PerformedBy:     m.PerformedBy.String(),
		Notes:           m.Notes,
		TotalValue:      m.TotalValue.String(),
	}
	for i := range m.Items {
		item := &m.Items[i]
		resp.Items = append(resp.Items, MovementItemResponse{
			ID:              item.ID.String(),
			PositionID:      item.PositionID.String(),
			ItemCode:        item.ItemCode,
			PlannedQuantity: item.PlannedQuantity.String(),
			ActualQuantity:  item.ActualQuantity.String(),
			UnitCost:        item.UnitCost.String(),
			LineValue:       item.LineValue.String(),
		})
	}
	return resp
}

// DrumResponse is the API view of a cable drum
type DrumResponse struct {
	ID                 string `json:"id"`
	ProjectID          string `json:"project_id"`
	DrumNumber         string `json:"drum_number"`
	CableType          string `json:"cable_type"`
	ItemCode           string `json:"item_code,omitempty"`
	OriginalLength     string `json:"original_length"`
	CurrentLength      string `json:"current_length"`
	UsedLength         string `json:"used_length"`
	LastMeterReading   string `json:"last_meter_reading"`
	InstallationStatus string `json:"installation_status"`
	Location           string `json:"location,omitempty"`
	Version            int    `json:"version"`
}

// ToDrumResponse maps a domain drum to its API representation
func ToDrumResponse(d *stock.CableDrum) *DrumResponse {
	return &DrumResponse{
		ID:                 d.ID.String(),
		ProjectID:          d.ProjectID.String(),
		DrumNumber:         d.DrumNumber,
		CableType:          d.CableType,
		ItemCode:           d.ItemCode,
		OriginalLength:     d.OriginalLength.String(),
		CurrentLength:      d.CurrentLength.String(),
		UsedLength:         d.UsedLength.String(),
		LastMeterReading:   d.LastMeterReading.String(),
		InstallationStatus: string(d.InstallationStatus),
		Location:           d.Location,
		Version:            d.GetVersion(),
	}
}

// DrumUsageResponse is one usage history row in API responses
type DrumUsageResponse struct {
	ID              string `json:"id"`
	DrumID          string `json:"drum_id"`
	PreviousReading string `json:"previous_reading"`
	CurrentReading  string `json:"current_reading"`
	UsedLength      string `json:"used_length"`
	PoleNumber      string `json:"pole_number,omitempty"`
	SectionID       string `json:"section_id,omitempty"`
	RecordedBy      string `json:"recorded_by"`
	RecordedAt      string `json:"recorded_at"`
	Notes           string `json:"notes,omitempty"`
}

// ToDrumUsageResponse maps a usage row to its API representation
func ToDrumUsageResponse(u *stock.DrumUsage) *DrumUsageResponse {
	return &DrumUsageResponse{
		ID:              u.ID.String(),
		DrumID:          u.DrumID.String(),
		PreviousReading: u.PreviousReading.String(),
		CurrentReading:  u.CurrentReading.String(),
		UsedLength:      u.UsedLength.String(),
		PoleNumber:      u.PoleNumber,
		SectionID:       u.SectionID,
		RecordedBy:      u.RecordedBy.String(),
		RecordedAt:      u.RecordedAt.Format(time.RFC3339),
		Notes:           u.Notes,
	}
}

// PositionSummaryResponse aggregates ledger totals for a project
type PositionSummaryResponse struct {
	TotalValue     string           `json:"total_value"`
	CountsByStatus map[string]int64 `json:"counts_by_status"`
}

// positionSnapshot captures the mutable ledger fields for audit records
type positionSnapshot struct {
	ItemCode  string `json:"item_code"`
	OnHand    string `json:"on_hand"`
	Reserved  string `json:"reserved"`
	Available string `json:"available"`
	UnitCost  string `json:"unit_cost"`
	Status    string `json:"status"`
	IsActive  bool   `json:"is_active"`
}

func snapshotPosition(p *stock.Position) positionSnapshot {
	return positionSnapshot{
		ItemCode:  p.ItemCode,
		OnHand:    p.OnHandQuantity.String(),
		Reserved:  p.ReservedQuantity.String(),
		Available: p.AvailableQuantity.String(),
		UnitCost:  p.AverageUnitCost.String(),
		Status:    string(p.StockStatus),
		IsActive:  p.IsActive,
	}
}

// parseQuantity converts a decimal string from the API boundary
func parseQuantity(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
