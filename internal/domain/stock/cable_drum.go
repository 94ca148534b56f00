package stock

import (
	"fmt"
	"time"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallationStatus tracks a drum's position in the installation lifecycle
type InstallationStatus string

const (
	DrumAvailable InstallationStatus = "available"
	DrumInUse     InstallationStatus = "in_use"
	DrumCompleted InstallationStatus = "completed"
)

// readingTolerance is the maximum accepted discrepancy between the meter
// reading delta and the reported used length.
var readingTolerance = decimal.NewFromFloat(0.01)

// CableDrum tracks a physical cable reel. Usage is recorded from meter
// readings taken before and after each pull; each recording appends an
// immutable DrumUsage row.
type CableDrum struct {
	shared.ProjectAggregateRoot

	DrumNumber         string             `gorm:"type:varchar(64);not null;uniqueIndex:idx_drums_project_number,priority:2"`
	CableType          string             `gorm:"type:varchar(128);not null"`
	ItemCode           string             `gorm:"type:varchar(64);index"`
	OriginalLength     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	CurrentLength      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	UsedLength         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	LastMeterReading   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	InstallationStatus InstallationStatus `gorm:"type:varchar(16);not null;default:'available'"`
	Location           string             `gorm:"type:varchar(128)"`
}

// TableName returns the database table name
func (CableDrum) TableName() string {
	return "cable_drums"
}

// DrumUsage is an append-only record of a single usage event on a drum
type DrumUsage struct {
	shared.BaseEntity

	DrumID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousReading decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentReading  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UsedLength      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PoleNumber      string          `gorm:"type:varchar(64)"`
	SectionID       string          `gorm:"type:varchar(64)"`
	RecordedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt      time.Time       `gorm:"not null"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the database table name
func (DrumUsage) TableName() string {
	return "drum_usage_history"
}

// NewCableDrum registers a drum for a project
func NewCableDrum(projectID uuid.UUID, drumNumber, cableType string, originalLength decimal.Decimal) (*CableDrum, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Project ID is required")
	}
	if drumNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Drum number is required")
	}
	if cableType == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Cable type is required")
	}
	if !originalLength.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Original length must be positive")
	}

	return &CableDrum{
		ProjectAggregateRoot: shared.NewProjectAggregateRoot(projectID),
		DrumNumber:           drumNumber,
		CableType:            cableType,
		OriginalLength:       originalLength,
		CurrentLength:        originalLength,
		UsedLength:           decimal.Zero,
		LastMeterReading:     decimal.Zero,
		InstallationStatus:   DrumAvailable,
	}, nil
}

// RecordUsageInput carries the meter readings for one usage event
type RecordUsageInput struct {
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	UsedLength      decimal.Decimal
	PoleNumber      string
	SectionID       string
	RecordedBy      uuid.UUID
	Notes           string
}

// RecordUsage validates the meter readings against the reported used
// length and applies them to the drum. The returned DrumUsage row must be
// persisted in the same transaction as the drum update.
func (d *CableDrum) RecordUsage(in RecordUsageInput) (*DrumUsage, error) {
	if in.RecordedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Recording user is required")
	}
	if in.CurrentReading.LessThan(in.PreviousReading) {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Current reading %s is before previous reading %s", in.CurrentReading.String(), in.PreviousReading.String()))
	}
	calculated := in.CurrentReading.Sub(in.PreviousReading)
	if calculated.Sub(in.UsedLength).Abs().GreaterThan(readingTolerance) {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Used length %s does not match reading delta %s", in.UsedLength.String(), calculated.String()))
	}

	d.CurrentLength = d.CurrentLength.Sub(in.UsedLength)
	d.UsedLength = d.UsedLength.Add(in.UsedLength)
	d.LastMeterReading = in.CurrentReading
	if d.CurrentLength.LessThanOrEqual(decimal.Zero) {
		d.InstallationStatus = DrumCompleted
	} else {
		d.InstallationStatus = DrumInUse
	}
	d.IncrementVersion()

	usage := &DrumUsage{
		BaseEntity:      shared.NewBaseEntity(),
		DrumID:          d.ID,
		ProjectID:       d.ProjectID,
		PreviousReading: in.PreviousReading,
		CurrentReading:  in.CurrentReading,
		UsedLength:      in.UsedLength,
		PoleNumber:      in.PoleNumber,
		SectionID:       in.SectionID,
		RecordedBy:      in.RecordedBy,
		RecordedAt:      time.Now(),
		Notes:           in.Notes,
	}
	d.AddDomainEvent(&DrumUsageRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDrumUsageRecorded, "CableDrum", d.ID, d.ProjectID),
		DrumNumber:      d.DrumNumber,
		UsedLength:      in.UsedLength,
		RemainingLength: d.CurrentLength,
	})
	return usage, nil
}

// DrumUsageRecordedEvent is emitted when drum usage is recorded
type DrumUsageRecordedEvent struct {
	shared.BaseDomainEvent
	DrumNumber      string          `json:"drum_number"`
	UsedLength      decimal.Decimal `json:"used_length"`
	RemainingLength decimal.Decimal `json:"remaining_length"`
}
