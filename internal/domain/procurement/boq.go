package procurement

import (
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOQStatus is the review state of an imported bill of quantities
type BOQStatus string

const (
	BOQApproved      BOQStatus = "APPROVED"
	BOQMappingReview BOQStatus = "MAPPING_REVIEW"
)

// MappingStatus summarizes catalog mapping progress for a BOQ
type MappingStatus string

const (
	MappingCompleted   MappingStatus = "COMPLETED"
	MappingNeedsReview MappingStatus = "NEEDS_REVIEW"
)

// BOQ is an imported bill of quantities for a project. A BOQ is created
// by a whole-file import: either every row is accepted or nothing is
// persisted.
type BOQ struct {
	shared.ProjectAggregateRoot

	Version         int             `gorm:"not null;default:1;column:boq_version"`
	Title           string          `gorm:"type:varchar(255);not null"`
	Status          BOQStatus       `gorm:"type:varchar(16);not null"`
	MappingStatus   MappingStatus   `gorm:"type:varchar(16);not null"`
	FileName        string          `gorm:"type:varchar(255)"`
	FileSize        int64           `gorm:"not null;default:0"`
	TotalItems      int             `gorm:"not null;default:0"`
	MappedItems     int             `gorm:"not null;default:0"`
	ExceptionsCount int             `gorm:"not null;default:0"`
	UploadedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	Items           []BOQItem       `gorm:"foreignKey:BOQID;constraint:OnDelete:CASCADE"`
	Exceptions      []BOQException  `gorm:"foreignKey:BOQID;constraint:OnDelete:CASCADE"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the database table name
func (BOQ) TableName() string {
	return "boqs"
}

// BOQItem is one line of an imported BOQ
type BOQItem struct {
	shared.BaseEntity

	BOQID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber        int             `gorm:"not null"`
	ItemCode          string          `gorm:"type:varchar(64)"`
	Description       string          `gorm:"type:varchar(512);not null"`
	UOM               string          `gorm:"type:varchar(16);not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MappingConfidence decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
}

// TableName returns the database table name
func (BOQItem) TableName() string {
	return "boq_items"
}

// BOQException records a row the catalog mapper could not resolve
type BOQException struct {
	shared.BaseEntity

	BOQID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RowNumber int       `gorm:"not null"`
	Reason    string    `gorm:"type:varchar(512);not null"`
}

// TableName returns the database table name
func (BOQException) TableName() string {
	return "boq_exceptions"
}

// NewBOQ creates a BOQ from already-validated import rows. Mapping
// exceptions put the document into review state.
func NewBOQ(projectID uuid.UUID, title, fileName string, fileSize int64, uploadedBy uuid.UUID) (*BOQ, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Project ID is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "BOQ title is required")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Uploading user is required")
	}

	return &BOQ{
		ProjectAggregateRoot: shared.NewProjectAggregateRootWithCreator(projectID, uploadedBy),
		Version:              1,
		Title:                title,
		Status:               BOQApproved,
		MappingStatus:        MappingCompleted,
		FileName:             fileName,
		FileSize:             fileSize,
		UploadedBy:           uploadedBy,
		TotalValue:           decimal.Zero,
	}, nil
}

// AddItem appends a validated line to the BOQ
func (b *BOQ) AddItem(lineNumber int, itemCode, description, uom string, quantity, unitPrice, confidence decimal.Decimal) {
	b.Items = append(b.Items, BOQItem{
		BaseEntity:        shared.NewBaseEntity(),
		BOQID:             b.ID,
		LineNumber:        lineNumber,
		ItemCode:          itemCode,
		Description:       description,
		UOM:               uom,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		MappingConfidence: confidence,
	})
	b.TotalItems = len(b.Items)
	if itemCode != "" {
		b.MappedItems++
	}
	b.TotalValue = b.TotalValue.Add(quantity.Mul(unitPrice))
}

// AddException records a mapping exception and moves the BOQ into review
func (b *BOQ) AddException(rowNumber int, reason string) {
	b.Exceptions = append(b.Exceptions, BOQException{
		BaseEntity: shared.NewBaseEntity(),
		BOQID:      b.ID,
		RowNumber:  rowNumber,
		Reason:     reason,
	})
	b.ExceptionsCount = len(b.Exceptions)
	b.Status = BOQMappingReview
	b.MappingStatus = MappingNeedsReview
}

// ResolveException marks one exception resolved; once none remain the
// document returns to the approved state.
func (b *BOQ) ResolveException(exceptionID uuid.UUID, itemCode string) error {
	idx := -1
	for i := range b.Exceptions {
		if b.Exceptions[i].ID == exceptionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}
	row := b.Exceptions[idx].RowNumber
	for i := range b.Items {
		if b.Items[i].LineNumber == row && itemCode != "" {
			b.Items[i].ItemCode = itemCode
			b.MappedItems++
		}
	}
	b.Exceptions = append(b.Exceptions[:idx], b.Exceptions[idx+1:]...)
	b.ExceptionsCount = len(b.Exceptions)
	if b.ExceptionsCount == 0 {
		b.Status = BOQApproved
		b.MappingStatus = MappingCompleted
	}
	b.IncrementVersion()
	return nil
}
