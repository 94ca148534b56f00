package procurement

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQStatus is the lifecycle state of a request for quote
type RFQStatus string

const (
	RFQDraft             RFQStatus = "DRAFT"
	RFQIssued            RFQStatus = "ISSUED"
	RFQResponsesReceived RFQStatus = "RESPONSES_RECEIVED"
	RFQAwarded           RFQStatus = "AWARDED"
	RFQClosed            RFQStatus = "CLOSED"
)

// IsValid checks if the status is a known value
func (s RFQStatus) IsValid() bool {
	switch s {
	case RFQDraft, RFQIssued, RFQResponsesReceived, RFQAwarded, RFQClosed:
		return true
	}
	return false
}

// rfqTransitions is the allowed forward transition matrix. Any state may
// additionally transition to CLOSED.
var rfqTransitions = map[RFQStatus][]RFQStatus{
	RFQDraft:             {RFQIssued},
	RFQIssued:            {RFQResponsesReceived},
	RFQResponsesReceived: {RFQAwarded},
	RFQAwarded:           {},
	RFQClosed:            {},
}

// CanTransitionTo checks the status transition matrix
func (s RFQStatus) CanTransitionTo(target RFQStatus) bool {
	if target == RFQClosed {
		return s != RFQClosed
	}
	for _, allowed := range rfqTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// defaultResponseWindow is applied when no deadline is supplied
const defaultResponseWindow = 7 * 24 * time.Hour

// RFQ is a supplier solicitation document. Drafts are freely editable;
// once issued the document is immutable apart from supplier notification,
// deadline extension and closing.
type RFQ struct {
	shared.ProjectAggregateRoot

	RFQNumber           string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Title               string          `gorm:"type:varchar(255);not null"`
	Description         string          `gorm:"type:text"`
	Status              RFQStatus       `gorm:"type:varchar(24);not null;default:'DRAFT'"`
	SupplierIDs         []uuid.UUID     `gorm:"type:jsonb;serializer:json"`
	BOQID               *uuid.UUID      `gorm:"type:uuid;index"`
	ResponseDeadline    time.Time       `gorm:"not null"`
	PaymentTerms        string          `gorm:"type:varchar(255)"`
	DeliveryTerms       string          `gorm:"type:varchar(255)"`
	ValidityPeriodDays  int             `gorm:"not null;default:30"`
	Currency            string          `gorm:"type:varchar(8);not null;default:'ZAR'"`
	TotalBudgetEstimate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IssuedAt            *time.Time
	ClosedAt            *time.Time
}

// TableName returns the database table name
func (RFQ) TableName() string {
	return "rfqs"
}

// NewRFQNumber generates a reference like RFQ-1767091200000-4821
func NewRFQNumber() string {
	return fmt.Sprintf("RFQ-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

// NewRFQInput carries the fields for RFQ creation
type NewRFQInput struct {
	ProjectID           uuid.UUID
	Title               string
	Description         string
	SupplierIDs         []uuid.UUID
	BOQID               *uuid.UUID
	ResponseDeadline    *time.Time
	PaymentTerms        string
	DeliveryTerms       string
	ValidityPeriodDays  int
	Currency            string
	TotalBudgetEstimate decimal.Decimal
	CreatedBy           uuid.UUID
}

// NewRFQ creates a draft RFQ. The response deadline must be strictly in
// the future; when omitted it defaults to one week out.
func NewRFQ(in NewRFQInput) (*RFQ, error) {
	if in.ProjectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid RFQ data: project ID is required")
	}
	if in.Title == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid RFQ data: title is required")
	}
	if len(in.SupplierIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid RFQ data: at least one supplier is required")
	}
	if in.CreatedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid RFQ data: creating user is required")
	}

	deadline := time.Now().Add(defaultResponseWindow)
	if in.ResponseDeadline != nil {
		if !in.ResponseDeadline.After(time.Now()) {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid RFQ data: response deadline must be in the future")
		}
		deadline = *in.ResponseDeadline
	}

	validity := in.ValidityPeriodDays
	if validity <= 0 {
		validity = 30
	}
	currency := in.Currency
	if currency == "" {
		currency = "ZAR"
	}

	return &RFQ{
		ProjectAggregateRoot: shared.NewProjectAggregateRootWithCreator(in.ProjectID, in.CreatedBy),
		RFQNumber:            NewRFQNumber(),
		Title:                in.Title,
		Description:          in.Description,
		Status:               RFQDraft,
		SupplierIDs:          in.SupplierIDs,
		BOQID:                in.BOQID,
		ResponseDeadline:     deadline,
		PaymentTerms:         in.PaymentTerms,
		DeliveryTerms:        in.DeliveryTerms,
		ValidityPeriodDays:   validity,
		Currency:             currency,
		TotalBudgetEstimate:  in.TotalBudgetEstimate,
	}, nil
}

// IsMutable reports whether general field edits are still allowed
func (r *RFQ) IsMutable() bool {
	return r.Status == RFQDraft
}

// UpdateDetails edits a draft RFQ. Issued documents are immutable.
func (r *RFQ) UpdateDetails(title, description, paymentTerms, deliveryTerms string) error {
	if !r.IsMutable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("RFQ %s can no longer be edited in status %s", r.RFQNumber, r.Status))
	}
	if title != "" {
		r.Title = title
	}
	if description != "" {
		r.Description = description
	}
	if paymentTerms != "" {
		r.PaymentTerms = paymentTerms
	}
	if deliveryTerms != "" {
		r.DeliveryTerms = deliveryTerms
	}
	r.IncrementVersion()
	return nil
}

// Issue publishes the RFQ to its suppliers
func (r *RFQ) Issue() error {
	if err := r.transition(RFQIssued); err != nil {
		return err
	}
	now := time.Now()
	r.IssuedAt = &now
	return nil
}

// MarkResponsesReceived records that supplier responses arrived
func (r *RFQ) MarkResponsesReceived() error {
	return r.transition(RFQResponsesReceived)
}

// Award marks the RFQ awarded
func (r *RFQ) Award() error {
	return r.transition(RFQAwarded)
}

// Close terminates the RFQ from any live state
func (r *RFQ) Close() error {
	if err := r.transition(RFQClosed); err != nil {
		return err
	}
	now := time.Now()
	r.ClosedAt = &now
	return nil
}

// ExtendDeadline pushes the response deadline out. Allowed after issue.
func (r *RFQ) ExtendDeadline(newDeadline time.Time) error {
	if r.Status == RFQClosed || r.Status == RFQAwarded {
		return shared.NewDomainError("INVALID_STATE", "Cannot extend deadline of a finalized RFQ")
	}
	if !newDeadline.After(r.ResponseDeadline) {
		return shared.NewDomainError("VALIDATION_FAILED", "New deadline must be after the current deadline")
	}
	r.ResponseDeadline = newDeadline
	r.IncrementVersion()
	return nil
}

func (r *RFQ) transition(target RFQStatus) error {
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition RFQ from %s to %s", r.Status, target))
	}
	r.Status = target
	r.IncrementVersion()
	return nil
}
