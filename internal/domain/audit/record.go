package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// Record is one append-only audit trail entry. Written after every
// successful mutating operation; never updated or deleted.
type Record struct {
	shared.BaseEntity

	ActorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Action     string          `gorm:"type:varchar(64);not null;index"`
	Resource   string          `gorm:"type:varchar(64);not null"`
	ResourceID uuid.UUID       `gorm:"type:uuid;index"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Before     json.RawMessage `gorm:"type:jsonb"`
	After      json.RawMessage `gorm:"type:jsonb"`
	Metadata   json.RawMessage `gorm:"type:jsonb"`
}

// TableName returns the database table name
func (Record) TableName() string {
	return "audit_records"
}

// NewRecord builds an audit record, serializing the before/after
// snapshots. Snapshot marshalling failures are swallowed into null
// fields; auditing must never fail the audited operation.
func NewRecord(actorID, projectID, resourceID uuid.UUID, action, resource string, before, after any) *Record {
	r := &Record{
		BaseEntity: shared.NewBaseEntity(),
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		ProjectID:  projectID,
	}
	if before != nil {
		if data, err := json.Marshal(before); err == nil {
			r.Before = data
		}
	}
	if after != nil {
		if data, err := json.Marshal(after); err == nil {
			r.After = data
		}
	}
	return r
}

// WithMetadata attaches arbitrary metadata (fluent)
func (r *Record) WithMetadata(meta map[string]any) *Record {
	if data, err := json.Marshal(meta); err == nil {
		r.Metadata = data
	}
	return r
}

// Repository writes audit records to the audit sink
type Repository interface {
	// Save appends a record
	Save(ctx context.Context, record *Record) error

	// FindByResource lists records for a resource, newest first
	FindByResource(ctx context.Context, resource string, resourceID uuid.UUID, filter shared.Filter) ([]Record, error)

	// FindByProject lists records for a project within a time range
	FindByProject(ctx context.Context, projectID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Record, error)
}
