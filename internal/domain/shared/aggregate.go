package shared

import (
	"github.com/google/uuid"
)

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// ProjectAggregateRoot extends BaseAggregateRoot with project scoping.
// Every procurement entity belongs to exactly one project.
type ProjectAggregateRoot struct {
	BaseAggregateRoot
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewProjectAggregateRoot creates a new project-scoped aggregate root
func NewProjectAggregateRoot(projectID uuid.UUID) ProjectAggregateRoot {
	return ProjectAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		ProjectID:         projectID,
	}
}

// NewProjectAggregateRootWithCreator creates a new project-scoped aggregate root with creator info
func NewProjectAggregateRootWithCreator(projectID, createdBy uuid.UUID) ProjectAggregateRoot {
	return ProjectAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		ProjectID:         projectID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (p *ProjectAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	p.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (p *ProjectAggregateRoot) GetCreatedBy() *uuid.UUID {
	return p.CreatedBy
}
