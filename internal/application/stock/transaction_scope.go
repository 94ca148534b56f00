package stock

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/stock"
)

// TransactionScope provides transactional access to stock repositories.
// Repository operations performed inside Execute share one database
// transaction and commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories
// within a transaction. Position updates, the movement ledger row and
// drum usage history must land in the same transaction so the ledger
// never records a movement whose position write failed.
type TransactionalRepositories interface {
	// PositionRepo returns the position repository scoped to the current transaction
	PositionRepo() stock.PositionRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
	// DrumRepo returns the cable drum repository scoped to the current transaction
	DrumRepo() stock.CableDrumRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests and wherever transactional guarantees are not needed.
type NoOpTransactionScope struct {
	positionRepo stock.PositionRepository
	movementRepo stock.MovementRepository
	drumRepo     stock.CableDrumRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	positionRepo stock.PositionRepository,
	movementRepo stock.MovementRepository,
	drumRepo stock.CableDrumRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		positionRepo: positionRepo,
		movementRepo: movementRepo,
		drumRepo:     drumRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PositionRepo returns the position repository
func (s *NoOpTransactionScope) PositionRepo() stock.PositionRepository {
	return s.positionRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository {
	return s.movementRepo
}

// DrumRepo returns the cable drum repository
func (s *NoOpTransactionScope) DrumRepo() stock.CableDrumRepository {
	return s.drumRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
