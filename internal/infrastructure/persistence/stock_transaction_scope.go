package persistence

import (
	"context"

	appstock "github.com/fibreflow/procurement/internal/application/stock"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockTransactionScope implements the stock TransactionScope using
// GORM transactions. Position updates, movement ledger rows and drum
// usage history commit or roll back together.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormStockTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormStockTransactionalRepositories provides access to the stock repositories within a transaction.
type gormStockTransactionalRepositories struct {
	tx *gorm.DB
}

// PositionRepo returns the position repository scoped to the current transaction.
func (r *gormStockTransactionalRepositories) PositionRepo() stock.PositionRepository {
	return NewGormStockPositionRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction.
func (r *gormStockTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// DrumRepo returns the cable drum repository scoped to the current transaction.
func (r *gormStockTransactionalRepositories) DrumRepo() stock.CableDrumRepository {
	return NewGormCableDrumRepository(r.tx)
}

// Ensure GormStockTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormStockTransactionScope)(nil)

// Ensure gormStockTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormStockTransactionalRepositories)(nil)
