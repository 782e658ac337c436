package reconciliation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/repo"
	dbpkg "github.com/angelmondragon/marketrecon-backend/pkg/db"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
)

const uniqueTransactionIndex = "ux_reconciliations_transaction_id"

// Repository persists reconciliation records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *models.Reconciliation) error
	ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

// Create inserts rec. A second record for the same transaction yields a
// CodeConflict error.
func (r *repository) Create(ctx context.Context, rec *models.Reconciliation) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := r.DB(ctx).Create(rec).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, uniqueTransactionIndex) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction already reconciled")
		}
		return err
	}
	return nil
}

func (r *repository) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Reconciliation{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
