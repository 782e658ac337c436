package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/repo"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/pagination"
)

const createBatchSize = 100

// Repository is the storage surface used by sync and reconciliation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, rows []models.Transaction) error
	FindUnreconciled(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error)
	UpdateFlags(ctx context.Context, id uuid.UUID, flags Flags) error
	DeleteAll(ctx context.Context, accountID *uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter Filter, params pagination.Params) (*ListResult, error)
	ListPendingReview(ctx context.Context, accountID *uuid.UUID) ([]PendingReviewItem, error)
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

// CreateBatch assigns ids and inserts rows in chunks.
func (r *repository) CreateBatch(ctx context.Context, rows []models.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.DB(ctx).
		Omit("Account", "Reconciliation").
		CreateInBatches(rows, createBatchSize).Error
}

// FindUnreconciled returns the account's transactions with no reconciliation
// record, newest order first.
func (r *repository) FindUnreconciled(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := r.DB(ctx).
		Where("account_id = ?", accountID).
		Where("NOT EXISTS (SELECT 1 FROM reconciliations rc WHERE rc.transaction_id = transactions.id)").
		Order("order_date DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateFlags(ctx context.Context, id uuid.UUID, flags Flags) error {
	res := r.DB(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"auto_reconciled":        flags.AutoReconciled,
			"requires_manual_review": flags.RequiresManualReview,
			"review_reason":          flags.ReviewReason,
			"updated_at":             time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes transactions (and their reconciliation records) for one
// account, or for every account when accountID is nil.
func (r *repository) DeleteAll(ctx context.Context, accountID *uuid.UUID) (int64, error) {
	db := r.DB(ctx)

	recs := db.Where("1 = 1")
	txs := db.Where("1 = 1")
	if accountID != nil {
		recs = db.Where("transaction_id IN (?)", db.Model(&models.Transaction{}).Select("id").Where("account_id = ?", *accountID))
		txs = db.Where("account_id = ?", *accountID)
	}
	if err := recs.Delete(&models.Reconciliation{}).Error; err != nil {
		return 0, err
	}
	res := txs.Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// FindByID loads a transaction with its account, marketplace and
// reconciliation record. Returns gorm.ErrRecordNotFound when absent.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.DB(ctx).
		Preload("Account").
		Preload("Account.Marketplace").
		Preload("Reconciliation").
		Where("id = ?", id).
		First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *repository) List(ctx context.Context, filter Filter, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.DB(ctx).Model(&models.Transaction{}).Preload("Reconciliation")
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("order_date <= ?", *filter.To)
	}
	if cursor != nil {
		q = q.Where("order_date < ? OR (order_date = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.Transaction
	if err := q.
		Order("order_date DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items, next := pagination.Trim(rows, limit, orderCursor)
	return &ListResult{Items: items, NextCursor: next}, nil
}

func (r *repository) ListPendingReview(ctx context.Context, accountID *uuid.UUID) ([]PendingReviewItem, error) {
	q := r.DB(ctx).
		Table("transactions t").
		Select(`t.id, t.account_id, a.name AS account_name, m.id AS marketplace_id, m.name AS marketplace_name,
			t.external_order_id, t.product_name, t.status, t.net_amount, t.order_date, t.review_reason`).
		Joins("JOIN marketplace_accounts a ON a.id = t.account_id").
		Joins("JOIN marketplaces m ON m.id = a.marketplace_id").
		Where("t.requires_manual_review = ?", true)
	if accountID != nil {
		q = q.Where("t.account_id = ?", *accountID)
	}

	var out []PendingReviewItem
	if err := q.Order("t.order_date DESC").Order("t.id DESC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
