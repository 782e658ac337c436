package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/repo"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// Repository manages persistence for marketplace seller accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.MarketplaceAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceAccount, error)
	ListActive(ctx context.Context) ([]models.MarketplaceAccount, error)
	ListSyncable(ctx context.Context) ([]models.MarketplaceAccount, error)
	ListActiveByMarketplace(ctx context.Context, marketplaceID uuid.UUID) ([]models.MarketplaceAccount, error)
	ListWithCounts(ctx context.Context) ([]AccountSummary, error)
	TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
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

func (r *repository) Create(ctx context.Context, account *models.MarketplaceAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return r.DB(ctx).Omit("Marketplace").Create(account).Error
}

// FindByID loads the account with its marketplace. Returns gorm.ErrRecordNotFound when absent.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceAccount, error) {
	var account models.MarketplaceAccount
	if err := r.DB(ctx).
		Preload("Marketplace").
		Where("id = ?", id).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ListActive returns every ACTIVE account regardless of its marketplace state.
func (r *repository) ListActive(ctx context.Context) ([]models.MarketplaceAccount, error) {
	var out []models.MarketplaceAccount
	if err := r.DB(ctx).
		Preload("Marketplace").
		Where("status = ?", enums.AccountStatusActive).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListSyncable returns every ACTIVE account whose marketplace is also active.
func (r *repository) ListSyncable(ctx context.Context) ([]models.MarketplaceAccount, error) {
	var out []models.MarketplaceAccount
	if err := r.DB(ctx).
		Preload("Marketplace").
		Joins("JOIN marketplaces m ON m.id = marketplace_accounts.marketplace_id").
		Where("marketplace_accounts.status = ? AND m.active = ?", enums.AccountStatusActive, true).
		Order("marketplace_accounts.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListActiveByMarketplace(ctx context.Context, marketplaceID uuid.UUID) ([]models.MarketplaceAccount, error) {
	var out []models.MarketplaceAccount
	if err := r.DB(ctx).
		Preload("Marketplace").
		Where("marketplace_id = ? AND status = ?", marketplaceID, enums.AccountStatusActive).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithCounts returns all accounts, newest first, with their marketplace
// name and transaction count.
func (r *repository) ListWithCounts(ctx context.Context) ([]AccountSummary, error) {
	var rows []AccountSummary
	if err := r.DB(ctx).
		Table("marketplace_accounts a").
		Select(`a.id, a.marketplace_id, m.name AS marketplace_name, a.seller_id, a.name, a.status,
			a.last_sync_at, a.created_at,
			(SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id) AS transaction_count`).
		Joins("JOIN marketplaces m ON m.id = a.marketplace_id").
		Order("a.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.MarketplaceAccount{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
}
