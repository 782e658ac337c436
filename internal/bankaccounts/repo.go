package bankaccounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/repo"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
)

// Repository reads settlement-side bank accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindFirstActive(ctx context.Context) (*models.BankAccount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BankAccount, error)
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

// FindFirstActive returns the oldest active bank account, or nil when none exists.
func (r *repository) FindFirstActive(ctx context.Context) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.DB(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID returns gorm.ErrRecordNotFound when the account does not exist.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := r.DB(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
