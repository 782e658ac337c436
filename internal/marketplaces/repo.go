package marketplaces

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/repo"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
)

// Repository manages persistence for marketplaces.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Marketplace, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Marketplace, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Marketplace, error)
	FindByName(ctx context.Context, name string) (*models.Marketplace, error)
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

// ListActive returns active marketplaces ordered by name.
func (r *repository) ListActive(ctx context.Context) ([]models.Marketplace, error) {
	var out []models.Marketplace
	if err := r.DB(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns gorm.ErrRecordNotFound when the marketplace does not exist.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Marketplace, error) {
	var m models.Marketplace
	if err := r.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Marketplace, error) {
	out := make(map[uuid.UUID]models.Marketplace, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Marketplace
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = m
	}
	return out, nil
}

// FindByName matches the display name case-insensitively, or the slug.
// Returns gorm.ErrRecordNotFound when nothing matches.
func (r *repository) FindByName(ctx context.Context, name string) (*models.Marketplace, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	var m models.Marketplace
	if err := r.DB(ctx).
		Where("LOWER(name) = ? OR slug = ?", needle, needle).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
