package marketplaces

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
)

// Service exposes read access to marketplaces and their fee schedules.
type Service interface {
	ListActive(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id uuid.UUID) (*Summary, error)
}

// Summary is the API view of a marketplace.
type Summary struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Slug   string        `json:"slug"`
	Active bool          `json:"active"`
	Fees   fees.Schedule `json:"fees"`
}

type service struct {
	repo   Repository
	lookup *fees.Resolver
}

func NewService(repo Repository, lookup *fees.Resolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("marketplaces repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("fee resolver required")
	}
	return &service{repo: repo, lookup: lookup}, nil
}

func (s *service) ListActive(ctx context.Context) ([]Summary, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list marketplaces")
	}
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		out = append(out, Summary{
			ID:     rows[i].ID,
			Name:   rows[i].Name,
			Slug:   rows[i].Slug,
			Active: rows[i].Active,
			Fees:   s.lookup.ScheduleFor(&rows[i]),
		})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Summary, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketplace not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketplace")
	}
	return &Summary{ID: m.ID, Name: m.Name, Slug: m.Slug, Active: m.Active, Fees: s.lookup.ScheduleFor(m)}, nil
}
