package fees

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/config"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
)

// DefaultSchedule applies when a marketplace has no schedule of its own.
func DefaultSchedule() Schedule {
	return Schedule{
		CommissionRate: decimal.RequireFromString("0.15"),
		FixedFee:       decimal.RequireFromString("2.50"),
		ProcessingRate: decimal.RequireFromString("0.03"),
	}
}

// Catalog holds the reference schedules the marketplaces migration seeds,
// keyed by display name. Runtime lookups go through the stored marketplace
// row and ScheduleFor.
var Catalog = map[string]Schedule{
	"Amazon":        mustSchedule("0.15", "2.50", "0.029"),
	"Mercado Livre": mustSchedule("0.16", "3.00", "0.035"),
	"Shopee":        mustSchedule("0.12", "1.50", "0.025"),
	"Magalu":        mustSchedule("0.14", "2.00", "0.030"),
	"B2W":           mustSchedule("0.13", "2.20", "0.028"),
}

func mustSchedule(commission, fixed, processing string) Schedule {
	return Schedule{
		CommissionRate: decimal.RequireFromString(commission),
		FixedFee:       decimal.RequireFromString(fixed),
		ProcessingRate: decimal.RequireFromString(processing),
	}
}

// Resolver picks the schedule to apply for a marketplace.
type Resolver struct {
	fallback Schedule
}

func NewResolver(fallback Schedule) *Resolver {
	if fallback.IsZero() {
		fallback = DefaultSchedule()
	}
	return &Resolver{fallback: fallback}
}

// NewResolverFromConfig builds a resolver whose fallback comes from configuration.
func NewResolverFromConfig(cfg config.ReconciliationConfig) *Resolver {
	return NewResolver(Schedule{
		CommissionRate: cfg.DefaultCommissionRate,
		FixedFee:       cfg.DefaultFixedFee,
		ProcessingRate: cfg.DefaultProcessingRate,
	})
}

// Default returns the fallback schedule.
func (r *Resolver) Default() Schedule {
	return r.fallback
}

// ScheduleFor returns the schedule stored on m, or the fallback when m is nil
// or carries no fees.
func (r *Resolver) ScheduleFor(m *models.Marketplace) Schedule {
	if m == nil {
		return r.fallback
	}
	s := Schedule{
		CommissionRate: m.CommissionRate,
		FixedFee:       m.FixedFee,
		ProcessingRate: m.ProcessingRate,
	}
	if s.IsZero() {
		return r.fallback
	}
	return s
}
