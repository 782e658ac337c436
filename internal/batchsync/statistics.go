package batchsync

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// Statistics aggregates a set of synced transactions. FeesTotal is fixed plus
// processing fees; commission is reported separately.
type Statistics struct {
	Total           int             `json:"total"`
	Approved        int             `json:"approved"`
	Pending         int             `json:"pending"`
	Cancelled       int             `json:"cancelled"`
	GrossTotal      decimal.Decimal `json:"grossTotal"`
	NetTotal        decimal.Decimal `json:"netTotal"`
	CommissionTotal decimal.Decimal `json:"commissionTotal"`
	FeesTotal       decimal.Decimal `json:"feesTotal"`
}

// ComputeStatistics sums rows and rounds the money totals to cents.
func ComputeStatistics(rows []models.Transaction) Statistics {
	stats := Statistics{Total: len(rows)}
	for _, tx := range rows {
		switch tx.Status {
		case enums.TransactionStatusApproved:
			stats.Approved++
		case enums.TransactionStatusPending:
			stats.Pending++
		case enums.TransactionStatusCancelled:
			stats.Cancelled++
		}
		stats.GrossTotal = stats.GrossTotal.Add(tx.GrossAmount)
		stats.NetTotal = stats.NetTotal.Add(tx.NetAmount)
		stats.CommissionTotal = stats.CommissionTotal.Add(tx.CommissionAmount)
		stats.FeesTotal = stats.FeesTotal.Add(tx.FixedFee).Add(tx.ProcessingFee)
	}
	stats.GrossTotal = stats.GrossTotal.Round(2)
	stats.NetTotal = stats.NetTotal.Round(2)
	stats.CommissionTotal = stats.CommissionTotal.Round(2)
	stats.FeesTotal = stats.FeesTotal.Round(2)
	return stats
}
