package fees

import (
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// Schedule is the set of fees a marketplace charges on a sale.
type Schedule struct {
	CommissionRate decimal.Decimal `json:"commissionRate"`
	FixedFee       decimal.Decimal `json:"fixedFee"`
	ProcessingRate decimal.Decimal `json:"processingRate"`
}

// IsZero reports whether no fee component is set.
func (s Schedule) IsZero() bool {
	return s.CommissionRate.IsZero() && s.FixedFee.IsZero() && s.ProcessingRate.IsZero()
}

// Breakdown is the derived financial view of one sale.
type Breakdown struct {
	GrossAmount   decimal.Decimal `json:"grossAmount"`
	Commission    decimal.Decimal `json:"commission"`
	FixedFee      decimal.Decimal `json:"fixedFee"`
	ProcessingFee decimal.Decimal `json:"processingFee"`
	NetAmount     decimal.Decimal `json:"netAmount"`
}

// TotalFees is fixed plus processing fee, commission excluded.
func (b Breakdown) TotalFees() decimal.Decimal {
	return b.FixedFee.Add(b.ProcessingFee)
}

// Compute derives the fee breakdown for gross under s. Net is computed from
// the unrounded components; each output field is then rounded to cents
// independently (half away from zero). A negative net is valid output.
func Compute(gross decimal.Decimal, s Schedule) Breakdown {
	commission := gross.Mul(s.CommissionRate)
	processing := gross.Mul(s.ProcessingRate)
	net := gross.Sub(commission).Sub(s.FixedFee).Sub(processing)

	return Breakdown{
		GrossAmount:   gross.Round(amountPlaces),
		Commission:    commission.Round(amountPlaces),
		FixedFee:      s.FixedFee.Round(amountPlaces),
		ProcessingFee: processing.Round(amountPlaces),
		NetAmount:     net.Round(amountPlaces),
	}
}
