package generator

import (
	"context"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

var (
	skuPattern   = regexp.MustCompile(`^SKU-\d{6}$`)
	orderPattern = regexp.MustCompile(`^MLB-\d{10}$`)
)

func TestSyntheticGenerateShape(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	gen := NewSynthetic(rand.New(rand.NewPCG(42, 42)), func() time.Time { return now })
	accountID := uuid.New()

	txs, err := gen.Generate(context.Background(), Params{
		AccountID:       accountID,
		MarketplaceName: "Mercado Livre",
		Schedule:        fees.Catalog["Mercado Livre"],
		Count:           500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 500 {
		t.Fatalf("expected 500 transactions, got %d", len(txs))
	}

	prices := map[string]decimal.Decimal{}
	for _, p := range Products {
		prices[p.Name] = p.UnitPrice
	}
	earliest := now.AddDate(0, 0, -DefaultLookbackDays)

	for i, tx := range txs {
		if tx.AccountID != accountID {
			t.Fatalf("tx %d: wrong account", i)
		}
		if tx.Quantity < 1 || tx.Quantity > 3 {
			t.Fatalf("tx %d: quantity out of range: %d", i, tx.Quantity)
		}
		price, ok := prices[tx.ProductName]
		if !ok {
			t.Fatalf("tx %d: unknown product %q", i, tx.ProductName)
		}
		if !tx.GrossAmount.Equal(price.Mul(decimal.NewFromInt(int64(tx.Quantity)))) {
			t.Fatalf("tx %d: gross %s does not match price x qty", i, tx.GrossAmount)
		}
		want := fees.Compute(tx.GrossAmount, fees.Catalog["Mercado Livre"])
		if !tx.NetAmount.Equal(want.NetAmount) || !tx.CommissionAmount.Equal(want.Commission) {
			t.Fatalf("tx %d: fee breakdown mismatch", i)
		}
		if !skuPattern.MatchString(tx.SKU) {
			t.Fatalf("tx %d: bad sku %q", i, tx.SKU)
		}
		if !orderPattern.MatchString(tx.ExternalOrderID) {
			t.Fatalf("tx %d: bad order id %q", i, tx.ExternalOrderID)
		}
		if tx.OrderDate.Before(earliest) || tx.OrderDate.After(now.Add(24*time.Hour)) {
			t.Fatalf("tx %d: order date %s outside lookback", i, tx.OrderDate)
		}
		if tx.OrderDate.Second() != 0 {
			t.Fatalf("tx %d: expected whole minutes", i)
		}

		switch tx.Status {
		case enums.TransactionStatusApproved:
			if tx.ApprovalDate == nil || !tx.ApprovalDate.Equal(tx.OrderDate.Add(time.Hour)) {
				t.Fatalf("tx %d: approved without approval date at +1h", i)
			}
			if tx.PayoutDate != nil && !tx.PayoutDate.Equal(tx.OrderDate.Add(7*24*time.Hour)) {
				t.Fatalf("tx %d: payout date must be +7d", i)
			}
		default:
			if tx.ApprovalDate != nil || tx.PayoutDate != nil {
				t.Fatalf("tx %d: %s must not carry approval or payout dates", i, tx.Status)
			}
		}
		if tx.AutoReconciled || tx.RequiresManualReview {
			t.Fatalf("tx %d: generated transactions start unreconciled", i)
		}
	}
}

func TestSyntheticStatusDistribution(t *testing.T) {
	gen := NewSynthetic(rand.New(rand.NewPCG(7, 7)), nil)
	txs, err := gen.Generate(context.Background(), Params{
		AccountID: uuid.New(),
		Schedule:  fees.DefaultSchedule(),
		Count:     10000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := map[enums.TransactionStatus]int{}
	withPayout := 0
	for _, tx := range txs {
		counts[tx.Status]++
		if tx.PayoutDate != nil {
			withPayout++
		}
	}

	approved := float64(counts[enums.TransactionStatusApproved]) / float64(len(txs))
	if approved < 0.88 || approved > 0.92 {
		t.Fatalf("approved share %.3f outside expected band", approved)
	}
	for _, s := range []enums.TransactionStatus{enums.TransactionStatusPending, enums.TransactionStatusCancelled, enums.TransactionStatusRefunded} {
		if counts[s] == 0 {
			t.Fatalf("expected some %s transactions", s)
		}
	}
	payoutShare := float64(withPayout) / float64(counts[enums.TransactionStatusApproved])
	if payoutShare < 0.66 || payoutShare > 0.74 {
		t.Fatalf("payout share %.3f outside expected band", payoutShare)
	}
}

func TestSyntheticGenerateValidation(t *testing.T) {
	gen := NewSynthetic(nil, nil)
	if _, err := gen.Generate(context.Background(), Params{Count: 1}); err == nil {
		t.Fatal("expected missing account to fail")
	}
	if _, err := gen.Generate(context.Background(), Params{AccountID: uuid.New()}); err == nil {
		t.Fatal("expected zero count to fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, Params{AccountID: uuid.New(), Count: 3}); err == nil {
		t.Fatal("expected canceled context to fail")
	}
}

func TestOrderPrefix(t *testing.T) {
	cases := map[string]string{
		"Amazon":        "AMZ",
		"Mercado Livre": "MLB",
		"Shopee":        "SHP",
		"Magalu":        "MAG",
		"B2W":           "B2W",
		"Americanas":    "MKT",
	}
	for name, want := range cases {
		if got := OrderPrefix(name); got != want {
			t.Fatalf("OrderPrefix(%q) = %q, want %q", name, got, want)
		}
	}
}
