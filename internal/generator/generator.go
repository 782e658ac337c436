package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

const (
	DefaultLookbackDays = 30
	maxQuantityPerOrder = 3
	payoutProbability   = 0.7
	approvalDelay       = time.Hour
	payoutDelay         = 7 * 24 * time.Hour
)

// Params describes one generation request for a single account.
type Params struct {
	AccountID       uuid.UUID
	MarketplaceName string
	Schedule        fees.Schedule
	Count           int
	LookbackDays    int
}

// Generator produces transactions ready for persistence. The synthetic
// implementation stands in for a real marketplace ingestion adapter.
type Generator interface {
	Generate(ctx context.Context, params Params) ([]models.Transaction, error)
}

type Product struct {
	Name      string
	Category  string
	UnitPrice decimal.Decimal
}

// Products is the catalog synthetic sales are drawn from.
var Products = []Product{
	{Name: "Notebook Dell", Category: "Eletrônicos", UnitPrice: decimal.NewFromInt(3500)},
	{Name: "Mouse Gamer", Category: "Periféricos", UnitPrice: decimal.NewFromInt(150)},
	{Name: "Teclado Mecânico", Category: "Periféricos", UnitPrice: decimal.NewFromInt(450)},
	{Name: "Monitor 27\"", Category: "Eletrônicos", UnitPrice: decimal.NewFromInt(1200)},
	{Name: "Headset Bluetooth", Category: "Áudio", UnitPrice: decimal.NewFromInt(280)},
	{Name: "Webcam Full HD", Category: "Eletrônicos", UnitPrice: decimal.NewFromInt(350)},
	{Name: "SSD 1TB", Category: "Armazenamento", UnitPrice: decimal.NewFromInt(600)},
	{Name: "Memória RAM 16GB", Category: "Hardware", UnitPrice: decimal.NewFromInt(400)},
	{Name: "Placa de Vídeo", Category: "Hardware", UnitPrice: decimal.NewFromInt(2500)},
	{Name: "Cadeira Gamer", Category: "Móveis", UnitPrice: decimal.NewFromInt(1100)},
}

var orderPrefixes = map[string]string{
	"Amazon":        "AMZ",
	"Mercado Livre": "MLB",
	"Shopee":        "SHP",
	"Magalu":        "MAG",
	"B2W":           "B2W",
}

// OrderPrefix returns the external order id prefix used by a marketplace.
func OrderPrefix(marketplaceName string) string {
	if prefix, ok := orderPrefixes[marketplaceName]; ok {
		return prefix
	}
	return "MKT"
}

// statusWeights is the cumulative status distribution: 90/5/3/2.
var statusWeights = []struct {
	upTo   float64
	status enums.TransactionStatus
}{
	{0.90, enums.TransactionStatusApproved},
	{0.95, enums.TransactionStatusPending},
	{0.98, enums.TransactionStatusCancelled},
	{1.00, enums.TransactionStatusRefunded},
}

// Synthetic generates randomized sales. Safe for concurrent use.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic returns a generator. A nil rng gets a random seed and a
// nil now defaults to the current UTC time.
func NewSynthetic(rng *rand.Rand, now func() time.Time) *Synthetic {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Synthetic{rng: rng, now: now}
}

func (g *Synthetic) Generate(ctx context.Context, params Params) ([]models.Transaction, error) {
	if params.AccountID == uuid.Nil {
		return nil, fmt.Errorf("account id is required")
	}
	if params.Count < 1 {
		return nil, fmt.Errorf("count must be positive")
	}
	lookback := params.LookbackDays
	if lookback < 1 {
		lookback = DefaultLookbackDays
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Transaction, 0, params.Count)
	for i := 0; i < params.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, g.one(params, lookback))
	}
	return out, nil
}

func (g *Synthetic) one(params Params, lookback int) models.Transaction {
	product := Products[g.rng.IntN(len(Products))]
	quantity := g.rng.IntN(maxQuantityPerOrder) + 1
	gross := product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	breakdown := fees.Compute(gross, params.Schedule)

	status := g.status()
	orderDate := g.orderDate(lookback)

	tx := models.Transaction{
		AccountID:        params.AccountID,
		ExternalOrderID:  fmt.Sprintf("%s-%d", OrderPrefix(params.MarketplaceName), 1_000_000_000+g.rng.Int64N(9_000_000_000)),
		SKU:              fmt.Sprintf("SKU-%d", 100_000+g.rng.IntN(900_000)),
		ProductName:      product.Name,
		Quantity:         quantity,
		GrossAmount:      breakdown.GrossAmount,
		CommissionAmount: breakdown.Commission,
		FixedFee:         breakdown.FixedFee,
		ProcessingFee:    breakdown.ProcessingFee,
		NetAmount:        breakdown.NetAmount,
		Status:           status,
		OrderDate:        orderDate,
	}

	if status == enums.TransactionStatusApproved {
		approval := orderDate.Add(approvalDelay)
		tx.ApprovalDate = &approval
		if g.rng.Float64() < payoutProbability {
			payout := orderDate.Add(payoutDelay)
			tx.PayoutDate = &payout
		}
	}
	return tx
}

func (g *Synthetic) status() enums.TransactionStatus {
	roll := g.rng.Float64()
	for _, w := range statusWeights {
		if roll < w.upTo {
			return w.status
		}
	}
	return enums.TransactionStatusRefunded
}

// orderDate picks a whole day in [0, lookback) before now, then a random
// hour and minute on that day.
func (g *Synthetic) orderDate(lookback int) time.Time {
	now := g.now()
	day := now.AddDate(0, 0, -g.rng.IntN(lookback))
	return time.Date(day.Year(), day.Month(), day.Day(), g.rng.IntN(24), g.rng.IntN(60), 0, 0, day.Location())
}
