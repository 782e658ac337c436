package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/batchsync"
	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
)

const usage = `Usage: reconcile-cli <command> [arguments]
Commands:
  sync <accountId> [qty]
  sync-all [qty]
  reconcile <accountId>
  reconcile-all
  pending [accountId]
  purge [accountId]
  fees <gross> [marketplace]`

var errUsage = errors.New("invalid usage")

type marketplaceFinder interface {
	FindByName(ctx context.Context, name string) (*models.Marketplace, error)
}

type runner struct {
	sync         batchsync.Service
	reconcile    reconciliation.Service
	marketplaces marketplaceFinder
	fees         *fees.Resolver
	out          io.Writer

	ok   *color.Color
	bad  *color.Color
	warn *color.Color
	head *color.Color
}

func newRunner(sync batchsync.Service, reconcile reconciliation.Service, marketplaces marketplaceFinder, resolver *fees.Resolver, out io.Writer) *runner {
	return &runner{
		sync:         sync,
		reconcile:    reconcile,
		marketplaces: marketplaces,
		fees:         resolver,
		out:          out,
		ok:           color.New(color.FgGreen),
		bad:          color.New(color.FgRed),
		warn:         color.New(color.FgYellow),
		head:         color.New(color.Bold),
	}
}

// run dispatches one command. Only usage and infrastructure errors are
// returned; sync failures are printed as results.
func (r *runner) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "sync":
		if len(rest) < 1 {
			return errUsage
		}
		accountID, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("invalid account id %q: %w", rest[0], err)
		}
		qty, ok := quantityArg(rest[1:])
		if !ok {
			r.printSync(batchsync.InvalidQuantity())
			return nil
		}
		r.printSync(r.sync.SyncByAccount(ctx, accountID, qty))

	case "sync-all":
		qty, ok := quantityArg(rest)
		if !ok {
			r.printSync(batchsync.InvalidQuantity())
			return nil
		}
		r.printSync(r.sync.SyncAll(ctx, qty))

	case "reconcile":
		if len(rest) < 1 {
			return errUsage
		}
		accountID, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("invalid account id %q: %w", rest[0], err)
		}
		res, err := r.reconcile.ReconcileAccount(ctx, accountID)
		if err != nil {
			return err
		}
		r.printAccount(res)

	case "reconcile-all":
		res, err := r.reconcile.ReconcileAllAccounts(ctx)
		if err != nil {
			return err
		}
		r.printBatch(res)

	case "pending":
		accountID, err := optionalAccount(rest)
		if err != nil {
			return err
		}
		items, err := r.reconcile.ListPendingReview(ctx, accountID)
		if err != nil {
			return err
		}
		r.head.Fprintf(r.out, "%d transaction(s) pending review\n", len(items))
		for _, item := range items {
			reason := ""
			if item.ReviewReason != nil {
				reason = *item.ReviewReason
			}
			fmt.Fprintf(r.out, "  %s  %-12s %-16s %10s  %s\n",
				item.ID, item.ExternalOrderID, item.MarketplaceName, item.NetAmount.StringFixed(2), reason)
		}

	case "purge":
		accountID, err := optionalAccount(rest)
		if err != nil {
			return err
		}
		n, err := r.sync.PurgeTransactions(ctx, accountID)
		if err != nil {
			return err
		}
		r.warn.Fprintf(r.out, "deleted %d transaction(s)\n", n)

	case "fees":
		if len(rest) < 1 {
			return errUsage
		}
		gross, err := decimal.NewFromString(rest[0])
		if err != nil {
			return fmt.Errorf("invalid gross amount %q: %w", rest[0], err)
		}
		schedule := r.fees.Default()
		name := "default"
		if len(rest) > 1 {
			m, err := r.marketplaces.FindByName(ctx, rest[1])
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("marketplace %q not found", rest[1])
			}
			if err != nil {
				return fmt.Errorf("load marketplace %q: %w", rest[1], err)
			}
			name = m.Name
			schedule = r.fees.ScheduleFor(m)
		}
		r.printBreakdown(name, fees.Compute(gross, schedule))

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	return nil
}

// quantityArg returns 0 when absent so the service default applies.
func quantityArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, true
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func optionalAccount(args []string) (*uuid.UUID, error) {
	if len(args) == 0 {
		return nil, nil
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", args[0], err)
	}
	return &id, nil
}

func (r *runner) printSync(res batchsync.Result) {
	if !res.Success {
		r.bad.Fprintf(r.out, "sync failed: %s\n", res.Error)
		if res.Message != "" {
			fmt.Fprintln(r.out, res.Message)
		}
		return
	}
	r.ok.Fprintf(r.out, "%s\n", res.Message)
	fmt.Fprintf(r.out, "transactions created: %d\n", res.TransactionsCreated)
	if s := res.Statistics; s != nil {
		fmt.Fprintf(r.out, "approved %d  pending %d  cancelled %d\n", s.Approved, s.Pending, s.Cancelled)
		fmt.Fprintf(r.out, "gross %s  commission %s  fees %s  net %s\n",
			s.GrossTotal.StringFixed(2), s.CommissionTotal.StringFixed(2), s.FeesTotal.StringFixed(2), s.NetTotal.StringFixed(2))
	}
	for _, acc := range res.Accounts {
		if acc.Success {
			r.ok.Fprintf(r.out, "  %s  +%d\n", acc.AccountID, acc.TransactionsCreated)
			continue
		}
		r.bad.Fprintf(r.out, "  %s  %s\n", acc.AccountID, acc.Error)
	}
}

func (r *runner) printAccount(res *reconciliation.AccountResult) {
	r.head.Fprintf(r.out, "account %s\n", res.AccountID)
	r.ok.Fprintf(r.out, "reconciled: %d\n", res.Reconciled)
	r.warn.Fprintf(r.out, "needs review: %d\n", res.NeedsReview)
	if res.AlreadyInReview > 0 {
		fmt.Fprintf(r.out, "already in review: %d\n", res.AlreadyInReview)
	}
	for _, d := range res.Details {
		line := fmt.Sprintf("  %s  %-14s %s", d.ExternalOrderID, d.Status, d.Reason)
		if d.Error != "" {
			r.bad.Fprintln(r.out, line+" "+d.Error)
			continue
		}
		fmt.Fprintln(r.out, line)
	}
}

func (r *runner) printBatch(res *reconciliation.BatchResult) {
	r.head.Fprintf(r.out, "%d account(s) processed, %d failed\n", res.AccountsProcessed, res.AccountsFailed)
	r.ok.Fprintf(r.out, "reconciled: %d\n", res.Reconciled)
	r.warn.Fprintf(r.out, "needs review: %d\n", res.NeedsReview)
	if res.AlreadyInReview > 0 {
		fmt.Fprintf(r.out, "already in review: %d\n", res.AlreadyInReview)
	}
	for _, acc := range res.Accounts {
		if acc.Error != "" {
			r.bad.Fprintf(r.out, "  %s  %s\n", acc.AccountName, acc.Error)
			continue
		}
		fmt.Fprintf(r.out, "  %s  reconciled=%d review=%d\n", acc.AccountName, acc.Reconciled, acc.NeedsReview)
	}
}

func (r *runner) printBreakdown(name string, b fees.Breakdown) {
	r.head.Fprintf(r.out, "fees (%s)\n", name)
	fmt.Fprintf(r.out, "gross:      %s\n", b.GrossAmount.StringFixed(2))
	fmt.Fprintf(r.out, "commission: %s\n", b.Commission.StringFixed(2))
	fmt.Fprintf(r.out, "fixed fee:  %s\n", b.FixedFee.StringFixed(2))
	fmt.Fprintf(r.out, "processing: %s\n", b.ProcessingFee.StringFixed(2))
	r.ok.Fprintf(r.out, "net:        %s\n", b.NetAmount.StringFixed(2))
}
