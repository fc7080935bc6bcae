// Package dashboard computes time-windowed financial summaries from the raw
// transaction ledger: period totals, category breakdowns, prior-period
// comparison and the trailing month-by-month trend series.
//
// The engine is stateless and idempotent. Every call is a pure function of
// the explicit user identity, the requested window and the store contents at
// call time; nothing is cached and nothing is mutated.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

// DefaultTrendMonths is the trend series length when the caller does not
// override it.
const DefaultTrendMonths = 6

// recentLimit bounds the recent-activity projection in the summary payload.
const recentLimit = 5

// ErrInvalidMonths reports a non-positive trend series length.
var ErrInvalidMonths = errors.New("months must be a positive integer")

// TransactionReader is the read-only slice of the datastore the engine
// consumes. Every fetch is scoped by the owning user.
type TransactionReader interface {
	// FindTransactions returns the user's transactions matching the filter,
	// ordered by date descending, each with its category attached.
	FindTransactions(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error)

	// FindRecentTransactions returns the user's most recently dated
	// transactions with categories attached, newest first.
	FindRecentTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error)
}

type Service struct {
	store TransactionReader
	now   func() time.Time
}

func NewService(store TransactionReader) *Service {
	return &Service{store: store, now: time.Now}
}

// Summary computes the full dashboard payload for one user and window.
// startStr and endStr are optional ISO-8601 dates; both default to the
// current calendar month.
func (s *Service) Summary(ctx context.Context, userID, startStr, endStr string) (*core.DashboardSummary, error) {
	window, err := resolveWindow(s.now(), startStr, endStr)
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.FindTransactions(ctx, userID, core.TransactionFilter{
		From: window.Start,
		To:   window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	income, expenses := sumByKind(transactions)
	summary := core.Summary{
		Income:           income,
		Expenses:         expenses,
		Balance:          core.Money{Cents: income.Cents - expenses.Cents},
		TransactionCount: len(transactions),
	}

	prev := window.previous()
	prevExpenseTxs, err := s.store.FindTransactions(ctx, userID, core.TransactionFilter{
		From: prev.Start,
		To:   prev.End,
		Kind: core.Expense,
	})
	if err != nil {
		return nil, fmt.Errorf("find prior-period transactions: %w", err)
	}
	_, prevExpenses := sumByKind(prevExpenseTxs)
	summary.ExpenseChangePercent = expenseChange(expenses, prevExpenses)

	recent, err := s.store.FindRecentTransactions(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("find recent transactions: %w", err)
	}

	slog.DebugContext(ctx, "Dashboard summary computed",
		"user_id", userID,
		"transactions", len(transactions),
		"income_cents", income.Cents,
		"expense_cents", expenses.Cents)

	return &core.DashboardSummary{
		Summary:            summary,
		CategoryBreakdown:  breakdownByCategory(transactions),
		RecentTransactions: recent,
		DateRange:          core.DateRange{Start: window.Start, End: window.End},
	}, nil
}

// SpendingTrend produces exactly `months` trend points, one per calendar
// month, chronologically ascending and ending with the current month. Months
// with no transactions still appear as zero-valued points.
//
// The per-month fetches are independent, so they fan out concurrently; the
// series is assembled only after every fetch has succeeded, and any failure
// fails the whole request.
func (s *Service) SpendingTrend(ctx context.Context, userID string, months int) ([]core.TrendPoint, error) {
	if months < 1 {
		return nil, ErrInvalidMonths
	}

	now := s.now()
	points := make([]core.TrendPoint, months)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < months; i++ {
		g.Go(func() error {
			window := monthWindow(now, months-1-i)
			transactions, err := s.store.FindTransactions(gctx, userID, core.TransactionFilter{
				From: window.Start,
				To:   window.End,
			})
			if err != nil {
				return fmt.Errorf("find transactions for %s: %w",
					window.Start.Format("2006-01"), err)
			}
			income, expenses := sumByKind(transactions)
			points[i] = core.TrendPoint{
				Month:    window.Start.Format("Jan 2006"),
				Income:   income,
				Expenses: expenses,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}

// sumByKind totals the income and expense amounts of a transaction set.
func sumByKind(transactions []core.Transaction) (income, expenses core.Money) {
	for _, tx := range transactions {
		switch tx.Kind {
		case core.Income:
			income.Cents += tx.Amount.Cents
		case core.Expense:
			expenses.Cents += tx.Amount.Cents
		}
	}
	return income, expenses
}

// breakdownByCategory groups expense transactions by category and sorts the
// result descending by amount. The accumulator is keyed by category ID, not
// name, so two categories sharing a display name stay separate rows; ties on
// amount break by name ascending to keep output deterministic.
func breakdownByCategory(transactions []core.Transaction) []core.CategoryBreakdown {
	groups := make(map[string]*core.CategoryBreakdown)
	for _, tx := range transactions {
		if tx.Kind != core.Expense || tx.Category == nil {
			continue
		}
		row, ok := groups[tx.CategoryID]
		if !ok {
			row = &core.CategoryBreakdown{
				CategoryID: tx.CategoryID,
				Name:       tx.Category.Name,
				Color:      tx.Category.Color,
			}
			groups[tx.CategoryID] = row
		}
		row.Amount.Cents += tx.Amount.Cents
		row.Count++
	}

	breakdown := make([]core.CategoryBreakdown, 0, len(groups))
	for _, row := range groups {
		breakdown = append(breakdown, *row)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount.Cents != breakdown[j].Amount.Cents {
			return breakdown[i].Amount.Cents > breakdown[j].Amount.Cents
		}
		return breakdown[i].Name < breakdown[j].Name
	})
	return breakdown
}

// expenseChange is the percentage change against the prior period, rounded
// to one decimal place. A zero prior period yields 0 rather than a division
// by zero; that floor is deliberate, not an error.
func expenseChange(current, previous core.Money) float64 {
	if previous.Cents == 0 {
		return 0
	}
	change := float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
	return math.Round(change*10) / 10
}
