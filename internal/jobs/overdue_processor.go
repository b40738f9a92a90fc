package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"AqsatiSaaS/internal/config"
	"AqsatiSaaS/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// OverdueConfig holds configuration for the overdue recompute job
type OverdueConfig struct {
	Schedule string
	TimeZone string
}

// NewDefaultOverdueConfig creates an OverdueConfig with default values
func NewDefaultOverdueConfig() *OverdueConfig {
	return &OverdueConfig{
		Schedule: config.DefaultOverdueSchedule,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunOverdueScheduler starts the cron job that recomputes overdue installments
// on every active transaction.
func RunOverdueScheduler(cfg *OverdueConfig, db *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultOverdueSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		updated, err := ProcessOverdueTransactions(context.Background(), db, time.Now().In(loc))
		if err != nil {
			log.Printf("Overdue check failed: %v", err)
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Overdue check failed: %v", err))
			}
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Overdue status checked, %d transactions updated", updated))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid overdue schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()

	log.Printf("Overdue scheduler started with schedule %q (%s)", cfg.Schedule, cfg.TimeZone)
	return nil
}

// ComputeOverdue derives the overdue installment count and amount for a single
// transaction as of now. Installments fall due monthly starting at startDate;
// the installment covering the current month counts as due.
func ComputeOverdue(amount, remaining, installment decimal.Decimal, startDate, now time.Time) (int, decimal.Decimal) {
	if remaining.Sign() <= 0 || installment.Sign() <= 0 {
		return 0, decimal.Zero
	}

	totalPaid := amount.Sub(remaining)
	paidInstallments := totalPaid.Div(installment).IntPart()

	monthsPassed := (now.Year()-startDate.Year())*12 - int(startDate.Month()) + int(now.Month())
	expected := int64(0)
	if monthsPassed >= 0 {
		expected = int64(monthsPassed) + 1
	}

	overdue := expected - paidInstallments
	if overdue < 0 {
		overdue = 0
	}
	return int(overdue), installment.Mul(decimal.NewFromInt(overdue))
}

// ProcessOverdueTransactions recomputes overdue figures for every open
// transaction and persists the ones that changed. Returns the update count.
func ProcessOverdueTransactions(ctx context.Context, db *pgxpool.Pool, now time.Time) (int, error) {
	rows, err := db.Query(ctx, `
		SELECT id, amount::text, remaining_balance::text, installment_amount::text,
		       start_date, overdue_installments, overdue_amount::text
		FROM transactions
		WHERE remaining_balance > 0 AND has_legal_case = false`)
	if err != nil {
		return 0, fmt.Errorf("failed to load open transactions: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id           string
		installments int
		amount       decimal.Decimal
	}
	var updates []pending

	for rows.Next() {
		var (
			id, amountStr, remainingStr, installmentStr, overdueAmtStr string
			startDate                                                  time.Time
			currentInstallments                                        int
		)
		if err := rows.Scan(&id, &amountStr, &remainingStr, &installmentStr, &startDate, &currentInstallments, &overdueAmtStr); err != nil {
			return 0, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			continue
		}
		remaining, err := decimal.NewFromString(remainingStr)
		if err != nil {
			continue
		}
		installment, err := decimal.NewFromString(installmentStr)
		if err != nil {
			continue
		}
		currentAmount, err := decimal.NewFromString(overdueAmtStr)
		if err != nil {
			currentAmount = decimal.Zero
		}

		overdueCount, overdueAmount := ComputeOverdue(amount, remaining, installment, startDate, now)
		if overdueCount != currentInstallments || !overdueAmount.Equal(currentAmount) {
			updates = append(updates, pending{id: id, installments: overdueCount, amount: overdueAmount})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read transactions: %w", err)
	}

	for _, u := range updates {
		_, err := db.Exec(ctx, `
			UPDATE transactions
			SET overdue_installments = $2, overdue_amount = $3::numeric, updated_at = NOW()
			WHERE id = $1`, u.id, u.installments, u.amount.String())
		if err != nil {
			return 0, fmt.Errorf("failed to update transaction %s: %w", u.id, err)
		}
	}
	return len(updates), nil
}
