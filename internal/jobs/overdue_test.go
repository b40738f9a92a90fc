package jobs_test

import (
	"testing"
	"time"

	"AqsatiSaaS/internal/jobs"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeOverdueNoPayments(t *testing.T) {
	t.Parallel()

	// Started four months ago, five installments due (start month counts),
	// nothing paid.
	count, amount := jobs.ComputeOverdue(d("1200"), d("1200"), d("100"),
		date(2026, time.May, 1), date(2026, time.September, 1))
	if count != 5 {
		t.Fatalf("expected 5 overdue installments, got %d", count)
	}
	if !amount.Equal(d("500")) {
		t.Fatalf("expected overdue amount 500, got %s", amount)
	}
}

func TestComputeOverdueOnTrack(t *testing.T) {
	t.Parallel()

	// Five installments due, five paid.
	count, amount := jobs.ComputeOverdue(d("1200"), d("700"), d("100"),
		date(2026, time.May, 1), date(2026, time.September, 1))
	if count != 0 || !amount.IsZero() {
		t.Fatalf("on-track transaction should report nothing overdue, got %d / %s", count, amount)
	}
}

func TestComputeOverduePartiallyBehind(t *testing.T) {
	t.Parallel()

	// Five due, three paid.
	count, amount := jobs.ComputeOverdue(d("1200"), d("900"), d("100"),
		date(2026, time.May, 1), date(2026, time.September, 1))
	if count != 2 {
		t.Fatalf("expected 2 overdue, got %d", count)
	}
	if !amount.Equal(d("200")) {
		t.Fatalf("expected 200, got %s", amount)
	}
}

func TestComputeOverdueYearBoundary(t *testing.T) {
	t.Parallel()

	// November start, checked in February: Nov, Dec, Jan, Feb due.
	count, _ := jobs.ComputeOverdue(d("1200"), d("1200"), d("100"),
		date(2025, time.November, 15), date(2026, time.February, 10))
	if count != 4 {
		t.Fatalf("expected 4 overdue across the year boundary, got %d", count)
	}
}

func TestComputeOverdueFutureStart(t *testing.T) {
	t.Parallel()

	count, amount := jobs.ComputeOverdue(d("1200"), d("1200"), d("100"),
		date(2026, time.December, 1), date(2026, time.September, 1))
	if count != 0 || !amount.IsZero() {
		t.Fatalf("future transaction should have nothing overdue, got %d / %s", count, amount)
	}
}

func TestComputeOverdueSettledOrInvalid(t *testing.T) {
	t.Parallel()

	if count, _ := jobs.ComputeOverdue(d("1200"), d("0"), d("100"),
		date(2026, time.January, 1), date(2026, time.September, 1)); count != 0 {
		t.Fatalf("settled transaction should report 0, got %d", count)
	}
	if count, _ := jobs.ComputeOverdue(d("1200"), d("1200"), d("0"),
		date(2026, time.January, 1), date(2026, time.September, 1)); count != 0 {
		t.Fatalf("zero installment amount should report 0, got %d", count)
	}
}
