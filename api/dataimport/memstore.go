package dataimport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory Store. It replaces the browser-storage fallback
// the legacy console shipped with and backs the package tests; the pipeline
// itself cannot tell it apart from PgStore.
type MemStore struct {
	mu        sync.Mutex
	pairs     map[string][]SequencePair
	columns   map[string][]string
	inserted  map[string][]map[string]interface{}
	remaining map[string]decimal.Decimal
	payments  []PaymentRecord
	purges    []PurgeCall
}

// PurgeCall records one Purge invocation for inspection.
type PurgeCall struct {
	Table     string
	OlderThan *time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		pairs:     make(map[string][]SequencePair),
		columns:   make(map[string][]string),
		inserted:  make(map[string][]map[string]interface{}),
		remaining: make(map[string]decimal.Decimal),
	}
}

// SeedPairs registers (id, sequence_number) pairs for a table.
func (m *MemStore) SeedPairs(table string, pairs ...SequencePair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[table] = append(m.pairs[table], pairs...)
}

// SeedColumns registers the column list reported by TableColumns.
func (m *MemStore) SeedColumns(table string, cols ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.columns[table] = cols
}

// SeedTransactionBalance registers a transaction's remaining balance so
// RecordPayment can enforce it the way the server procedure does.
func (m *MemStore) SeedTransactionBalance(transactionID string, remaining decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining[transactionID] = remaining
}

func (m *MemStore) SequencePairs(_ context.Context, table string) ([]SequencePair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SequencePair, len(m.pairs[table]))
	copy(out, m.pairs[table])
	return out, nil
}

func (m *MemStore) BulkInsert(_ context.Context, table string, rows []map[string]interface{}) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted[table] = append(m.inserted[table], rows...)
	return len(rows), nil
}

func (m *MemStore) RecordPayment(_ context.Context, p PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining, ok := m.remaining[p.TransactionID]
	if !ok {
		return errors.New("المعاملة غير موجودة")
	}
	if p.Amount.GreaterThan(remaining) {
		return fmt.Errorf("المبلغ %s يتجاوز الرصيد المتبقي %s", p.Amount, remaining)
	}
	m.remaining[p.TransactionID] = remaining.Sub(p.Amount)
	m.payments = append(m.payments, p)
	return nil
}

func (m *MemStore) Purge(_ context.Context, table string, olderThan *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purges = append(m.purges, PurgeCall{Table: table, OlderThan: olderThan})
	if olderThan == nil {
		m.inserted[table] = nil
	}
	return nil
}

func (m *MemStore) TableColumns(_ context.Context, table string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.columns[table], nil
}

// Inserted returns the rows bulk-inserted into a table.
func (m *MemStore) Inserted(table string) []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserted[table]
}

// Payments returns every payment accepted by RecordPayment.
func (m *MemStore) Payments() []PaymentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PaymentRecord, len(m.payments))
	copy(out, m.payments)
	return out
}

// Purges returns recorded Purge invocations.
func (m *MemStore) Purges() []PurgeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PurgeCall, len(m.purges))
	copy(out, m.purges)
	return out
}

// RemainingBalance reports a transaction's current remaining balance.
func (m *MemStore) RemainingBalance(transactionID string) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.remaining[transactionID]
	return d, ok
}
