package dataimport

import (
	"context"
	"fmt"
	"strconv"
)

// ReferenceMap resolves a human-facing sequence number to an internal id.
// Every pair is keyed twice, by the raw string and by its numeric-normalized
// form, so "007" in a cell matches a stored 7 and vice versa.
type ReferenceMap map[string]string

// Lookup tries the raw cell value first, then its normalized form.
func (m ReferenceMap) Lookup(raw string) (string, bool) {
	if id, ok := m[raw]; ok {
		return id, true
	}
	if norm := normalizeSequence(raw); norm != "" {
		if id, ok := m[norm]; ok {
			return id, true
		}
	}
	return "", false
}

// ReferenceMaps holds the lookups one import run may need. Built fresh per
// run, discarded after it.
type ReferenceMaps struct {
	Customers    ReferenceMap
	Transactions ReferenceMap
}

// BuildReferenceMap scans the referenced table and indexes its sequence
// numbers. A failing scan is an operation-level failure, distinct from a
// per-row "reference not found".
func BuildReferenceMap(ctx context.Context, store Store, table string) (ReferenceMap, error) {
	pairs, err := store.SequencePairs(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResolutionSource, table, err)
	}
	m := make(ReferenceMap, len(pairs)*2)
	for _, p := range pairs {
		if p.SequenceNumber == "" {
			continue
		}
		m[p.SequenceNumber] = p.ID
		if norm := normalizeSequence(p.SequenceNumber); norm != "" {
			m[norm] = p.ID
		}
	}
	return m, nil
}

// buildReferenceMaps fetches only the lookups the target table needs:
// transactions resolve customers; payments resolve both.
func buildReferenceMaps(ctx context.Context, store Store, table string) (ReferenceMaps, error) {
	var refs ReferenceMaps
	var err error
	switch table {
	case TableTransactions:
		refs.Customers, err = BuildReferenceMap(ctx, store, TableCustomers)
	case TablePayments:
		refs.Customers, err = BuildReferenceMap(ctx, store, TableCustomers)
		if err == nil {
			refs.Transactions, err = BuildReferenceMap(ctx, store, TableTransactions)
		}
	}
	if err != nil {
		return ReferenceMaps{}, err
	}
	return refs, nil
}

// normalizeSequence reduces a numeric-looking string to its canonical form:
// "007" -> "7", "7.0" -> "7". Non-numeric values normalize to "".
func normalizeSequence(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
