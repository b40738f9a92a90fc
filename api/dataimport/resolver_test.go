package dataimport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"AqsatiSaaS/api/dataimport"
)

// failingStore reports SequencePairs failure to exercise the operation-level
// error path; everything else would be a test bug.
type failingStore struct{}

func (failingStore) SequencePairs(context.Context, string) ([]dataimport.SequencePair, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) BulkInsert(context.Context, string, []map[string]interface{}) (int, error) {
	return 0, errors.New("not implemented")
}
func (failingStore) RecordPayment(context.Context, dataimport.PaymentRecord) error {
	return errors.New("not implemented")
}
func (failingStore) Purge(context.Context, string, *time.Time) error {
	return errors.New("not implemented")
}
func (failingStore) TableColumns(context.Context, string) ([]string, error) {
	return nil, errors.New("not implemented")
}

func TestBuildReferenceMapNormalization(t *testing.T) {
	t.Parallel()

	store := dataimport.NewMemStore()
	store.SeedPairs(dataimport.TableCustomers,
		dataimport.SequencePair{ID: "cust-7", SequenceNumber: "7"},
		dataimport.SequencePair{ID: "cust-8", SequenceNumber: "008"},
	)

	refs, err := dataimport.BuildReferenceMap(context.Background(), store, dataimport.TableCustomers)
	if err != nil {
		t.Fatalf("BuildReferenceMap: %v", err)
	}

	// Zero-padded and float-rendered cell values resolve to the same record.
	for _, raw := range []string{"7", "007", "7.0"} {
		id, ok := refs.Lookup(raw)
		if !ok || id != "cust-7" {
			t.Fatalf("Lookup(%q) = %q, %v; want cust-7", raw, id, ok)
		}
	}
	// A padded stored sequence is reachable by its canonical form too.
	if id, ok := refs.Lookup("8"); !ok || id != "cust-8" {
		t.Fatalf("Lookup(8) = %q, %v; want cust-8", id, ok)
	}

	if _, ok := refs.Lookup("999"); ok {
		t.Fatal("unknown sequence should not resolve")
	}
}

func TestBuildReferenceMapSkipsEmptySequences(t *testing.T) {
	t.Parallel()

	store := dataimport.NewMemStore()
	store.SeedPairs(dataimport.TableCustomers,
		dataimport.SequencePair{ID: "cust-1", SequenceNumber: ""},
		dataimport.SequencePair{ID: "cust-2", SequenceNumber: "2"},
	)

	refs, err := dataimport.BuildReferenceMap(context.Background(), store, dataimport.TableCustomers)
	if err != nil {
		t.Fatalf("BuildReferenceMap: %v", err)
	}
	if _, ok := refs.Lookup(""); ok {
		t.Fatal("empty sequence numbers must not be indexed")
	}
	if id, ok := refs.Lookup("2"); !ok || id != "cust-2" {
		t.Fatalf("Lookup(2) = %q, %v", id, ok)
	}
}

func TestBuildReferenceMapSourceFailure(t *testing.T) {
	t.Parallel()

	_, err := dataimport.BuildReferenceMap(context.Background(), failingStore{}, dataimport.TableCustomers)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, dataimport.ErrResolutionSource) {
		t.Fatalf("expected ErrResolutionSource, got %v", err)
	}
}
