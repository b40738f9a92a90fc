package dataimport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/api/dataimport"
)

func TestPurgeImportedDataAll(t *testing.T) {
	t.Parallel()

	store := dataimport.NewMemStore()
	outcome, err := dataimport.PurgeImportedData(context.Background(), store, dataimport.TableCustomers, 0)
	if err != nil {
		t.Fatalf("PurgeImportedData: %v", err)
	}
	if outcome.Message != constants.MsgPurged(dataimport.TableCustomers, 0) {
		t.Fatalf("unexpected message: %s", outcome.Message)
	}

	purges := store.Purges()
	if len(purges) != 1 {
		t.Fatalf("expected 1 purge call, got %d", len(purges))
	}
	if purges[0].OlderThan != nil {
		t.Fatal("unscoped purge must not carry a cutoff")
	}
}

func TestPurgeImportedDataWindow(t *testing.T) {
	t.Parallel()

	store := dataimport.NewMemStore()
	before := time.Now()
	_, err := dataimport.PurgeImportedData(context.Background(), store, dataimport.TableTransactions, 24)
	if err != nil {
		t.Fatalf("PurgeImportedData: %v", err)
	}

	purges := store.Purges()
	if len(purges) != 1 || purges[0].OlderThan == nil {
		t.Fatalf("windowed purge must carry a cutoff: %+v", purges)
	}
	cutoff := *purges[0].OlderThan
	wantLow := before.Add(-24*time.Hour - time.Minute)
	wantHigh := time.Now().Add(-24*time.Hour + time.Minute)
	if cutoff.Before(wantLow) || cutoff.After(wantHigh) {
		t.Fatalf("cutoff %v not around now-24h", cutoff)
	}
}

func TestPurgeImportedDataUnknownTable(t *testing.T) {
	t.Parallel()

	_, err := dataimport.PurgeImportedData(context.Background(), dataimport.NewMemStore(), "invoices", 0)
	if !errors.Is(err, dataimport.ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
