package dataimport

import (
	"errors"
	"testing"
)

func TestGetConfigKnownTables(t *testing.T) {
	t.Parallel()

	for _, table := range []string{TableCustomers, TableTransactions, TablePayments} {
		cfg, err := GetConfig(table)
		if err != nil {
			t.Fatalf("GetConfig(%s): %v", table, err)
		}
		if cfg.Name == "" || len(cfg.Fields) == 0 {
			t.Fatalf("config for %s is incomplete: %+v", table, cfg)
		}
		for _, req := range cfg.RequiredFields {
			found := false
			for _, f := range cfg.Fields {
				if f.Value == req {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s: required field %s is not declared", table, req)
			}
		}
	}
}

func TestGetConfigUnknownTable(t *testing.T) {
	t.Parallel()

	_, err := GetConfig("invoices")
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}

func TestOrderedMappingsAreDeterministic(t *testing.T) {
	t.Parallel()

	cfg, err := GetConfig(TableTransactions)
	if err != nil {
		t.Fatal(err)
	}
	mappings := map[string]string{
		"د": "start_date",
		"ا": "customer_id",
		"ب": "cost_price",
		"ج": "installment_amount",
		"س": "undeclared_extra",
	}

	first := orderedMappings(cfg, mappings)
	for i := 0; i < 20; i++ {
		again := orderedMappings(cfg, mappings)
		if len(again) != len(first) {
			t.Fatalf("length changed between runs: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("order changed between runs at %d: %+v vs %+v", j, first[j], again[j])
			}
		}
	}

	// Declared fields follow the config order; undeclared ones trail.
	if first[0].Target != "customer_id" {
		t.Fatalf("customer_id should come first, got %+v", first[0])
	}
	if first[len(first)-1].Target != "undeclared_extra" {
		t.Fatalf("undeclared mapping should trail, got %+v", first[len(first)-1])
	}
}
