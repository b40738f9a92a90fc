package dataimport_test

import (
	"fmt"
	"testing"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/api/dataimport"

	"github.com/shopspring/decimal"
)

func transactionMappings() []dataimport.Mapping {
	return []dataimport.Mapping{
		{Source: "رقم العميل", Target: "customer_id"},
		{Source: "سعر السلعة", Target: "cost_price"},
		{Source: "السعر الاضافى", Target: "extra_price"},
		{Source: "قيمة القسط", Target: "installment_amount"},
		{Source: "عدد الدفعات", Target: "number_of_installments"},
		{Source: "تاريخ البدء", Target: "start_date"},
	}
}

func transactionRefs() dataimport.ReferenceMaps {
	return dataimport.ReferenceMaps{
		Customers: dataimport.ReferenceMap{"7": "cust-7", "12": "cust-12"},
	}
}

func mustConfig(t *testing.T, table string) dataimport.TableConfig {
	t.Helper()
	cfg, err := dataimport.GetConfig(table)
	if err != nil {
		t.Fatalf("GetConfig(%s): %v", table, err)
	}
	return cfg
}

func validTransactionRow() map[string]string {
	return map[string]string{
		"رقم العميل":    "7",
		"سعر السلعة":    "100.50",
		"السعر الاضافى": "19.50",
		"قيمة القسط":    "10",
		"عدد الدفعات":   "12",
		"تاريخ البدء":   "15/01/2024",
	}
}

func TestTransformRowTransaction(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)
	valid, rowErr := dataimport.TransformRow(validTransactionRow(), dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0)
	if rowErr != nil {
		t.Fatalf("expected valid row, got error: %+v", rowErr)
	}
	if valid.Row != 2 {
		t.Fatalf("first data row should report as 2, got %d", valid.Row)
	}
	if got := valid.Fields["customer_id"]; got != "cust-7" {
		t.Fatalf("customer_id not resolved: %v", got)
	}
	amount, ok := valid.Fields["amount"].(decimal.Decimal)
	if !ok || !amount.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("derived amount should be 120, got %v", valid.Fields["amount"])
	}
	remaining, ok := valid.Fields["remaining_balance"].(decimal.Decimal)
	if !ok || !remaining.Equal(amount) {
		t.Fatalf("remaining_balance should equal amount, got %v", valid.Fields["remaining_balance"])
	}
	if valid.Fields["status"] != "active" {
		t.Fatalf("status should default to active, got %v", valid.Fields["status"])
	}
	if valid.Fields["has_legal_case"] != false {
		t.Fatalf("has_legal_case should default to false, got %v", valid.Fields["has_legal_case"])
	}
	if valid.Fields["number_of_installments"] != 12 {
		t.Fatalf("installment count should be int 12, got %v", valid.Fields["number_of_installments"])
	}
	if valid.Fields["start_date"] != "2024-01-15" {
		t.Fatalf("start_date should be ISO, got %v", valid.Fields["start_date"])
	}
}

func TestTransformRowIsPure(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)
	first, err1 := dataimport.TransformRow(validTransactionRow(), dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 3)
	second, err2 := dataimport.TransformRow(validTransactionRow(), dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 3)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected row errors: %v %v", err1, err2)
	}
	if first.Row != second.Row || len(first.Fields) != len(second.Fields) {
		t.Fatal("identical inputs should produce identical outputs")
	}
	for k, v := range first.Fields {
		if fmt.Sprint(second.Fields[k]) != fmt.Sprint(v) {
			t.Fatalf("field %s differs between runs: %v vs %v", k, v, second.Fields[k])
		}
	}
}

func TestTransformRowRequiredFieldEmpty(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)
	row := validTransactionRow()
	row["سعر السلعة"] = ""

	valid, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 4)
	if valid != nil {
		t.Fatal("row with empty required field must not survive")
	}
	if rowErr.Row != 6 {
		t.Fatalf("row number should be index+2, got %d", rowErr.Row)
	}
	want := fmt.Sprintf(constants.MsgRequiredFieldFmt, "سعر السلعة")
	if rowErr.Message != want {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}
}

func TestTransformRowMoneyValidation(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)

	row := validTransactionRow()
	row["سعر السلعة"] = "-5"
	if _, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0); rowErr == nil {
		t.Fatal("negative amount must be rejected")
	} else if rowErr.Message != fmt.Sprintf(constants.MsgNegativeAmountFmt, "-5") {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}

	row = validTransactionRow()
	row["سعر السلعة"] = "abc"
	if _, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0); rowErr == nil {
		t.Fatal("non-numeric amount must be rejected")
	} else if rowErr.Message != fmt.Sprintf(constants.MsgNotANumberFmt, "abc") {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}

	// Zero is a legal amount; only negatives are rejected.
	row = validTransactionRow()
	row["السعر الاضافى"] = "0"
	valid, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0)
	if rowErr != nil {
		t.Fatalf("zero amount should be accepted: %+v", rowErr)
	}
	amount := valid.Fields["amount"].(decimal.Decimal)
	if !amount.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("amount should be 100.50, got %s", amount)
	}
}

func TestTransformRowInstallmentCount(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)

	row := validTransactionRow()
	row["عدد الدفعات"] = "2.5"
	if _, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0); rowErr == nil {
		t.Fatal("fractional installment count must be rejected")
	}

	row = validTransactionRow()
	row["عدد الدفعات"] = "0"
	if _, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0); rowErr == nil {
		t.Fatal("zero installments must be rejected")
	} else if rowErr.Message != fmt.Sprintf(constants.MsgTooFewInstallFmt, "0") {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}

	// "12.0" is a whole number in disguise; spreadsheets emit these.
	row = validTransactionRow()
	row["عدد الدفعات"] = "12.0"
	valid, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0)
	if rowErr != nil {
		t.Fatalf("whole-number float should be accepted: %+v", rowErr)
	}
	if valid.Fields["number_of_installments"] != 12 {
		t.Fatalf("expected 12, got %v", valid.Fields["number_of_installments"])
	}
}

func TestTransformRowDates(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)
	cases := []struct {
		in   string
		want string
	}{
		{"25569", "1970-01-01"},
		{"45292", "2024-01-01"},
		{"15/01/2024", "2024-01-15"},
		{"2024-03-20", "2024-03-20"},
	}
	for _, tc := range cases {
		row := validTransactionRow()
		row["تاريخ البدء"] = tc.in
		valid, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0)
		if rowErr != nil {
			t.Fatalf("date %q rejected: %+v", tc.in, rowErr)
		}
		if valid.Fields["start_date"] != tc.want {
			t.Fatalf("date %q: expected %s, got %v", tc.in, tc.want, valid.Fields["start_date"])
		}
	}

	row := validTransactionRow()
	row["تاريخ البدء"] = "غير تاريخ"
	if _, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 0); rowErr == nil {
		t.Fatal("unparseable date must be rejected")
	} else if rowErr.Message != fmt.Sprintf(constants.MsgInvalidDateFmt, "غير تاريخ") {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}
}

func TestTransformRowUnknownCustomerRef(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableTransactions)
	row := validTransactionRow()
	row["رقم العميل"] = "999"

	_, rowErr := dataimport.TransformRow(row, dataimport.TableTransactions, cfg, transactionMappings(), transactionRefs(), 1)
	if rowErr == nil {
		t.Fatal("unknown customer reference must fail the row")
	}
	if rowErr.Message != fmt.Sprintf(constants.MsgCustomerRefFmt, "999") {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}
}

func TestTransformRowUnmappedRequiredField(t *testing.T) {
	t.Parallel()

	// full_name is required for customers but no mapping covers it, so every
	// row is missing it regardless of cell contents.
	cfg := mustConfig(t, dataimport.TableCustomers)
	mappings := []dataimport.Mapping{
		{Source: "الهاتف", Target: "mobile_number"},
	}
	row := map[string]string{"الهاتف": "99887766"}

	valid, rowErr := dataimport.TransformRow(row, dataimport.TableCustomers, cfg, mappings, dataimport.ReferenceMaps{}, 0)
	if valid != nil {
		t.Fatal("row must not validate when a required field has no mapping")
	}
	if rowErr.Row != 2 {
		t.Fatalf("row number should be index+2, got %d", rowErr.Row)
	}
	want := fmt.Sprintf(constants.MsgRequiredFieldFmt, "الاسم الكامل")
	if rowErr.Message != want {
		t.Fatalf("unexpected message: %s", rowErr.Message)
	}
}

func TestTransformRowCustomerKeepsLegacyCode(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, dataimport.TableCustomers)
	mappings := []dataimport.Mapping{
		{Source: "كود", Target: "id"},
		{Source: "الاسم", Target: "full_name"},
		{Source: "الهاتف", Target: "mobile_number"},
	}
	row := map[string]string{
		"كود":    "45",
		"الاسم":  "محمد أحمد",
		"الهاتف": "99887766",
	}

	valid, rowErr := dataimport.TransformRow(row, dataimport.TableCustomers, cfg, mappings, dataimport.ReferenceMaps{}, 0)
	if rowErr != nil {
		t.Fatalf("expected valid row: %+v", rowErr)
	}
	if valid.Fields["id"] != "45" {
		t.Fatalf("id should pass through, got %v", valid.Fields["id"])
	}
	if valid.Fields["sequence_number"] != "45" {
		t.Fatalf("legacy code should copy to sequence_number, got %v", valid.Fields["sequence_number"])
	}
}
