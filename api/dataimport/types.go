package dataimport

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Importable target tables.
const (
	TableCustomers    = "customers"
	TableTransactions = "transactions"
	TablePayments     = "payments"
)

// Operation-level failures. Row-level problems are never returned as errors;
// they are accumulated into ImportOutcome.Errors.
var (
	ErrParse            = errors.New("workbook parse failed")
	ErrResolutionSource = errors.New("reference source unavailable")
	ErrDatabase         = errors.New("database insert failed")
	ErrUnknownTable     = errors.New("unknown import target table")
	ErrSheetNotFound    = errors.New("sheet not found in workbook")
)

// ImportConfig is supplied by the caller for one import run and is not
// mutated afterwards. Mappings is source column -> target field; sheet
// columns absent from it are ignored.
type ImportConfig struct {
	TableName string            `json:"table_name"`
	SheetName string            `json:"sheet_name"`
	Mappings  map[string]string `json:"mappings"`
}

// Mapping is one resolved (source column, target field) pair. The run works
// on an ordered slice so row errors are deterministic.
type Mapping struct {
	Source string
	Target string
}

// RowError records one rejected source row. Row is 1-based and offset for the
// header row, so the first data row reports as 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ValidRow is a transformed source row ready for commit, tagged with its
// origin row number so per-row commit failures can point back at the sheet.
type ValidRow struct {
	Row    int
	Fields map[string]interface{}
}

// ImportOutcome is the terminal result of one import run. Validation
// failures and per-row commit failures are reported in separate lists.
type ImportOutcome struct {
	Imported     int        `json:"imported"`
	Errors       []RowError `json:"errors"`
	CommitErrors []RowError `json:"commit_errors,omitempty"`
	Message      string     `json:"message"`
}

// WorkbookSummary is what the preview endpoint returns before a run commits.
type WorkbookSummary struct {
	SheetNames []string                       `json:"sheets"`
	Preview    map[string][]map[string]string `json:"preview"`
}

// PaymentRecord carries the arguments of one record_payment procedure call
// plus the optional notes attached to the resulting payment row.
type PaymentRecord struct {
	TransactionID string
	Amount        decimal.Decimal
	PaymentDate   string
	Notes         string
}
