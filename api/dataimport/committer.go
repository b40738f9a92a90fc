package dataimport

import (
	"context"
	"fmt"

	"AqsatiSaaS/api/constants"

	"github.com/shopspring/decimal"
)

// RunImport executes one full import: re-parse the chosen sheet, resolve
// references, validate and transform every row, then commit.
//
// Commit policy: customers and transactions are best-effort — valid rows are
// bulk-inserted even when other rows failed validation. Payments go through
// the balance-mutating server procedure one at a time; a failed row never
// rolls back or blocks the rows around it.
func RunImport(ctx context.Context, store Store, fileBytes []byte, cfg ImportConfig) (*ImportOutcome, error) {
	tableCfg, err := GetConfig(cfg.TableName)
	if err != nil {
		return nil, err
	}

	rows, err := ReadSheetFull(fileBytes, cfg.SheetName)
	if err != nil {
		return nil, err
	}

	refs, err := buildReferenceMaps(ctx, store, cfg.TableName)
	if err != nil {
		return nil, err
	}

	mappings := orderedMappings(tableCfg, cfg.Mappings)

	validRows := make([]ValidRow, 0, len(rows))
	rowErrors := make([]RowError, 0)
	for i, raw := range rows {
		valid, rowErr := TransformRow(raw, cfg.TableName, tableCfg, mappings, refs, i)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		validRows = append(validRows, *valid)
	}

	if len(validRows) == 0 {
		return &ImportOutcome{Imported: 0, Errors: rowErrors, Message: constants.MsgNoValidRows}, nil
	}

	var imported int
	var commitErrors []RowError
	switch cfg.TableName {
	case TablePayments:
		imported, commitErrors = commitPayments(ctx, store, validRows)
	default:
		imported, err = commitBulk(ctx, store, cfg.TableName, validRows)
		if err != nil {
			return nil, err
		}
	}

	return &ImportOutcome{
		Imported:     imported,
		Errors:       rowErrors,
		CommitErrors: commitErrors,
		Message:      constants.MsgImportSummary(imported, len(rowErrors)+len(commitErrors)),
	}, nil
}

// commitBulk writes all valid rows in one call. On failure the whole run is
// reported as zero imported: the store's transactional guarantees are not
// assumed, so the caller must verify before retrying.
func commitBulk(ctx context.Context, store Store, table string, validRows []ValidRow) (int, error) {
	rows := make([]map[string]interface{}, len(validRows))
	for i, v := range validRows {
		rows[i] = v.Fields
	}
	n, err := store.BulkInsert(ctx, table, rows)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrDatabase, fmt.Sprintf(constants.MsgDatabaseErrorFmt, err))
	}
	return n, nil
}

// commitPayments submits rows one at a time through record_payment. Balance
// bookkeeping is server-side logic, so a raw insert is never an option here.
// The server's rejection text (e.g. amount exceeds the remaining balance) is
// surfaced verbatim on the failing row. Commit failures come back in their
// own list, apart from the validator's row errors.
func commitPayments(ctx context.Context, store Store, validRows []ValidRow) (int, []RowError) {
	imported := 0
	commitErrors := make([]RowError, 0)
	for _, v := range validRows {
		rec, err := paymentFromFields(v.Fields)
		if err != nil {
			commitErrors = append(commitErrors, RowError{Row: v.Row, Message: fmt.Sprintf(constants.MsgPaymentFailedFmt, err)})
			continue
		}
		if err := store.RecordPayment(ctx, rec); err != nil {
			commitErrors = append(commitErrors, RowError{Row: v.Row, Message: fmt.Sprintf(constants.MsgPaymentFailedFmt, err)})
			continue
		}
		imported++
	}
	return imported, commitErrors
}

func paymentFromFields(fields map[string]interface{}) (PaymentRecord, error) {
	txID, _ := fields["transaction_id"].(string)
	amount, okAmount := fields["amount"].(decimal.Decimal)
	date, _ := fields["payment_date"].(string)
	notes, _ := fields["notes"].(string)
	if txID == "" || !okAmount || date == "" {
		return PaymentRecord{}, fmt.Errorf("missing transaction_id, amount or payment_date")
	}
	return PaymentRecord{TransactionID: txID, Amount: amount, PaymentDate: date, Notes: notes}, nil
}
