package dataimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/internal/config"

	"github.com/shopspring/decimal"
)

// FieldKind tags a target field with its validation semantics. One switch in
// TransformRow dispatches on it; there are no per-table special cases outside
// this file.
type FieldKind int

const (
	FieldPassthrough FieldKind = iota
	FieldIdentifier
	FieldCustomerRef
	FieldTransactionRef
	FieldMoney
	FieldCount
	FieldCalendarDate
)

func classifyField(target string) FieldKind {
	switch target {
	case "id":
		return FieldIdentifier
	case "customer_id":
		return FieldCustomerRef
	case "transaction_id":
		return FieldTransactionRef
	case "cost_price", "extra_price", "installment_amount", "amount":
		return FieldMoney
	case "number_of_installments":
		return FieldCount
	case "start_date", "payment_date":
		return FieldCalendarDate
	default:
		return FieldPassthrough
	}
}

// TransformRow validates and transforms one source row. Pure: identical
// inputs always produce the identical ValidRow or RowError. index is the
// 0-based position in the data rows; reported row numbers are offset by the
// header so the first data row is 2.
func TransformRow(raw map[string]string, table string, cfg TableConfig, mappings []Mapping, refs ReferenceMaps, index int) (*ValidRow, *RowError) {
	rowNum := index + 2

	// A required target field with no covering mapping at all is missing on
	// every row, not just on rows with a blank cell.
	for _, req := range cfg.RequiredFields {
		covered := false
		for _, m := range mappings {
			if m.Target == req {
				covered = true
				break
			}
		}
		if !covered {
			return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgRequiredFieldFmt, cfg.labelFor(req))}
		}
	}

	fields := make(map[string]interface{}, len(mappings))

	for _, m := range mappings {
		value := raw[m.Source]

		// Required-field check fails the whole row; no partial row survives.
		if value == "" {
			if cfg.isRequired(m.Target) {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgRequiredFieldFmt, m.Source)}
			}
			continue
		}

		switch classifyField(m.Target) {
		case FieldIdentifier:
			fields["id"] = value
			// Imported customers keep their legacy code as the sequence
			// number, so transaction and payment sheets from the same
			// lineage can reference them.
			if table == TableCustomers {
				fields["sequence_number"] = value
			}

		case FieldCustomerRef:
			id, ok := refs.Customers.Lookup(value)
			if !ok {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgCustomerRefFmt, value)}
			}
			fields["customer_id"] = id

		case FieldTransactionRef:
			id, ok := refs.Transactions.Lookup(value)
			if !ok {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgTransactionRefFmt, value)}
			}
			fields["transaction_id"] = id

		case FieldMoney:
			d, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgNotANumberFmt, value)}
			}
			if d.IsNegative() {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgNegativeAmountFmt, value)}
			}
			// Currency amounts are never rounded inside the pipeline.
			fields[m.Target] = d

		case FieldCount:
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || f != math.Trunc(f) {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgNotAnIntegerFmt, value)}
			}
			n := int(f)
			if n < config.MinInstallments {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgTooFewInstallFmt, value)}
			}
			fields[m.Target] = n

		case FieldCalendarDate:
			iso, ok := coerceDate(value)
			if !ok {
				return nil, &RowError{Row: rowNum, Message: fmt.Sprintf(constants.MsgInvalidDateFmt, value)}
			}
			fields[m.Target] = iso

		default:
			fields[m.Target] = value
		}
	}

	applyDerivedFields(table, fields)
	return &ValidRow{Row: rowNum, Fields: fields}, nil
}

// applyDerivedFields fills server-expected fields the sheet does not carry.
func applyDerivedFields(table string, fields map[string]interface{}) {
	if table != TableTransactions {
		return
	}
	cost, _ := fields["cost_price"].(decimal.Decimal)
	extra, _ := fields["extra_price"].(decimal.Decimal)
	amount := cost.Add(extra)
	fields["amount"] = amount
	fields["remaining_balance"] = amount
	fields["status"] = "active"
	if _, ok := fields["has_legal_case"]; !ok {
		fields["has_legal_case"] = false
	}
}

// coerceDate accepts either a spreadsheet date serial or a calendar string
// and renders an ISO date, discarding time-of-day.
func coerceDate(value string) (string, bool) {
	s := strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		secs := (f - config.ExcelEpochOffsetDays) * config.SecondsPerDay
		t := time.Unix(int64(math.Round(secs)), 0).UTC()
		return t.Format(constants.DateFormat), true
	}
	if t, err := parseCalendarDate(s); err == nil {
		return t.Format(constants.DateFormat), true
	}
	return "", false
}

// parseCalendarDate tries the layouts the legacy sheets actually contain.
// dd/mm/yyyy variants come before mm/dd/yyyy; the sheets are Gulf-formatted.
func parseCalendarDate(s string) (time.Time, error) {
	layouts := []string{
		constants.DateFormat,
		"02/01/2006", "2/1/2006", "02-01-2006", "2-1-2006",
		"2006/01/02", "2006.01.02",
		"01/02/2006",
		constants.DateFormatSlash, constants.DateFormatDash,
		"2 Jan 2006", "02-Jan-2006", "02-Jan-06",
		"2006-01-02T15:04:05", time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date: %s", s)
}
