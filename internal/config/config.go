package config

const (
	DefaultTimeZone = "Asia/Kuwait"

	// Import pipeline constants
	PreviewRowCount = 5
	ImportBatchSize = 500

	// Installment counts below this value are rejected by the row validator.
	// Legacy sheets that carried 0 here were data-entry mistakes, not
	// zero-installment sales.
	MinInstallments = 1

	// Spreadsheet serial dates count days from the 1900 epoch; 25569 is the
	// day offset between that epoch and 1970-01-01.
	ExcelEpochOffsetDays = 25569
	SecondsPerDay        = 86400

	// Overdue recalculation runs nightly after the payment-entry cutoff.
	DefaultOverdueSchedule = "30 2 * * *"
)
