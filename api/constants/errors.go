package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrMissingUserID  = "user_id is required in the request"
	ErrInvalidSession = "Your session has expired or is invalid. Please login again"
	ErrUnauthorized   = "You are not authorized to perform this action"
	ErrAdminOnly      = "Only administrators can perform this action"
)

// ============================================================================
// VALIDATION ERRORS - Customers & Transactions
// ============================================================================

const (
	ErrCustomerNotFound     = "Customer not found in the system"
	ErrCustomerCreateFailed = "Failed to create customer. Please check the submitted fields"
	ErrTransactionNotFound  = "Transaction not found or has been deleted"
	ErrInvalidAmount        = "Amount must be a non-negative number"
	ErrInvalidDate          = "Date value could not be parsed"
)

// ============================================================================
// IMPORT ERRORS
// ============================================================================

const (
	ErrUnknownImportTable = "Unknown import target table"
	ErrMissingUploadFile  = "Missing 'file' field in the upload form"
	ErrMissingSheetName   = "sheet_name is required for import"
	ErrInvalidMappings    = "mappings must be a JSON object of source column to target field"
)
