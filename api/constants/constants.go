package constants

const (
	ContentTypeText = "Content-Type"
	ContentTypeJSON = "application/json"

	DateFormat      = "2006-01-02"
	DateFormatSlash = "02/Jan/2006"
	DateFormatDash  = "02-Jan-2006"

	// Service ports (gateway proxies by path prefix)
	GatewayPort    = ":8081"
	SalesPort      = ":6143"
	DataImportPort = ":7143"
	DashPort       = ":4143"
	UAMPort        = ":5143"
)
