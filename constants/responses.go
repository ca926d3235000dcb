package constants

// HTTP Response Messages
const (
	ResponseHelloWorld         = "Hello World"
	ResponseHealthy            = "healthy"
	ResponseUnhealthy          = "unhealthy"
	ResponseInvalidRequestBody = "invalid request body"
	ResponseMissingClientName  = "client_name is required"
	ResponseFailedToSave       = "failed to save status check"
	ResponseFailedToList       = "failed to list status checks"
	ResponseGatewayTimeout     = "gateway timeout"
	ResponseBadGateway         = "bad gateway"
	ResponseInternalError      = "internal server error"
)

// Diagnostic payloads served when the application cannot be loaded.
const (
	DiagnosticConfigError = "Configuration error"
	DiagnosticImportError = "Import error"

	// HintVercel is shown by the serverless entry point.
	HintVercel = "Set MONGO_URL and DB_NAME environment variables in Vercel dashboard"
	// HintPassenger is shown by the process-based entry points.
	HintPassenger = "Set MONGO_URL and DB_NAME in the application environment (.env file or hosting control panel) and restart the app"
)

// Error Messages for Logging
const (
	LogFailedEncodeJSON = "Failed to encode JSON response: %v"
	LogWriteFailed      = "w.Write failed: %v"
	LogAppLoadFailed    = "application failed to load, serving diagnostics"
)
