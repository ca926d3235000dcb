package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// HTTP Headers
const (
	HeaderContentType  = "Content-Type"
	HeaderRequestID    = "X-Request-ID"
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderAllowCreds   = "Access-Control-Allow-Credentials"
	HeaderVary         = "Vary"
)

// CORS defaults, matching what the storefront frontend sends.
const (
	CORSAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	CORSAllowHeaders = "Content-Type, Authorization"
)

// Routes
const (
	APIPrefix    = "/api"
	RouteRoot    = "/"
	RouteStatus  = "/status"
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
