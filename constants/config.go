package constants

// Configuration Files
const (
	ConfigFileName = "storefront.config.json"
	EnvFileName    = ".env"
)

// Environment Variables
const (
	EnvMongoURL = "MONGO_URL"
	EnvDBName   = "DB_NAME"
	EnvDebug    = "STOREFRONT_DEBUG"
)

// Defaults
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultServiceName = "storefront"
	DefaultCORSOrigin  = "*"
)

// Storage URL schemes
const (
	SchemeMongo    = "mongodb"
	SchemeMongoSRV = "mongodb+srv"
	SchemeMemory   = "memory"
)

// Event bus drivers
const (
	EventDriverMemory = "memory"
	EventDriverNATS   = "nats"
)

// Tracing exporters
const (
	TracingExporterNone   = ""
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// Event topics
const (
	TopicStatusCheckCreated = "status_check.created"
)
