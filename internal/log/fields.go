package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldEmail       = "email"
	FieldPeriod      = "period"
	FieldLabel       = "label"
	FieldAmountCents = "amount_cents"
	FieldTxID        = "transaction_id"
	FieldTxKind      = "transaction_kind"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentMail    = "mail"
	ComponentSheets  = "sheets"
	ComponentAuth    = "auth"
	ComponentCache   = "cache"
)
