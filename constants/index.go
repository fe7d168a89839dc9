package constants

// Roles. Closed set, compared only through helper.Can* checks.
const (
	ROLE_ADMIN   = "admin"
	ROLE_MANAGER = "manager"
	ROLE_USER    = "user"
)

// Ticket payment statuses.
const (
	PAYMENT_PENDING   = "pending"
	PAYMENT_PAID      = "paid"
	PAYMENT_CANCELLED = "cancelled"
	PAYMENT_REFUNDED  = "refunded"
)

// Manager request statuses.
const (
	REQUEST_PENDING  = "pending"
	REQUEST_APPROVED = "approved"
	REQUEST_REJECTED = "rejected"
)

// Webhook event types emitted by the payment gateway.
const (
	EVENT_CHECKOUT_COMPLETED = "checkout.session.completed"
	EVENT_CHECKOUT_EXPIRED   = "checkout.session.expired"
)

// Response messages.
const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_INPUT                = "Invalid input"
	ERROR_PARSE_DATA_TO_LOCALS = "Cannot read validated input"
	NOT_FOUND_RECORDS          = "Record not found"
	INVALID_CREDENTIALS        = "Invalid email or password"
	ACCOUNT_BLOCKED            = "Your account has been blocked"
	ACCOUNT_NOT_VERIFIED       = "Please verify your account before login"
	ACCOUNT_NOT_PERMISSION     = "You do not have permission to perform this action"
	NOT_ADMIN                  = "Admin access required"
	NOT_APPROVED_MANAGER       = "Only approved event managers can perform this action"
)
