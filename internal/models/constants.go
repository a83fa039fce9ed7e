package models

const (
	StatusRequested        = 1
	StatusAccepted         = 2
	StatusCompleted        = 3
	StatusPaymentRequested = 4
)

// RequiredFields lists the fields checked before submission, in order.
// The first missing field decides which message the caller sees.
var RequiredFields = []struct {
	Key     string
	Message string
}{
	{"service_type", "service type is required"},
	{"customer_phone", "customer phone is required"},
	{"customer_address", "customer address is required"},
	{"customer_address_detail", "customer address detail is required"},
	{"customer_type", "customer type is required"},
	{"service_date", "service date is required"},
	{"service_time", "service time is required"},
	{"aircon_type", "aircon type is required"},
	{"brand", "brand is required"},
}

// CreatedAtLayout is the storefront-visible creation date format.
const CreatedAtLayout = "2006년 01월 02일"

const (
	// DefaultDraftTTL время жизни черновика в Redis
	DefaultDraftTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultScopePrefixBooking префикс шагов основной воронки
	DefaultScopePrefixBooking = "/request"

	// DefaultScopePrefixPartner префикс партнёрской воронки
	DefaultScopePrefixPartner = "/partner"

	// NotifyQueueSize размер очереди уведомлений
	NotifyQueueSize = 256

	// DefaultNotifyTimeout таймаут исходящего уведомления в секундах
	DefaultNotifyTimeout = 10
)
