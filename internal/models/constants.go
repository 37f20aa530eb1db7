package models

// Request lifecycle statuses. done and rejected are terminal.
const (
	StatusNew       = "new"
	StatusInReview  = "in_review"
	StatusApproved  = "approved"
	StatusScheduled = "scheduled"
	StatusDone      = "done"
	StatusRejected  = "rejected"
)

const (
	RequestTypeContact = "contact"
	RequestTypeQuote   = "quote"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// NotificationTargetURL is where status-change notifications link to.
const NotificationTargetURL = "/account"

const (
	// DefaultSessionTTL время жизни сессии в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// AdminListLimit максимум строк на таблицу в админском списке заявок
	AdminListLimit = 100

	// NotificationListLimit количество уведомлений в ответе списка
	NotificationListLimit = 20

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// SettingsCacheTTL время жизни кэша настроек в памяти
	SettingsCacheTTL = 30 // секунд

	// RateLimitRequests количество публичных запросов в окне
	RateLimitRequests = 10

	// RateLimitWindow окно ограничения частоты в секундах
	RateLimitWindow = 60
)

var knownStatuses = map[string]bool{
	StatusNew:       true,
	StatusInReview:  true,
	StatusApproved:  true,
	StatusScheduled: true,
	StatusDone:      true,
	StatusRejected:  true,
}

// IsKnownStatus reports whether s is one of the lifecycle statuses.
func IsKnownStatus(s string) bool {
	return knownStatuses[s]
}

// IsTerminalStatus reports whether s admits no further transitions.
func IsTerminalStatus(s string) bool {
	return s == StatusDone || s == StatusRejected
}

// CanTransition validates a moderation status change. Both statuses must be
// known, the current one must not be terminal, and a request never returns
// to "new". Re-applying the current status is an idempotent no-op.
func CanTransition(from, to string) bool {
	if !knownStatuses[from] || !knownStatuses[to] {
		return false
	}
	if from == to {
		return true
	}
	if IsTerminalStatus(from) {
		return false
	}
	return to != StatusNew
}

// IsKnownRequestType reports whether t names a request table.
func IsKnownRequestType(t string) bool {
	return t == RequestTypeContact || t == RequestTypeQuote
}
