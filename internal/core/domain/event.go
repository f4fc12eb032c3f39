package domain

import "time"

// ErrorEvent represents a classified failure fed into the healing engine.
// It is created by the upstream failure detector (typically the HTTP
// middleware) and is immutable once handed to the engine.
type ErrorEvent struct {
	Kind     string       `json:"kind"`
	Code     string       `json:"code,omitempty"`
	Category Category     `json:"category"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Context  EventContext `json:"context"`
}

// EventContext carries request metadata alongside the failure.
type EventContext struct {
	RequestID string    `json:"request_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Method    string    `json:"method,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Category string

const (
	CategoryDatabase        Category = "DATABASE"
	CategoryExternalService Category = "EXTERNAL_SERVICE"
	CategoryPerformance     Category = "PERFORMANCE"
	CategorySystem          Category = "SYSTEM"
	CategoryAuthentication  Category = "AUTHENTICATION"
	CategoryValidation      Category = "VALIDATION"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)
