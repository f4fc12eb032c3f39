package domain

import "time"

// RecoveryStrategy maps a failure classification to an ordered list of
// recovery actions plus an activation policy.
type RecoveryStrategy struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	ErrorKinds []string         `json:"error_kinds"`
	Category   Category         `json:"category"`
	Severities []Severity       `json:"severities"`
	Actions    []RecoveryAction `json:"actions"`
	MaxPerHour int              `json:"max_per_hour,omitempty"` // 0 = unlimited
	Cooldown   time.Duration    `json:"cooldown,omitempty"`     // 0 = none
}

// Matches reports whether the strategy applies to the given event. All
// three predicates must hold: the event kind (or its secondary error
// code) is one of ErrorKinds, the category is equal, and the severity
// is a member of Severities.
func (s *RecoveryStrategy) Matches(e *ErrorEvent) bool {
	if s.Category != e.Category {
		return false
	}
	kindOK := false
	for _, k := range s.ErrorKinds {
		if k == e.Kind || (e.Code != "" && k == e.Code) {
			kindOK = true
			break
		}
	}
	if !kindOK {
		return false
	}
	for _, sev := range s.Severities {
		if sev == e.Severity {
			return true
		}
	}
	return false
}
