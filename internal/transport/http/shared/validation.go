package shared

import (
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"shiftpay/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues so a response reports every problem at
// once instead of failing on the first.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	v.issues = append(v.issues, ValidationIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Enum matches exactly; the status and wage-type vocabularies are lowercase
// constants and sloppy casing from a client is a bug worth surfacing.
func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	if value == "" {
		return
	}
	if !slices.Contains(allowed, value) {
		v.Add(field, reason)
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be an RFC3339 timestamp or a yyyy-MM-dd date")
		return time.Time{}, false
	}
	return parsed, true
}

// DateOrder flags an inverted range. Zero bounds are open and never flagged.
func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() || !end.Before(start) {
		return
	}
	v.Add(startField, "must not be after "+endField)
}

// Reject writes the validation failure and reports whether it did. Issues
// are sorted by field so responses are deterministic.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if len(v.issues) == 0 {
		return false
	}
	issues := slices.Clone(v.issues)
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field == issues[j].Field {
			return issues[i].Reason < issues[j].Reason
		}
		return issues[i].Field < issues[j].Field
	})
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error",
		"payload validation failed", map[string]any{"fields": issues}, requestID)
	return true
}
