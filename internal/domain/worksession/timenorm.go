package worksession

import (
	"time"
)

// Timestamp is the store-native wire representation of a point in time.
// Date-only fields use yyyy-MM-dd strings instead; bare epoch integers are
// never accepted.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(ts.Seconds*1000 + ts.Nanoseconds/1e6)
}

// RawTimes holds the four shift boundaries exactly as they arrive from a
// client or a stored document. Each field may be a Timestamp, a time.Time,
// an ISO-8601 string, or nil.
type RawTimes struct {
	ScheduledStart any
	ScheduledEnd   any
	ActualStart    any
	ActualEnd      any
}

// NormalizedWorkTime is the canonical shape the rest of the engine sees.
// Anything that could not be parsed is nil, never an error: dirty attendance
// data degrades a session to an estimate instead of crashing payroll math.
type NormalizedWorkTime struct {
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	IsEstimate     bool
}

var stringLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime converts one heterogeneous timestamp value to a concrete time.
// Unparseable or unknown input yields nil.
func ParseTime(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case Timestamp:
		t := v.Time()
		return &t
	case *Timestamp:
		if v == nil {
			return nil
		}
		t := v.Time()
		return &t
	case map[string]any:
		return parseTimestampMap(v)
	case string:
		if v == "" {
			return nil
		}
		for _, layout := range stringLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return &parsed
			}
		}
		return nil
	default:
		return nil
	}
}

// parseTimestampMap handles the {seconds, nanoseconds} shape after generic
// JSON decoding, where numbers arrive as float64.
func parseTimestampMap(m map[string]any) *time.Time {
	seconds, ok := numberField(m, "seconds")
	if !ok {
		return nil
	}
	nanos, _ := numberField(m, "nanoseconds")
	t := time.UnixMilli(int64(seconds)*1000 + int64(nanos)/1e6)
	return &t
}

func numberField(m map[string]any, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Normalize converts raw shift boundaries into the canonical record.
func Normalize(raw RawTimes) NormalizedWorkTime {
	normalized := NormalizedWorkTime{
		ScheduledStart: ParseTime(raw.ScheduledStart),
		ScheduledEnd:   ParseTime(raw.ScheduledEnd),
		ActualStart:    ParseTime(raw.ActualStart),
		ActualEnd:      ParseTime(raw.ActualEnd),
	}
	normalized.IsEstimate = normalized.ActualStart == nil || normalized.ActualEnd == nil
	return normalized
}

// HasActualTime reports whether both attendance events have been recorded.
func (n NormalizedWorkTime) HasActualTime() bool {
	return n.ActualStart != nil && n.ActualEnd != nil
}

// IsCheckedIn reports whether a check-in has been recorded.
func (n NormalizedWorkTime) IsCheckedIn() bool {
	return n.ActualStart != nil
}

// IsCheckedOut reports whether a check-out has been recorded.
func (n NormalizedWorkTime) IsCheckedOut() bool {
	return n.ActualEnd != nil
}

// spanHours measures start to end in fractional hours. Shifts at this venue
// never exceed 24h, so an end before its start means the shift crossed
// midnight and the end belongs to the next day.
func spanHours(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	endAt := *end
	if endAt.Before(*start) {
		endAt = endAt.Add(24 * time.Hour)
	}
	return endAt.Sub(*start).Minutes() / 60
}

// CalculateHours returns worked hours from the actual pair, 0 if either
// attendance event is missing.
func CalculateHours(n NormalizedWorkTime) float64 {
	return spanHours(n.ActualStart, n.ActualEnd)
}

// CalculateHoursFromScheduled returns the planned shift length, 0 if either
// scheduled bound is missing.
func CalculateHoursFromScheduled(n NormalizedWorkTime) float64 {
	return spanHours(n.ScheduledStart, n.ScheduledEnd)
}

// EffectiveHours is the single duration the payroll aggregator consumes:
// actual hours when both attendance events exist, otherwise the scheduled
// window as an estimate.
func EffectiveHours(n NormalizedWorkTime) float64 {
	if n.HasActualTime() {
		return CalculateHours(n)
	}
	return CalculateHoursFromScheduled(n)
}
