package worksession

import "time"

// WorkSession is one staff member's record of a single shift: one row per
// (eventId, staffId, workDate).
type WorkSession struct {
	ID             string     `json:"id"`
	EventID        string     `json:"eventId"`
	StaffID        string     `json:"staffId"`
	StaffName      string     `json:"staffName"`
	Role           string     `json:"role"`
	WorkDate       string     `json:"workDate"`
	Status         Status     `json:"status"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
	ActualStart    *time.Time `json:"actualStart"`
	ActualEnd      *time.Time `json:"actualEnd"`
	HoursWorked    float64    `json:"hoursWorked"`
	IsEstimate     bool       `json:"isEstimate"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Normalized returns the canonical time record for this session.
func (s WorkSession) Normalized() NormalizedWorkTime {
	n := NormalizedWorkTime{
		ScheduledStart: s.ScheduledStart,
		ScheduledEnd:   s.ScheduledEnd,
		ActualStart:    s.ActualStart,
		ActualEnd:      s.ActualEnd,
	}
	n.IsEstimate = n.ActualStart == nil || n.ActualEnd == nil
	return n
}

// RefreshDerived recomputes the cached duration fields from the timestamps.
// Call after any timestamp mutation, before persisting.
func (s *WorkSession) RefreshDerived() {
	n := s.Normalized()
	s.HoursWorked = EffectiveHours(n)
	s.IsEstimate = n.IsEstimate
}

// AmendedTimes carries a dispute approver's corrections to the actual
// attendance pair. Nil fields are left untouched.
type AmendedTimes struct {
	ActualStart *time.Time `json:"actualStart"`
	ActualEnd   *time.Time `json:"actualEnd"`
}

// CreateInput is what the service needs to open a session when a staff
// assignment is confirmed.
type CreateInput struct {
	EventID        string
	StaffID        string
	StaffName      string
	Role           string
	WorkDate       string
	ScheduledStart any
	ScheduledEnd   any
}
