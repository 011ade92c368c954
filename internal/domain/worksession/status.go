package worksession

// transitions is the complete legal transition table. Pairs absent from the
// table are illegal; callers must reject them before mutating a stored
// session.
var transitions = map[Status]map[Status]bool{
	StatusScheduled:  {StatusCheckedIn: true, StatusCancelled: true},
	StatusCheckedIn:  {StatusCheckedOut: true},
	StatusCheckedOut: {StatusCompleted: true},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal lifecycle transition.
func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// ToAttendanceStatus maps the canonical lifecycle onto the attendance view.
// Unknown input maps to not_started, the safe default.
func ToAttendanceStatus(status Status) AttendanceStatus {
	switch status {
	case StatusCheckedIn:
		return AttendanceCheckedIn
	case StatusCheckedOut, StatusCompleted:
		return AttendanceCheckedOut
	default:
		return AttendanceNotStarted
	}
}

// ToScheduleDisplay maps the canonical lifecycle onto the schedule view.
// The presence of a session implies a confirmed slot, so scheduled and
// checked_in both render as confirmed.
func ToScheduleDisplay(status Status) ScheduleDisplay {
	switch status {
	case StatusScheduled, StatusCheckedIn:
		return ScheduleConfirmed
	case StatusCheckedOut, StatusCompleted:
		return ScheduleCompleted
	case StatusCancelled:
		return ScheduleCancelled
	default:
		return ScheduleConfirmed
	}
}

// ApplicationToScheduleDisplay maps an application status onto the schedule
// view. Rejected applications are not shown on a schedule at all, which the
// empty string signals.
func ApplicationToScheduleDisplay(status ApplicationStatus) ScheduleDisplay {
	switch status {
	case ApplicationApplied, ApplicationPending:
		return ScheduleApplied
	case ApplicationConfirmed, ApplicationCancellationPending:
		return ScheduleConfirmed
	case ApplicationCompleted:
		return ScheduleCompleted
	case ApplicationCancelled:
		return ScheduleCancelled
	case ApplicationRejected:
		return ""
	default:
		return ""
	}
}

// CancellationRequest is the nested form a cancellation can take on older
// application records.
type CancellationRequest struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Application carries the fields the mapper needs from an application
// record. Cancellation occurs both as a top-level status and as a nested
// request object in stored data, so both must be checked.
type Application struct {
	ID                  string               `json:"id"`
	StaffID             string               `json:"staffId"`
	EventID             string               `json:"eventId"`
	Status              ApplicationStatus    `json:"status"`
	CancellationRequest *CancellationRequest `json:"cancellationRequest,omitempty"`
}

// IsCancellationPending reports whether a cancellation awaits approval in
// either representation.
func IsCancellationPending(app Application) bool {
	if app.Status == ApplicationCancellationPending {
		return true
	}
	return app.CancellationRequest != nil && app.CancellationRequest.Status == CancellationRequestPending
}
