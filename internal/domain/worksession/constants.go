package worksession

// Status is the canonical work-session lifecycle. Every display vocabulary
// is derived from it; it is the only status that is ever stored.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ApplicationStatus is the parallel lifecycle of the application that
// produced a session. It is stored on applications, not on sessions.
type ApplicationStatus string

const (
	ApplicationApplied             ApplicationStatus = "applied"
	ApplicationPending             ApplicationStatus = "pending"
	ApplicationConfirmed           ApplicationStatus = "confirmed"
	ApplicationCancellationPending ApplicationStatus = "cancellation_pending"
	ApplicationCompleted           ApplicationStatus = "completed"
	ApplicationRejected            ApplicationStatus = "rejected"
	ApplicationCancelled           ApplicationStatus = "cancelled"
)

// AttendanceStatus is the display vocabulary of attendance screens.
type AttendanceStatus string

const (
	AttendanceNotStarted AttendanceStatus = "not_started"
	AttendanceCheckedIn  AttendanceStatus = "checked_in"
	AttendanceCheckedOut AttendanceStatus = "checked_out"
)

// ScheduleDisplay is the display vocabulary of schedule views.
type ScheduleDisplay string

const (
	ScheduleApplied   ScheduleDisplay = "applied"
	ScheduleConfirmed ScheduleDisplay = "confirmed"
	ScheduleCompleted ScheduleDisplay = "completed"
	ScheduleCancelled ScheduleDisplay = "cancelled"
)

const CancellationRequestPending = "pending"
