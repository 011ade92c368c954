package dispute

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Dispute is a staff member's contest of a computed session. Resolved
// disputes are kept as audit records, never deleted.
type Dispute struct {
	ID             string     `json:"id"`
	SessionID      string     `json:"sessionId"`
	EventID        string     `json:"eventId"`
	StaffID        string     `json:"staffId"`
	Reason         string     `json:"reason"`
	Status         Status     `json:"status"`
	ResolutionNote string     `json:"resolutionNote,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

func (d Dispute) IsResolved() bool {
	return d.Status == StatusApproved || d.Status == StatusRejected
}
