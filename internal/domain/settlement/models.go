package settlement

import "time"

type BatchStatus string

const (
	BatchOpen   BatchStatus = "open"
	BatchLocked BatchStatus = "locked"
)

// Batch is one settlement round for an event and date range. Locking is
// one-way; a locked batch never reopens.
type Batch struct {
	ID         string      `json:"id"`
	EventID    string      `json:"eventId"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Status     BatchStatus `json:"status"`
	TotalStaff int         `json:"totalStaff"`
	TotalPay   float64     `json:"totalPay"`
	CreatedAt  time.Time   `json:"createdAt"`
	LockedAt   *time.Time  `json:"lockedAt,omitempty"`
}

func (b Batch) IsLocked() bool {
	return b.Status == BatchLocked
}

// Row is one staff member's line in a batch. The staff member (or a manager
// on their behalf) confirms the amount before the batch can be finalized.
type Row struct {
	ID             string     `json:"id"`
	BatchID        string     `json:"batchId"`
	StaffID        string     `json:"staffId"`
	StaffName      string     `json:"staffName"`
	TotalHours     float64    `json:"totalHours"`
	TotalPay       float64    `json:"totalPay"`
	FinalConfirmed bool       `json:"finalConfirmed"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`
}
