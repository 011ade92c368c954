package payroll

import "time"

// Allowances are the four supplementary payments. An amount of
// ProvidedInKind means the benefit is supplied directly instead of paid.
type Allowances struct {
	Meal           float64 `json:"meal"`
	Transportation float64 `json:"transportation"`
	Accommodation  float64 `json:"accommodation"`
	Bonus          float64 `json:"bonus"`
}

// Deductions are the amounts withheld from gross pay. How they are computed
// is the deduction policy's business, not this package's.
type Deductions struct {
	Tax       float64 `json:"tax"`
	Insurance float64 `json:"insurance"`
}

// DeductionFunc is the injected deduction policy.
type DeductionFunc func(gross float64) Deductions

// WageProfile is a staff member's pay terms for one event.
type WageProfile struct {
	StaffID    string     `json:"staffId"`
	Type       WageType   `json:"wageType"`
	Rate       float64    `json:"rate"`
	Allowances Allowances `json:"allowances"`
}

// Breakdown is the per-session settlement attached to a work session once
// aggregation has run.
type Breakdown struct {
	SessionID    string     `json:"sessionId"`
	EventID      string     `json:"eventId"`
	StaffID      string     `json:"staffId"`
	WorkDate     string     `json:"workDate"`
	HoursWorked  float64    `json:"hoursWorked"`
	BasePay      float64    `json:"basePay"`
	Allowances   Allowances `json:"allowances"`
	AllowancePay float64    `json:"allowancePay"`
	Deductions   Deductions `json:"deductions"`
	TotalPay     float64    `json:"totalPay"`
	IsEstimate   bool       `json:"isEstimate"`
	IsPaid       bool       `json:"isPaid"`
}

// DateRange filters sessions by work date, inclusive on both ends. Dates
// are canonical yyyy-MM-dd strings, so plain string comparison orders them.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Contains reports whether a work date falls inside the range. Empty bounds
// are open.
func (r DateRange) Contains(workDate string) bool {
	if r.From != "" && workDate < r.From {
		return false
	}
	if r.To != "" && workDate > r.To {
		return false
	}
	return true
}

// StaffSummary aggregates one staff member's sessions over the range.
type StaffSummary struct {
	StaffID          string      `json:"staffId"`
	StaffName        string      `json:"staffName"`
	WageType         WageType    `json:"wageType"`
	TotalHours       float64     `json:"totalHours"`
	TotalPay         float64     `json:"totalPay"`
	SessionCount     int         `json:"sessionCount"`
	HasEstimates     bool        `json:"hasEstimates"`
	NeedsManualEntry bool        `json:"needsManualEntry"`
	Breakdowns       []Breakdown `json:"breakdowns"`
}

// Summary is the batch-level roll-up.
type Summary struct {
	TotalStaff int     `json:"totalStaff"`
	TotalHours float64 `json:"totalHours"`
	TotalPay   float64 `json:"totalPay"`
}

// Result is the aggregator's output for one event and date range.
type Result struct {
	Staff       []StaffSummary `json:"staff"`
	Summary     Summary        `json:"summary"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// RunReport tells the caller exactly which staff members were committed by
// a payroll run, so a partial failure can be resumed safely.
type RunReport struct {
	EventID        string   `json:"eventId"`
	Result         Result   `json:"result"`
	CommittedStaff []string `json:"committedStaff"`
	RemainingStaff []string `json:"remainingStaff"`
}
