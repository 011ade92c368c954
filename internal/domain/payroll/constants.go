package payroll

// WageType selects how base pay is derived from worked hours.
type WageType string

const (
	WageHourly     WageType = "hourly"
	WageDaily      WageType = "daily"
	WageMonthly    WageType = "monthly"
	WageNegotiable WageType = "negotiable"
	WageOther      WageType = "other"
)

// ProvidedInKind marks an allowance that is supplied directly (a meal, a
// room) rather than paid out. It contributes nothing to cash pay but is
// surfaced to clients as a benefit.
const ProvidedInKind = -1

// MaxChunkMutations bounds one transactional write. The backing store
// enforces a per-transaction mutation ceiling; chunks never split one staff
// member's rows.
const MaxChunkMutations = 500
