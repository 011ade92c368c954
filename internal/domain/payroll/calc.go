package payroll

import (
	"math"
	"sort"
	"time"

	"shiftpay/internal/domain/worksession"
)

// CashAllowances sums the allowance amounts that are actually paid out.
// Provided-in-kind markers and non-positive amounts contribute nothing.
func CashAllowances(a Allowances) float64 {
	total := 0.0
	for _, amount := range []float64{a.Meal, a.Transportation, a.Accommodation, a.Bonus} {
		if amount > 0 {
			total += amount
		}
	}
	return total
}

// ComputeBreakdown settles one session against a wage profile. Negative
// rates are treated as zero. Negotiable and unknown wage types settle at 0
// pending manual entry; the staff summary flags them for review.
func ComputeBreakdown(session worksession.WorkSession, profile WageProfile, deduct DeductionFunc) Breakdown {
	normalized := session.Normalized()
	hours := worksession.EffectiveHours(normalized)

	basePay := 0.0
	if profile.Rate > 0 && hours > 0 {
		switch profile.Type {
		case WageHourly:
			basePay = math.Round(hours * profile.Rate)
		case WageDaily, WageMonthly:
			// Flat amount on attendance; hours are still tracked for reporting.
			basePay = profile.Rate
		}
	}

	allowancePay := CashAllowances(profile.Allowances)
	gross := basePay + allowancePay

	deductions := Deductions{}
	if deduct != nil {
		deductions = deduct(gross)
	}

	return Breakdown{
		SessionID:    session.ID,
		EventID:      session.EventID,
		StaffID:      session.StaffID,
		WorkDate:     session.WorkDate,
		HoursWorked:  hours,
		BasePay:      basePay,
		Allowances:   profile.Allowances,
		AllowancePay: allowancePay,
		Deductions:   deductions,
		TotalPay:     gross - deductions.Tax - deductions.Insurance,
		IsEstimate:   normalized.IsEstimate,
	}
}

// Calculate settles every session in range and rolls the results up per
// staff member and for the batch. It is pure: the same sessions, profiles
// and deduction policy always produce the same figures. Cancelled sessions
// are excluded; their scheduled window must not be paid as an estimate.
func Calculate(sessions []worksession.WorkSession, profiles map[string]WageProfile, rng DateRange, deduct DeductionFunc, now time.Time) Result {
	byStaff := map[string]*StaffSummary{}
	var order []string

	for _, session := range sessions {
		if session.Status == worksession.StatusCancelled {
			continue
		}
		if !rng.Contains(session.WorkDate) {
			continue
		}

		profile := profiles[session.StaffID]
		breakdown := ComputeBreakdown(session, profile, deduct)

		summary, ok := byStaff[session.StaffID]
		if !ok {
			summary = &StaffSummary{
				StaffID:   session.StaffID,
				StaffName: session.StaffName,
				WageType:  profile.Type,
			}
			byStaff[session.StaffID] = summary
			order = append(order, session.StaffID)
		}

		summary.TotalHours += breakdown.HoursWorked
		summary.TotalPay += breakdown.TotalPay
		summary.SessionCount++
		summary.HasEstimates = summary.HasEstimates || breakdown.IsEstimate
		summary.NeedsManualEntry = summary.NeedsManualEntry || needsManualEntry(profile.Type)
		summary.Breakdowns = append(summary.Breakdowns, breakdown)
	}

	sort.Strings(order)
	result := Result{GeneratedAt: now}
	for _, staffID := range order {
		summary := byStaff[staffID]
		result.Staff = append(result.Staff, *summary)
		result.Summary.TotalStaff++
		result.Summary.TotalHours += summary.TotalHours
		result.Summary.TotalPay += summary.TotalPay
	}
	return result
}

func needsManualEntry(wageType WageType) bool {
	switch wageType {
	case WageHourly, WageDaily, WageMonthly:
		return false
	default:
		return true
	}
}
