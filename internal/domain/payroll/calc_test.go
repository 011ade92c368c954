package payroll

import (
	"testing"
	"time"

	"shiftpay/internal/domain/worksession"
)

func sessionAt(id, staffID, workDate, start, end string) worksession.WorkSession {
	session := worksession.WorkSession{
		ID:        id,
		EventID:   "e1",
		StaffID:   staffID,
		StaffName: "Staff " + staffID,
		WorkDate:  workDate,
		Status:    worksession.StatusCheckedOut,
	}
	if start != "" {
		t, _ := time.Parse(time.RFC3339, start)
		session.ActualStart = &t
	}
	if end != "" {
		t, _ := time.Parse(time.RFC3339, end)
		session.ActualEnd = &t
	}
	return session
}

func TestComputeBreakdownHourly(t *testing.T) {
	session := sessionAt("s1", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z")
	profile := WageProfile{StaffID: "a", Type: WageHourly, Rate: 18000}

	breakdown := ComputeBreakdown(session, profile, NoDeductions)
	if breakdown.HoursWorked != 5.0 {
		t.Fatalf("expected 5.0 hours, got %v", breakdown.HoursWorked)
	}
	if breakdown.BasePay != 90000 {
		t.Fatalf("expected base pay 90000, got %v", breakdown.BasePay)
	}
	if breakdown.TotalPay != 90000 {
		t.Fatalf("expected total pay 90000, got %v", breakdown.TotalPay)
	}
	if breakdown.IsEstimate {
		t.Fatal("expected actual-time breakdown not to be an estimate")
	}
}

func TestComputeBreakdownDailyIsFlat(t *testing.T) {
	session := sessionAt("s1", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-21T04:00:00Z")
	profile := WageProfile{StaffID: "a", Type: WageDaily, Rate: 150000}

	breakdown := ComputeBreakdown(session, profile, NoDeductions)
	if breakdown.BasePay != 150000 {
		t.Fatalf("expected flat daily pay 150000, got %v", breakdown.BasePay)
	}
	if breakdown.HoursWorked != 10.0 {
		t.Fatalf("expected hours still tracked, got %v", breakdown.HoursWorked)
	}
}

func TestComputeBreakdownNegotiableSettlesAtZero(t *testing.T) {
	session := sessionAt("s1", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z")
	profile := WageProfile{StaffID: "a", Type: WageNegotiable, Rate: 20000}

	breakdown := ComputeBreakdown(session, profile, NoDeductions)
	if breakdown.BasePay != 0 || breakdown.TotalPay != 0 {
		t.Fatalf("expected negotiable pay left at 0, got %+v", breakdown)
	}
}

func TestComputeBreakdownNegativeRateIgnored(t *testing.T) {
	session := sessionAt("s1", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z")
	profile := WageProfile{StaffID: "a", Type: WageHourly, Rate: -500}

	if breakdown := ComputeBreakdown(session, profile, NoDeductions); breakdown.BasePay != 0 {
		t.Fatalf("expected negative rate to settle at 0, got %v", breakdown.BasePay)
	}
}

func TestCashAllowancesSkipsProvidedInKind(t *testing.T) {
	allowances := Allowances{
		Meal:           ProvidedInKind,
		Transportation: 10000,
		Accommodation:  0,
		Bonus:          50000,
	}
	if cash := CashAllowances(allowances); cash != 60000 {
		t.Fatalf("expected 60000 cash allowances, got %v", cash)
	}
}

func TestComputeBreakdownAppliesDeductions(t *testing.T) {
	session := sessionAt("s1", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z")
	profile := WageProfile{
		StaffID:    "a",
		Type:       WageHourly,
		Rate:       20000,
		Allowances: Allowances{Meal: 10000},
	}
	deduct := FlatRates{TaxRate: 0.033, InsuranceRate: 0.009}.Func()

	breakdown := ComputeBreakdown(session, profile, deduct)
	// gross 110000: tax 3630, insurance 990
	if breakdown.Deductions.Tax != 3630 || breakdown.Deductions.Insurance != 990 {
		t.Fatalf("unexpected deductions: %+v", breakdown.Deductions)
	}
	if breakdown.TotalPay != 105380 {
		t.Fatalf("expected total pay 105380, got %v", breakdown.TotalPay)
	}
}

func TestCalculateBatchSummaryAdditivity(t *testing.T) {
	// Five staff, five shifts each, distinct hourly wages.
	var sessions []worksession.WorkSession
	profiles := map[string]WageProfile{}
	staff := []string{"a", "b", "c", "d", "e"}
	rates := map[string]float64{"a": 15000, "b": 16000, "c": 18000, "d": 20000, "e": 22000}
	hours := []int{5, 6, 7, 5, 6}

	expectedTotal := 0.0
	for _, staffID := range staff {
		profiles[staffID] = WageProfile{StaffID: staffID, Type: WageHourly, Rate: rates[staffID]}
		for day := 0; day < 5; day++ {
			date := time.Date(2026, 1, 20+day, 18, 0, 0, 0, time.UTC)
			end := date.Add(time.Duration(hours[day]) * time.Hour)
			sessions = append(sessions, sessionAt(
				staffID+"-"+date.Format("02"), staffID, date.Format("2006-01-02"),
				date.Format(time.RFC3339), end.Format(time.RFC3339),
			))
			expectedTotal += float64(hours[day]) * rates[staffID]
		}
	}

	result := Calculate(sessions, profiles, DateRange{}, NoDeductions, time.Now())
	if result.Summary.TotalStaff != 5 {
		t.Fatalf("expected 5 staff, got %d", result.Summary.TotalStaff)
	}
	if result.Summary.TotalPay != expectedTotal {
		t.Fatalf("expected total pay %v, got %v", expectedTotal, result.Summary.TotalPay)
	}

	var staffHours, staffPay float64
	for _, summary := range result.Staff {
		staffHours += summary.TotalHours
		staffPay += summary.TotalPay
	}
	if staffHours != result.Summary.TotalHours {
		t.Fatalf("summary hours %v != per-staff sum %v", result.Summary.TotalHours, staffHours)
	}
	if staffPay != result.Summary.TotalPay {
		t.Fatalf("summary pay %v != per-staff sum %v", result.Summary.TotalPay, staffPay)
	}
}

func TestCalculateFiltersDateRangeInclusive(t *testing.T) {
	sessions := []worksession.WorkSession{
		sessionAt("s1", "a", "2026-01-19", "2026-01-19T18:00:00Z", "2026-01-19T23:00:00Z"),
		sessionAt("s2", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z"),
		sessionAt("s3", "a", "2026-01-21", "2026-01-21T18:00:00Z", "2026-01-21T23:00:00Z"),
		sessionAt("s4", "a", "2026-01-22", "2026-01-22T18:00:00Z", "2026-01-22T23:00:00Z"),
	}
	profiles := map[string]WageProfile{"a": {StaffID: "a", Type: WageHourly, Rate: 10000}}

	result := Calculate(sessions, profiles, DateRange{From: "2026-01-20", To: "2026-01-21"}, NoDeductions, time.Now())
	if len(result.Staff) != 1 || result.Staff[0].SessionCount != 2 {
		t.Fatalf("expected 2 sessions in range, got %+v", result.Staff)
	}
}

func TestCalculateExcludesCancelledSessions(t *testing.T) {
	cancelled := worksession.WorkSession{
		ID: "s1", EventID: "e1", StaffID: "a", WorkDate: "2026-01-20",
		Status: worksession.StatusCancelled,
	}
	start := time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Hour)
	cancelled.ScheduledStart = &start
	cancelled.ScheduledEnd = &end

	profiles := map[string]WageProfile{"a": {StaffID: "a", Type: WageHourly, Rate: 10000}}
	result := Calculate([]worksession.WorkSession{cancelled}, profiles, DateRange{}, NoDeductions, time.Now())
	if result.Summary.TotalStaff != 0 || result.Summary.TotalPay != 0 {
		t.Fatalf("expected cancelled session to settle nothing, got %+v", result.Summary)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	sessions := []worksession.WorkSession{
		sessionAt("s1", "b", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-20T23:00:00Z"),
		sessionAt("s2", "a", "2026-01-20", "2026-01-20T18:00:00Z", "2026-01-21T01:00:00Z"),
	}
	profiles := map[string]WageProfile{
		"a": {StaffID: "a", Type: WageHourly, Rate: 15000},
		"b": {StaffID: "b", Type: WageHourly, Rate: 18000},
	}
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := Calculate(sessions, profiles, DateRange{}, NoDeductions, at)
	second := Calculate(sessions, profiles, DateRange{}, NoDeductions, at)
	if len(first.Staff) != len(second.Staff) {
		t.Fatalf("staff count differs between runs")
	}
	for i := range first.Staff {
		if first.Staff[i].StaffID != second.Staff[i].StaffID ||
			first.Staff[i].TotalPay != second.Staff[i].TotalPay {
			t.Fatalf("run %d differs: %+v vs %+v", i, first.Staff[i], second.Staff[i])
		}
	}
	if first.Summary != second.Summary {
		t.Fatalf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestEstimateSessionsFlaggedInSummary(t *testing.T) {
	scheduledOnly := worksession.WorkSession{
		ID: "s1", EventID: "e1", StaffID: "a", WorkDate: "2026-01-20",
		Status: worksession.StatusScheduled,
	}
	start := time.Date(2026, 1, 20, 19, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Hour)
	scheduledOnly.ScheduledStart = &start
	scheduledOnly.ScheduledEnd = &end

	profiles := map[string]WageProfile{"a": {StaffID: "a", Type: WageHourly, Rate: 10000}}
	result := Calculate([]worksession.WorkSession{scheduledOnly}, profiles, DateRange{}, NoDeductions, time.Now())
	if len(result.Staff) != 1 {
		t.Fatalf("expected one staff summary, got %d", len(result.Staff))
	}
	if !result.Staff[0].HasEstimates {
		t.Fatal("expected summary to flag estimated sessions")
	}
	if result.Staff[0].TotalHours != 7.0 {
		t.Fatalf("expected 7.0 estimated hours, got %v", result.Staff[0].TotalHours)
	}
}
