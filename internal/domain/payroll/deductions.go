package payroll

import "math"

// FlatRates is the default deduction policy: independent flat percentages
// for tax and insurance, rounded to whole currency units per deduction.
type FlatRates struct {
	TaxRate       float64
	InsuranceRate float64
}

func (r FlatRates) Func() DeductionFunc {
	return func(gross float64) Deductions {
		if gross <= 0 {
			return Deductions{}
		}
		return Deductions{
			Tax:       math.Round(gross * r.TaxRate),
			Insurance: math.Round(gross * r.InsuranceRate),
		}
	}
}

// NoDeductions is the policy for events that settle gross.
func NoDeductions(float64) Deductions {
	return Deductions{}
}
