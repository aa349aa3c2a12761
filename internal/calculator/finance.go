package calculator

import (
	"math"
	"strconv"
	"strings"
)

const (
	Interest = "interest"
	Loan     = "loan"

	loanSummary = "loan-summary"
)

// compoundingPeriods maps the named compounding choices to periods per year.
var compoundingPeriods = map[string]float64{
	"annually":     1,
	"semiannually": 2,
	"quarterly":    4,
	"monthly":      12,
	"daily":        365,
}

func financeDefinitions() []*Definition {
	money := Decimals(2, 2)
	return []*Definition{
		{
			ID: Interest,
			Inputs: []Field{
				num("principal"),
				num("rate"),
				num("years"),
				choice(modeField),
				choice("compounding"),
			},
			Compute: computeInterest,
			Format:  Single(money),
		},
		{
			ID:      Loan,
			Inputs:  []Field{num("amount"), num("rate"), num("term")},
			Compute: computeLoan,
			Format: PerField(map[string]FormatFunc{
				"monthly_payment": money,
				"total_payment":   money,
				"total_interest":  money,
			}),
			Outputs: []string{"monthly_payment", "total_payment", "total_interest", loanSummary},
		},
	}
}

// computeInterest returns the final amount for a principal at an annual
// percentage rate over a number of years. Compound mode also yields the
// cumulative amount at every whole year, plus the final fractional year.
func computeInterest(v Values) Result {
	principal := v.Number("principal")
	rate := v.Number("rate") / 100
	years := v.Number("years")

	switch v.Text(modeField) {
	case "simple":
		return Scalar(Number(principal * (1 + rate*years)))
	case "compound":
		n, ok := periodsPerYear(v.Text("compounding"))
		if !ok {
			return Scalar(Number(math.NaN()))
		}
		amount := func(t float64) float64 {
			return principal * math.Pow(1+rate/n, n*t)
		}
		return Scalar(Number(amount(years))).WithSeries(growthSeries(years, amount))
	default:
		return Scalar(Number(math.NaN()))
	}
}

// periodsPerYear accepts a named compounding choice or a positive count.
func periodsPerYear(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, ok := compoundingPeriods[s]; ok {
		return n, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// maxSeriesYears bounds the number of points handed to a series renderer.
const maxSeriesYears = 1000

func growthSeries(years float64, amount func(float64) float64) Series {
	var s Series
	if math.IsNaN(years) || years < 0 || years > maxSeriesYears {
		return s
	}
	whole := math.Floor(years)
	for y := 0.0; y <= whole; y++ {
		s.Labels = append(s.Labels, plainNumber(y))
		s.Values = append(s.Values, amount(y))
	}
	if years != whole {
		s.Labels = append(s.Labels, plainNumber(years))
		s.Values = append(s.Values, amount(years))
	}
	return s
}

// computeLoan amortizes amount over term years of monthly payments at an
// annual percentage rate. A zero rate splits the amount evenly.
func computeLoan(v Values) Result {
	amount := v.Number("amount")
	payments := v.Number("term") * 12
	monthlyRate := v.Number("rate") / 100 / 12

	var monthly float64
	if monthlyRate == 0 {
		monthly = amount / payments
	} else {
		monthly = amount * monthlyRate / (1 - math.Pow(1+monthlyRate, -payments))
	}
	total := monthly * payments

	return Composite(
		Out("monthly_payment", Number(monthly)),
		Out("total_payment", Number(total)),
		Out("total_interest", Number(total-amount)),
		Out(loanSummary, Flag(!math.IsNaN(monthly) && !math.IsInf(monthly, 0))),
	)
}
