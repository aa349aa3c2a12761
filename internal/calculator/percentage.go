package calculator

import "math"

const (
	Percentage = "percentage"

	discountSummary = "discount-summary"
)

func percentageDefinitions() []*Definition {
	money := Decimals(2, 2)
	return []*Definition{{
		ID:      Percentage,
		Inputs:  []Field{num("val1"), num("val2"), choice(modeField)},
		Compute: computePercentage,
		Format: PerField(map[string]FormatFunc{
			resultField:        Decimals(0, 2),
			"discounted-price": money,
			"saved-amount":     money,
		}),
		Outputs: []string{resultField, discountSummary, "discounted-price", "saved-amount"},
	}}
}

// computePercentage supports three modes:
//
//	percent_of:   val1 % of val2
//	what_percent: val1 as a percentage of val2
//	discount:     val2 % off a price of val1
func computePercentage(v Values) Result {
	x, y := v.Number("val1"), v.Number("val2")
	switch v.Text(modeField) {
	case "percent_of":
		return Composite(
			Out(resultField, Number(x/100*y)),
			Out(discountSummary, Flag(false)),
		)
	case "what_percent":
		return Composite(
			Out(resultField, Percent(x/y*100)),
			Out(discountSummary, Flag(false)),
		)
	case "discount":
		saved := y / 100 * x
		return Composite(
			Out(resultField, Message("percentage.result_discount", map[string]string{"val2": plainNumber(y)})),
			Out(discountSummary, Flag(true)),
			Out("discounted-price", Number(x-saved)),
			Out("saved-amount", Number(saved)),
		)
	default:
		return Composite(Out(resultField, Number(math.NaN())))
	}
}
