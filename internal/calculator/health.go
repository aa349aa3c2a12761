package calculator

const BMI = "bmi"

// BMI band upper bounds. They are fixed; the interpretation keys follow the
// same order with a final open-ended band.
var (
	bmiThresholds = []float64{18.5, 23, 25, 30}
	bmiBands      = []string{
		"bmi.interp_underweight",
		"bmi.interp_normal",
		"bmi.interp_overweight",
		"bmi.interp_obese1",
		"bmi.interp_obese2",
	}
)

func healthDefinitions() []*Definition {
	return []*Definition{{
		ID:      BMI,
		Inputs:  []Field{num("weight"), num("height")},
		Compute: computeBMI,
		Format: PerField(map[string]FormatFunc{
			resultField:      Decimals(2, 2),
			"interpretation": plainFormat,
		}),
		Outputs: []string{resultField, "interpretation"},
	}}
}

// computeBMI takes weight in kilograms and height in centimetres.
func computeBMI(v Values) Result {
	meters := v.Number("height") / 100
	bmi := v.Number("weight") / (meters * meters)
	return Composite(
		Out(resultField, Number(bmi)),
		Out("interpretation", Message(bmiBand(bmi), nil)),
	)
}

func bmiBand(bmi float64) string {
	for i, limit := range bmiThresholds {
		if bmi < limit {
			return bmiBands[i]
		}
	}
	return bmiBands[len(bmiBands)-1]
}
