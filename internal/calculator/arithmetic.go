package calculator

import (
	"math"
	"strings"
)

const (
	BasicArithmetic = "basic-arithmetic"

	numberList   = "number"
	operatorList = "operation"
)

var operatorSymbols = map[string]string{
	"add":      "+",
	"subtract": "-",
	"multiply": "×",
	"divide":   "÷",
}

func arithmeticDefinitions() []*Definition {
	return []*Definition{{
		ID: BasicArithmetic,
		Lists: []ListField{
			{Name: numberList, Kind: NumberField},
			{Name: operatorList, Kind: TextField},
		},
		Compute: computeArithmetic,
		Format:  Single(Decimals(0, 10)),
		Label:   arithmeticExpression,
	}}
}

// computeArithmetic folds the numbers left to right with the operator that
// precedes each one. There is no precedence: 1 + 2 × 3 is 9.
func computeArithmetic(v Values) Result {
	numbers := v.List(numberList)
	operators := v.Choices(operatorList)
	if len(numbers) == 0 {
		return Scalar(Number(math.NaN()))
	}

	running := numbers[0]
	for i, op := range operators {
		if i+1 >= len(numbers) {
			break
		}
		value := numbers[i+1]
		switch op {
		case "add":
			running += value
		case "subtract":
			running -= value
		case "multiply":
			running *= value
		case "divide":
			if value == 0 {
				return Scalar(Fault("common.error_divide_by_zero"))
			}
			running /= value
		}
	}
	return Scalar(Number(running))
}

// arithmeticExpression renders the inputs as typed, e.g. "1 + 2 × 3".
func arithmeticExpression(_ *Localizer, _ *Definition, v Values) string {
	numbers := v.List(numberList)
	operators := v.Choices(operatorList)

	var b strings.Builder
	for i, n := range numbers {
		if i > 0 {
			symbol := ""
			if i-1 < len(operators) {
				symbol = operatorSymbols[operators[i-1]]
			}
			b.WriteString(" " + symbol + " ")
		}
		b.WriteString(plainNumber(n))
	}
	return b.String()
}
