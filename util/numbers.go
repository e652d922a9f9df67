package util

import (
	"fmt"
	"math"
)

// RoundDecimal rounds displayed percentages. Only the precisions the
// table views actually use are supported.
func RoundDecimal(num float64, digits int) float64 {
	switch digits {
	case 0:
		return math.Round(num)
	case 2:
		return math.Round(num*100) / 100
	default:
		panic(fmt.Sprintf("RoundDecimal digits not supported: %d", digits))
	}
}
