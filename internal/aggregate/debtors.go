package aggregate

import (
	"sort"

	"finadmin/pkg/models"
)

// OthersLabel names the residual bucket of a top-N series.
const OthersLabel = "Others"

// residuals at or below this are float noise, not a real bucket
const residualEpsilon = 1e-9

// TopDebtorSeries builds a distribution chart of the n largest debtors by
// outstanding amount plus an Others bucket holding total minus their sum.
// The input order is not trusted and the input slice is not modified.
// Others is only added when the residual is strictly positive, so the parts
// never exceed the declared whole.
func TopDebtorSeries(debtors []models.TopDebtor, n int, total float64) []Slice {
	if n <= 0 || len(debtors) == 0 {
		return []Slice{}
	}

	ranked := make([]models.TopDebtor, len(debtors))
	copy(ranked, debtors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Outstanding > ranked[j].Outstanding
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	series := make([]Slice, 0, len(ranked)+1)
	var top float64
	for _, d := range ranked {
		series = append(series, Slice{Label: d.ClientEmail, Value: d.Outstanding})
		top += d.Outstanding
	}
	if others := total - top; others > residualEpsilon {
		series = append(series, Slice{Label: OthersLabel, Value: others})
	}
	return series
}
