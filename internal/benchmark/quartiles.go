package benchmark

import (
	"math"
	"sort"
)

// CalculateBenchmarkingSet aggregates the chosen PLI across the given
// companies into nearest-rank quartiles and an arm's-length range.
//
// Quartile indices are floor(n*0.25), floor(n*0.50), floor(n*0.75) over the
// ascending-sorted ratio list. Nearest-rank is deliberate: interpolated
// percentiles would change computed ranges against prior filings.
//
// Non-finite ratios are dropped before sorting. An empty valid set returns
// ErrInsufficientComparables rather than NaN quartiles.
func CalculateBenchmarkingSet(companies []ComparableCompany, pliType PLIType, testedPartyPLI *float64) (*BenchmarkingSet, error) {
	values := make([]float64, 0, len(companies))
	for _, c := range companies {
		v, err := c.AveragePLI.Value(pliType)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, ErrInsufficientComparables
	}

	sort.Float64s(values)
	n := len(values)

	q1 := values[int(math.Floor(float64(n)*0.25))]
	median := values[int(math.Floor(float64(n)*0.50))]
	q3 := values[int(math.Floor(float64(n)*0.75))]

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	set := &BenchmarkingSet{
		PLIType:         pliType,
		CompanyCount:    n,
		Quartile1:       q1,
		Median:          median,
		Quartile3:       q3,
		Mean:            sum / float64(n),
		Min:             values[0],
		Max:             values[n-1],
		ArmsLengthLower: q1,
		ArmsLengthUpper: q3,
	}

	if testedPartyPLI != nil {
		set.TestedPartyPLI = testedPartyPLI
		set.Classification = classify(*testedPartyPLI, q1, q3)
	}

	return set, nil
}

// classify applies the arm's-length-range test: a tested party strictly
// below Q1 is "below", strictly above Q3 is "above", otherwise "within".
func classify(pli, q1, q3 float64) RangeClassification {
	switch {
	case pli < q1:
		return ClassBelow
	case pli > q3:
		return ClassAbove
	default:
		return ClassWithin
	}
}
