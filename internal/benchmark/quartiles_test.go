package benchmark

import (
	"math"
	"testing"
)

func companiesWithOpOC(values ...float64) []ComparableCompany {
	companies := make([]ComparableCompany, len(values))
	for i, v := range values {
		companies[i] = ComparableCompany{AveragePLI: PLICalculated{OpOC: v}}
	}
	return companies
}

func TestNearestRankQuartiles(t *testing.T) {
	companies := companiesWithOpOC(0.10, 0.18, 0.19, 0.20, 0.25)

	set, err := CalculateBenchmarkingSet(companies, PLIOpOC, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// n=5: indices floor(1.25)=1, floor(2.5)=2, floor(3.75)=3
	if set.Quartile1 != 0.18 {
		t.Errorf("Quartile1 = %v, want 0.18", set.Quartile1)
	}
	if set.Median != 0.19 {
		t.Errorf("Median = %v, want 0.19", set.Median)
	}
	if set.Quartile3 != 0.20 {
		t.Errorf("Quartile3 = %v, want 0.20", set.Quartile3)
	}
	if set.Min != 0.10 || set.Max != 0.25 {
		t.Errorf("Min/Max = %v/%v, want 0.10/0.25", set.Min, set.Max)
	}
	if set.ArmsLengthLower != set.Quartile1 || set.ArmsLengthUpper != set.Quartile3 {
		t.Error("arm's length range must equal [Q1, Q3]")
	}
}

func TestQuartileMonotonicity(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
	}{
		{"single value", []float64{0.42}},
		{"two values", []float64{0.30, 0.10}},
		{"unsorted input", []float64{0.9, 0.1, 0.5, 0.3, 0.7, 0.2}},
		{"duplicates", []float64{0.2, 0.2, 0.2, 0.2}},
		{"negatives", []float64{-0.5, -0.1, 0.0, 0.3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := CalculateBenchmarkingSet(companiesWithOpOC(tc.values...), PLIOpOC, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !(set.Min <= set.Quartile1 && set.Quartile1 <= set.Median &&
				set.Median <= set.Quartile3 && set.Quartile3 <= set.Max) {
				t.Errorf("monotonicity violated: min=%v q1=%v median=%v q3=%v max=%v",
					set.Min, set.Quartile1, set.Median, set.Quartile3, set.Max)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	companies := companiesWithOpOC(0.10, 0.18, 0.19, 0.20, 0.25)

	cases := []struct {
		name string
		pli  float64
		want RangeClassification
	}{
		{"below Q1", 0.15, ClassBelow},
		{"exactly Q1", 0.18, ClassWithin},
		{"inside the range", 0.19, ClassWithin},
		{"exactly Q3", 0.20, ClassWithin},
		{"above Q3", 0.21, ClassAbove},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := CalculateBenchmarkingSet(companies, PLIOpOC, &tc.pli)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.Classification != tc.want {
				t.Errorf("classification = %q, want %q", set.Classification, tc.want)
			}
			if set.TestedPartyPLI == nil || *set.TestedPartyPLI != tc.pli {
				t.Error("tested party PLI must echo the input")
			}
		})
	}
}

func TestInsufficientComparables(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		_, err := CalculateBenchmarkingSet(nil, PLIOpOC, nil)
		if err != ErrInsufficientComparables {
			t.Errorf("got %v, want ErrInsufficientComparables", err)
		}
	})

	t.Run("only non-finite values", func(t *testing.T) {
		companies := companiesWithOpOC(math.NaN(), math.Inf(1))
		_, err := CalculateBenchmarkingSet(companies, PLIOpOC, nil)
		if err != ErrInsufficientComparables {
			t.Errorf("got %v, want ErrInsufficientComparables", err)
		}
	})
}

func TestNonFiniteValuesDropped(t *testing.T) {
	companies := companiesWithOpOC(0.10, math.NaN(), 0.20, math.Inf(-1), 0.30)

	set, err := CalculateBenchmarkingSet(companies, PLIOpOC, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.CompanyCount != 3 {
		t.Errorf("CompanyCount = %d, want 3 after dropping non-finite values", set.CompanyCount)
	}
	for _, v := range []float64{set.Quartile1, set.Median, set.Quartile3, set.Mean} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("statistic %v leaked a non-finite value", v)
		}
	}
}

func TestUnknownPLITypeRejected(t *testing.T) {
	_, err := CalculateBenchmarkingSet(companiesWithOpOC(0.1), "cashFlowMargin", nil)
	if err != ErrUnknownPLIType {
		t.Errorf("got %v, want ErrUnknownPLIType", err)
	}
}
