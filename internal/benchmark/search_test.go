package benchmark

import (
	"strings"
	"testing"
)

func testUniverse() []ComparableCompany {
	return []ComparableCompany{
		{
			RegistrationID:    "A",
			IndustryCode:      "62011",
			FunctionalProfile: ProfileServices,
			Financials:        []CompanyFinancials{{Revenue: 1_000_000}},
			RelatedPartyTxnPct: 5, YearsContinuousData: 3, Active: true,
		},
		{
			RegistrationID:    "B",
			IndustryCode:      "62013",
			FunctionalProfile: ProfileServices,
			Financials:        []CompanyFinancials{{Revenue: 5_000_000}},
			RelatedPartyTxnPct: 30, YearsContinuousData: 3, Active: true,
		},
		{
			RegistrationID:    "C",
			IndustryCode:      "29301",
			FunctionalProfile: ProfileManufacturer,
			Financials:        []CompanyFinancials{{Revenue: 8_000_000}},
			RelatedPartyTxnPct: 2, YearsContinuousData: 5, Active: true,
		},
		{
			RegistrationID:    "D",
			IndustryCode:      "62020",
			FunctionalProfile: ProfileServices,
			Financials:        []CompanyFinancials{{Revenue: 2_000_000}},
			RelatedPartyTxnPct: 8, YearsContinuousData: 1, Active: true,
			PersistentLosses: true,
		},
		{
			RegistrationID:    "E",
			IndustryCode:      "62011",
			FunctionalProfile: ProfileServices,
			Financials:        []CompanyFinancials{{Revenue: 3_000_000}},
			RelatedPartyTxnPct: 6, YearsContinuousData: 4, Active: false,
		},
	}
}

func ids(result *SearchResult) []string {
	out := make([]string, len(result.Companies))
	for i, c := range result.Companies {
		out[i] = c.RegistrationID
	}
	return out
}

func TestSearchNoCriteriaReturnsAll(t *testing.T) {
	result := SearchComparables(testUniverse(), SearchCriteria{})

	if result.TotalFound != 5 {
		t.Errorf("TotalFound = %d, want 5", result.TotalFound)
	}
	if len(result.AppliedFilters) != 0 {
		t.Errorf("no criteria but filters recorded: %v", result.AppliedFilters)
	}
}

func TestSearchFilters(t *testing.T) {
	minRev := 2_000_000.0
	maxRev := 6_000_000.0
	maxRPT := 10.0
	services := ProfileServices

	cases := []struct {
		name     string
		criteria SearchCriteria
		want     []string
	}{
		{
			"industry code prefix",
			SearchCriteria{IndustryCodes: []string{"620"}},
			[]string{"A", "B", "D", "E"},
		},
		{
			"revenue band",
			SearchCriteria{MinRevenue: &minRev, MaxRevenue: &maxRev},
			[]string{"B", "D", "E"},
		},
		{
			"functional profile",
			SearchCriteria{FunctionalProfile: &services},
			[]string{"A", "B", "D", "E"},
		},
		{
			"related party ceiling",
			SearchCriteria{MaxRPTPercent: &maxRPT},
			[]string{"A", "C", "D", "E"},
		},
		{
			"exclude persistent losses",
			SearchCriteria{ExcludePersistentLosses: true},
			[]string{"A", "B", "C", "E"},
		},
		{
			"minimum years of data",
			SearchCriteria{MinYearsData: 4},
			[]string{"C", "E"},
		},
		{
			"active only",
			SearchCriteria{ActiveOnly: true},
			[]string{"A", "B", "C", "D"},
		},
		{
			"all criteria ANDed",
			SearchCriteria{
				IndustryCodes:           []string{"620"},
				FunctionalProfile:       &services,
				MaxRPTPercent:           &maxRPT,
				ExcludePersistentLosses: true,
				ActiveOnly:              true,
			},
			[]string{"A"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := SearchComparables(testUniverse(), tc.criteria)

			got := ids(result)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
			if result.TotalFound != len(tc.want) {
				t.Errorf("TotalFound = %d, want %d", result.TotalFound, len(tc.want))
			}
		})
	}
}

func TestSearchAuditTrail(t *testing.T) {
	maxRPT := 25.0
	result := SearchComparables(testUniverse(), SearchCriteria{
		IndustryCodes:           []string{"620", "293"},
		MaxRPTPercent:           &maxRPT,
		ExcludePersistentLosses: true,
	})

	if len(result.AppliedFilters) != 3 {
		t.Fatalf("AppliedFilters = %v, want 3 entries", result.AppliedFilters)
	}
	joined := strings.Join(result.AppliedFilters, "; ")
	for _, fragment := range []string{"industry code", "related party", "loss-makers excluded"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("audit trail %q missing %q", joined, fragment)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	universe := testUniverse()

	t.Run("limit slices after filtering", func(t *testing.T) {
		result := SearchComparables(universe, SearchCriteria{Limit: 2})
		if len(result.Companies) != 2 {
			t.Errorf("page size = %d, want 2", len(result.Companies))
		}
		if result.TotalFound != 5 {
			t.Errorf("TotalFound = %d, want pre-slice count 5", result.TotalFound)
		}
	})

	t.Run("offset beyond total yields empty page", func(t *testing.T) {
		result := SearchComparables(universe, SearchCriteria{Offset: 10, Limit: 2})
		if len(result.Companies) != 0 {
			t.Errorf("page size = %d, want 0", len(result.Companies))
		}
		if result.TotalFound != 5 {
			t.Errorf("TotalFound = %d, want 5", result.TotalFound)
		}
	})

	t.Run("offset walks the filtered list", func(t *testing.T) {
		result := SearchComparables(universe, SearchCriteria{Offset: 3})
		got := ids(result)
		if len(got) != 2 || got[0] != "D" || got[1] != "E" {
			t.Errorf("got %v, want [D E]", got)
		}
	})
}

func TestSampleUniverseIsEnriched(t *testing.T) {
	for _, c := range SampleUniverse() {
		if len(c.PLIByYear) != len(c.Financials) {
			t.Errorf("%s: PLIByYear not derived", c.RegistrationID)
		}
		if c.AveragePLI == (PLICalculated{}) && len(c.Financials) > 0 {
			t.Errorf("%s: AveragePLI not derived", c.RegistrationID)
		}
	}
}
