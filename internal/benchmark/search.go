package benchmark

import (
	"fmt"
	"strings"
)

// SearchComparables filters a company universe by the given criteria. All
// predicates are optional and ANDed together; each applied predicate is
// recorded as a human-readable string for audit traceability. Pagination is
// applied after filtering, with TotalFound reporting the pre-slice count.
func SearchComparables(universe []ComparableCompany, criteria SearchCriteria) *SearchResult {
	var applied []string
	filtered := make([]ComparableCompany, 0, len(universe))

	predicates := buildPredicates(criteria, &applied)

	for _, company := range universe {
		if matchesAll(company, predicates) {
			filtered = append(filtered, company)
		}
	}

	total := len(filtered)

	offset := criteria.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if criteria.Limit > 0 && offset+criteria.Limit < total {
		end = offset + criteria.Limit
	}

	return &SearchResult{
		Companies:      filtered[offset:end],
		TotalFound:     total,
		AppliedFilters: applied,
	}
}

type predicate func(ComparableCompany) bool

func matchesAll(c ComparableCompany, preds []predicate) bool {
	for _, p := range preds {
		if !p(c) {
			return false
		}
	}
	return true
}

func buildPredicates(criteria SearchCriteria, applied *[]string) []predicate {
	var preds []predicate

	if len(criteria.IndustryCodes) > 0 {
		codes := criteria.IndustryCodes
		preds = append(preds, func(c ComparableCompany) bool {
			for _, code := range codes {
				if strings.HasPrefix(c.IndustryCode, code) {
					return true
				}
			}
			return false
		})
		*applied = append(*applied, fmt.Sprintf("industry code in [%s]", strings.Join(codes, ", ")))
	}

	if criteria.MinRevenue != nil || criteria.MaxRevenue != nil {
		minRev, maxRev := criteria.MinRevenue, criteria.MaxRevenue
		preds = append(preds, func(c ComparableCompany) bool {
			rev := latestRevenue(c)
			if minRev != nil && rev < *minRev {
				return false
			}
			if maxRev != nil && rev > *maxRev {
				return false
			}
			return true
		})
		switch {
		case minRev != nil && maxRev != nil:
			*applied = append(*applied, fmt.Sprintf("revenue between %.0f and %.0f", *minRev, *maxRev))
		case minRev != nil:
			*applied = append(*applied, fmt.Sprintf("revenue >= %.0f", *minRev))
		default:
			*applied = append(*applied, fmt.Sprintf("revenue <= %.0f", *maxRev))
		}
	}

	if criteria.FunctionalProfile != nil {
		profile := *criteria.FunctionalProfile
		preds = append(preds, func(c ComparableCompany) bool {
			return c.FunctionalProfile == profile
		})
		*applied = append(*applied, fmt.Sprintf("functional profile = %s", profile))
	}

	if criteria.MaxRPTPercent != nil {
		threshold := *criteria.MaxRPTPercent
		preds = append(preds, func(c ComparableCompany) bool {
			return c.RelatedPartyTxnPct <= threshold
		})
		*applied = append(*applied, fmt.Sprintf("related party transactions <= %.1f%% of revenue", threshold))
	}

	if criteria.ExcludePersistentLosses {
		preds = append(preds, func(c ComparableCompany) bool {
			return !c.PersistentLosses
		})
		*applied = append(*applied, "persistent loss-makers excluded")
	}

	if criteria.MinYearsData > 0 {
		minYears := criteria.MinYearsData
		preds = append(preds, func(c ComparableCompany) bool {
			return c.YearsContinuousData >= minYears
		})
		*applied = append(*applied, fmt.Sprintf("at least %d years of continuous data", minYears))
	}

	if criteria.ActiveOnly {
		preds = append(preds, func(c ComparableCompany) bool {
			return c.Active
		})
		*applied = append(*applied, "active companies only")
	}

	return preds
}

// latestRevenue reads revenue from the most recent fiscal year on record.
// Financials are ordered most recent first.
func latestRevenue(c ComparableCompany) float64 {
	if len(c.Financials) == 0 {
		return 0
	}
	return c.Financials[0].Revenue
}
