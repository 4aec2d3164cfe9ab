// Package benchmark implements comparable-company search and the PLI
// (Profit Level Indicator) statistics used for arm's-length-range testing.
package benchmark

import "errors"

// PLIType identifies one of the five supported profit level indicators.
type PLIType string

const (
	PLIOpOC  PLIType = "opOc"       // operating profit / operating cost
	PLIOpOR  PLIType = "opOr"       // operating profit / operating revenue
	PLIOpTA  PLIType = "opTa"       // operating profit / total assets
	PLIOpCE  PLIType = "opCe"       // operating profit / capital employed
	PLIBerry PLIType = "berryRatio" // gross profit / value-added expenses
)

// FunctionalProfile classifies what a comparable company does.
type FunctionalProfile string

const (
	ProfileManufacturer FunctionalProfile = "MANUFACTURER"
	ProfileDistributor  FunctionalProfile = "DISTRIBUTOR"
	ProfileServices     FunctionalProfile = "SERVICE_PROVIDER"
	ProfileRnD          FunctionalProfile = "RND_SERVICES"
	ProfileTrader       FunctionalProfile = "TRADER"
)

// Errors returned by the benchmarking engine
var (
	ErrInsufficientComparables = errors.New("insufficient comparables: no valid PLI values in filtered set")
	ErrUnknownPLIType          = errors.New("unknown PLI type")
)

// CompanyFinancials is one company's income-statement/balance-sheet snapshot
// for one fiscal year. Amounts are in INR. Immutable once recorded.
type CompanyFinancials struct {
	FiscalYear       string  `json:"fiscalYear"`
	Revenue          float64 `json:"revenue"`
	OperatingRevenue float64 `json:"operatingRevenue"`
	TotalCost        float64 `json:"totalCost"`
	OperatingCost    float64 `json:"operatingCost"`
	GrossProfit      float64 `json:"grossProfit"`
	OperatingProfit  float64 `json:"operatingProfit"`
	NetProfit        float64 `json:"netProfit"`
	TotalAssets      float64 `json:"totalAssets"`
	FixedAssets      float64 `json:"fixedAssets"`
	CurrentAssets    float64 `json:"currentAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	Equity           float64 `json:"equity"`
	EmployeeCost     float64 `json:"employeeCost"`
	Depreciation     float64 `json:"depreciation"`
	InterestExpense  float64 `json:"interestExpense"`
	ExportRevenue    float64 `json:"exportRevenue,omitempty"`
	ImportCost       float64 `json:"importCost,omitempty"`
	RnDExpense       float64 `json:"rndExpense,omitempty"`
}

// PLICalculated holds the five ratios derived from one CompanyFinancials.
// A ratio is exactly 0 when its denominator is zero or negative.
type PLICalculated struct {
	OpOC       float64 `json:"opOc"`
	OpOR       float64 `json:"opOr"`
	OpTA       float64 `json:"opTa"`
	OpCE       float64 `json:"opCe"`
	BerryRatio float64 `json:"berryRatio"`
}

// ComparableCompany is one candidate company in the comparables universe,
// populated from the external data source at query time and read-only within
// a single request.
type ComparableCompany struct {
	RegistrationID      string              `json:"registrationId"`
	Name                string              `json:"name"`
	IndustryCode        string              `json:"industryCode"` // NIC classification code
	FunctionalProfile   FunctionalProfile   `json:"functionalProfile"`
	Financials          []CompanyFinancials `json:"financials"` // most recent first
	PLIByYear           []PLICalculated     `json:"pliByYear"`
	AveragePLI          PLICalculated       `json:"averagePli"`
	RelatedPartyTxnPct  float64             `json:"relatedPartyTransactions"` // % of revenue
	PersistentLosses    bool                `json:"persistentLosses"`
	YearsContinuousData int                 `json:"yearsContinuousData"`
	Active              bool                `json:"active"`
}

// SearchCriteria holds the optional, ANDed filter predicates plus pagination.
type SearchCriteria struct {
	IndustryCodes      []string           `json:"industryCodes,omitempty"` // prefix match
	MinRevenue         *float64           `json:"minRevenue,omitempty"`
	MaxRevenue         *float64           `json:"maxRevenue,omitempty"`
	FunctionalProfile  *FunctionalProfile `json:"functionalProfile,omitempty"`
	MaxRPTPercent      *float64           `json:"maxRptPercent,omitempty"`
	ExcludePersistentLosses bool          `json:"excludePersistentLosses,omitempty"`
	MinYearsData       int                `json:"minYearsData,omitempty"`
	ActiveOnly         bool               `json:"activeOnly,omitempty"`
	Offset             int                `json:"offset,omitempty"`
	Limit              int                `json:"limit,omitempty"`
}

// SearchResult is the paginated outcome of a comparable search.
type SearchResult struct {
	Companies      []ComparableCompany `json:"companies"`
	TotalFound     int                 `json:"totalFound"`
	AppliedFilters []string            `json:"appliedFilters"`
}

// RangeClassification places a tested-party PLI relative to [Q1, Q3].
type RangeClassification string

const (
	ClassBelow  RangeClassification = "below"
	ClassWithin RangeClassification = "within"
	ClassAbove  RangeClassification = "above"
)

// BenchmarkingSet is the statistical aggregation over a filtered comparable
// list: nearest-rank quartiles, mean, min, max, and the arm's-length range.
type BenchmarkingSet struct {
	PLIType          PLIType              `json:"pliType"`
	CompanyCount     int                  `json:"companyCount"`
	Quartile1        float64              `json:"quartile1"`
	Median           float64              `json:"median"`
	Quartile3        float64              `json:"quartile3"`
	Mean             float64              `json:"mean"`
	Min              float64              `json:"min"`
	Max              float64              `json:"max"`
	ArmsLengthLower  float64              `json:"armsLengthLower"`
	ArmsLengthUpper  float64              `json:"armsLengthUpper"`
	TestedPartyPLI   *float64             `json:"testedPartyPli,omitempty"`
	Classification   RangeClassification  `json:"classification,omitempty"`
}
