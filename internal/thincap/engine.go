// Package thincap implements the Section 94B interest limitation engine:
// EBITDA reconstruction, the 30% statutory cap on interest paid to related
// non-resident lenders, and multi-year carryforward simulation.
package thincap

import (
	"fmt"
)

// Statutory constants under Section 94B
const (
	// EBITDALimitPercent caps deductible AE interest at 30% of EBITDA.
	EBITDALimitPercent = 0.30

	// DeMinimisThreshold exempts entities whose AE interest is below
	// ₹1 crore in the assessment year.
	DeMinimisThreshold = 10_000_000.0

	// CarryforwardWindowYears is the statutory window for carrying
	// disallowed interest forward.
	CarryforwardWindowYears = 8
)

// EntityType classifies the assessee for exemption purposes.
type EntityType string

const (
	EntityCompany   EntityType = "COMPANY"
	EntityBank      EntityType = "BANK"
	EntityInsurance EntityType = "INSURANCE"
	EntityNBFC      EntityType = "NBFC"
)

// Config holds policy knobs for the limitation calculation.
type Config struct {
	// NetInterestIncome nets interest income received from AEs against
	// the interest subject to limitation.
	NetInterestIncome bool `json:"net_interest_income"`

	// FloorAllowableAtZero floors allowable interest at zero when EBITDA
	// is negative. The default (false) mirrors the statute as filed:
	// negative EBITDA produces negative allowable interest and therefore
	// full disallowance.
	FloorAllowableAtZero bool `json:"floor_allowable_at_zero"`
}

// Financials are the line items needed to reconstruct EBITDA.
type Financials struct {
	ProfitBeforeTax      float64  `json:"profitBeforeTax"`
	TotalInterestExpense float64  `json:"totalInterestExpense"`
	Depreciation         float64  `json:"depreciation"`
	Amortization         float64  `json:"amortization"`
	InterestIncome       *float64 `json:"interestIncome,omitempty"`
}

// InterestExpenseEntry is one lender's interest for the assessment year.
type InterestExpenseEntry struct {
	LenderName      string  `json:"lenderName"`
	LenderCountry   string  `json:"lenderCountry"`
	PrincipalAmount float64 `json:"principalAmount"`
	InterestRate    float64 `json:"interestRate"`
	InterestAmount  float64 `json:"interestAmount"`
	IsAE            bool    `json:"isAE"` // lender is a related non-resident associated enterprise
}

// Input is a single assessment-year record.
type Input struct {
	AssessmentYear   string                 `json:"assessmentYear"`
	EntityType       EntityType             `json:"entityType"`
	Financials       Financials             `json:"financials"`
	InterestExpenses []InterestExpenseEntry `json:"interestExpenses"`
}

// Exemption is the outcome of the pre-calculation exemption check.
type Exemption struct {
	IsExempt  bool   `json:"isExempt"`
	Category  string `json:"category,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// EBITDAResult breaks out the reconstruction.
type EBITDAResult struct {
	ProfitBeforeTax      float64 `json:"profitBeforeTax"`
	TotalInterestExpense float64 `json:"totalInterestExpense"`
	Depreciation         float64 `json:"depreciation"`
	Amortization         float64 `json:"amortization"`
	EBITDA               float64 `json:"ebitda"`
}

// Result is the full interest limitation outcome for one assessment year.
type Result struct {
	AssessmentYear     string       `json:"assessmentYear"`
	Exemption          Exemption    `json:"exemption"`
	EBITDA             EBITDAResult `json:"ebitda"`
	InterestToAE       float64      `json:"interestToAE"`
	NettedInterest     float64      `json:"nettedInterest"`
	AllowableInterest  float64      `json:"allowableInterest"`
	DisallowedInterest float64      `json:"disallowedInterest"`
}

// ValidationError reports a missing or malformed required input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// Engine performs thin capitalization calculations.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given policy configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// CheckExemptions runs the exemption gates that precede any calculation.
// Banking and insurance entities are outside Section 94B; so is any entity
// whose AE interest falls below the de minimis rupee threshold.
func (e *Engine) CheckExemptions(input Input) Exemption {
	switch input.EntityType {
	case EntityBank:
		return Exemption{
			IsExempt:  true,
			Category:  "banking",
			Reference: "Section 94B(3): banking companies excluded",
		}
	case EntityInsurance:
		return Exemption{
			IsExempt:  true,
			Category:  "insurance",
			Reference: "Section 94B(3): insurance business excluded",
		}
	}

	if aeInterest(input.InterestExpenses) < DeMinimisThreshold {
		return Exemption{
			IsExempt:  true,
			Category:  "de_minimis",
			Reference: "Section 94B(1): AE interest below INR 1 crore",
		}
	}

	return Exemption{IsExempt: false}
}

// CalculateInterestLimitation validates inputs, checks exemptions, and
// applies the 30% EBITDA cap. Exempt entities skip EBITDA reconstruction
// entirely.
func (e *Engine) CalculateInterestLimitation(input Input) (*Result, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	result := &Result{AssessmentYear: input.AssessmentYear}

	result.Exemption = e.CheckExemptions(input)
	if result.Exemption.IsExempt {
		return result, nil
	}

	fin := input.Financials
	ebitda := fin.ProfitBeforeTax + fin.TotalInterestExpense + fin.Depreciation + fin.Amortization
	result.EBITDA = EBITDAResult{
		ProfitBeforeTax:      fin.ProfitBeforeTax,
		TotalInterestExpense: fin.TotalInterestExpense,
		Depreciation:         fin.Depreciation,
		Amortization:         fin.Amortization,
		EBITDA:               ebitda,
	}

	result.InterestToAE = aeInterest(input.InterestExpenses)
	result.NettedInterest = result.InterestToAE
	if e.cfg.NetInterestIncome && fin.InterestIncome != nil {
		result.NettedInterest -= *fin.InterestIncome
		if result.NettedInterest < 0 {
			result.NettedInterest = 0
		}
	}

	allowable := ebitda * EBITDALimitPercent
	if e.cfg.FloorAllowableAtZero && allowable < 0 {
		allowable = 0
	}
	result.AllowableInterest = allowable

	disallowed := result.NettedInterest - allowable
	if disallowed < 0 {
		disallowed = 0
	}
	result.DisallowedInterest = disallowed

	return result, nil
}

func aeInterest(entries []InterestExpenseEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		if entry.IsAE {
			total += entry.InterestAmount
		}
	}
	return total
}

func validate(input Input) error {
	if input.AssessmentYear == "" {
		return &ValidationError{Field: "assessmentYear", Message: "required"}
	}
	if input.EntityType == "" {
		return &ValidationError{Field: "entityType", Message: "required"}
	}
	fin := input.Financials
	if fin.TotalInterestExpense < 0 {
		return &ValidationError{Field: "financials.totalInterestExpense", Message: "must not be negative"}
	}
	if fin.Depreciation < 0 {
		return &ValidationError{Field: "financials.depreciation", Message: "must not be negative"}
	}
	if fin.Amortization < 0 {
		return &ValidationError{Field: "financials.amortization", Message: "must not be negative"}
	}
	for i, entry := range input.InterestExpenses {
		if entry.LenderName == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("interestExpenses[%d].lenderName", i),
				Message: "required",
			}
		}
		if entry.InterestAmount < 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("interestExpenses[%d].interestAmount", i),
				Message: "must not be negative",
			}
		}
	}
	return nil
}
