// Package penalty computes statutory penalty exposure bands for transfer
// pricing adjustments by combining the applicable penalty provisions with
// mitigating-factor discounts.
package penalty

import "fmt"

// Statutory multipliers and flat amounts
const (
	concealmentMinPct = 1.00 // 100% of tax sought to be evaded, Section 271(1)(c)
	concealmentMaxPct = 3.00 // 300% ceiling
	documentationPct  = 0.02 // 2% of transaction value, Section 271AA
	informationPct    = 0.02 // 2% of transaction value, Section 271G
	reportingFlat     = 100_000.0 // Section 271BA, failure to file Form 3CEB
	delayInterestPct  = 0.01 // 1% per month on the adjustment-linked tax
)

// Input carries the facts of the adjustment plus mitigating-factor flags.
type Input struct {
	TPAdjustment          float64 `json:"tpAdjustment"`          // adjustment amount (INR)
	TaxEvaded             float64 `json:"taxEvaded"`             // tax on the adjustment (INR)
	TransactionValue      float64 `json:"transactionValue"`      // aggregate transaction value (INR)
	DocumentationComplete bool    `json:"documentationComplete"` // Section 92D documentation maintained
	Form3CEBFiled         bool    `json:"form3cebFiled"`
	FiledOnTime           bool    `json:"filedOnTime"`
	InformationFurnished  bool    `json:"informationFurnished"` // responded to 271G notices
	DelayMonths           int     `json:"delayMonths"`          // months of delay for interest
	GoodFaithPosition     bool    `json:"goodFaithPosition"`    // bona fide, documented position
}

// SectionExposure is one statutory provision's contribution.
type SectionExposure struct {
	Section     string  `json:"section"`
	Description string  `json:"description"`
	Applicable  bool    `json:"applicable"`
	Minimum     float64 `json:"minimum"`
	Maximum     float64 `json:"maximum"`
	MostLikely  float64 `json:"mostLikely"`
}

// Exposure is the aggregate penalty band with a per-section breakdown.
type Exposure struct {
	Minimum            float64           `json:"minimum"`
	Maximum            float64           `json:"maximum"`
	MostLikely         float64           `json:"mostLikely"`
	Breakdown          []SectionExposure `json:"breakdown"`
	MitigatingFactors  []string          `json:"mitigatingFactors"`
	RecommendedActions []string          `json:"recommendedActions"`
}

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// Calculate combines the statutory penalty provisions into minimum, maximum
// and most-likely exposure. Minimum and maximum bound each section at its
// statutory floor and ceiling; MostLikely is a judgment blend discounted by
// the mitigating factors present.
func Calculate(input Input) (*Exposure, error) {
	if input.TPAdjustment < 0 {
		return nil, &ValidationError{Field: "tpAdjustment", Message: "must not be negative"}
	}
	if input.TaxEvaded < 0 {
		return nil, &ValidationError{Field: "taxEvaded", Message: "must not be negative"}
	}
	if input.TransactionValue < 0 {
		return nil, &ValidationError{Field: "transactionValue", Message: "must not be negative"}
	}
	if input.DelayMonths < 0 {
		return nil, &ValidationError{Field: "delayMonths", Message: "must not be negative"}
	}

	mitigation := mitigationDiscount(input)

	var breakdown []SectionExposure

	// Section 271(1)(c): concealment. Only in play when there is tax on
	// the adjustment; complete documentation of a good-faith position is
	// the classic defence, reflected in the most-likely figure.
	concealment := SectionExposure{
		Section:     "271(1)(c)",
		Description: "Concealment / inaccurate particulars of income",
		Applicable:  input.TaxEvaded > 0,
	}
	if concealment.Applicable {
		concealment.Minimum = input.TaxEvaded * concealmentMinPct
		concealment.Maximum = input.TaxEvaded * concealmentMaxPct
		concealment.MostLikely = concealment.Minimum * (1 - mitigation)
	}
	breakdown = append(breakdown, concealment)

	// Section 271AA: documentation failure.
	documentation := SectionExposure{
		Section:     "271AA",
		Description: "Failure to maintain prescribed documentation",
		Applicable:  !input.DocumentationComplete && input.TransactionValue > 0,
	}
	if documentation.Applicable {
		amount := input.TransactionValue * documentationPct
		documentation.Minimum = amount
		documentation.Maximum = amount
		documentation.MostLikely = amount
	}
	breakdown = append(breakdown, documentation)

	// Section 271G: failure to furnish information on notice.
	information := SectionExposure{
		Section:     "271G",
		Description: "Failure to furnish information or documents on notice",
		Applicable:  !input.InformationFurnished && input.TransactionValue > 0,
	}
	if information.Applicable {
		amount := input.TransactionValue * informationPct
		information.Minimum = amount
		information.Maximum = amount
		information.MostLikely = amount
	}
	breakdown = append(breakdown, information)

	// Section 271BA: accountant's report not filed.
	reporting := SectionExposure{
		Section:     "271BA",
		Description: "Failure to furnish Form 3CEB",
		Applicable:  !input.Form3CEBFiled,
	}
	if reporting.Applicable {
		reporting.Minimum = reportingFlat
		reporting.Maximum = reportingFlat
		reporting.MostLikely = reportingFlat
	}
	breakdown = append(breakdown, reporting)

	// Interest on delayed payment of the adjustment-linked tax.
	interest := SectionExposure{
		Section:     "234B",
		Description: "Interest on delayed payment of tax on the adjustment",
		Applicable:  input.DelayMonths > 0 && input.TaxEvaded > 0,
	}
	if interest.Applicable {
		amount := input.TaxEvaded * delayInterestPct * float64(input.DelayMonths)
		interest.Minimum = amount
		interest.Maximum = amount
		interest.MostLikely = amount
	}
	breakdown = append(breakdown, interest)

	exposure := &Exposure{Breakdown: breakdown}
	for _, s := range breakdown {
		if !s.Applicable {
			continue
		}
		exposure.Minimum += s.Minimum
		exposure.Maximum += s.Maximum
		exposure.MostLikely += s.MostLikely
	}

	exposure.MitigatingFactors = mitigatingFactors(input)
	exposure.RecommendedActions = recommendedActions(input)
	return exposure, nil
}

// mitigationDiscount converts mitigating-factor flags into a fractional
// discount on the most-likely concealment exposure. Capped at 60%: even a
// fully documented, timely position rarely escapes the statutory minimum at
// the assessment stage.
func mitigationDiscount(input Input) float64 {
	discount := 0.0
	if input.DocumentationComplete {
		discount += 0.30
	}
	if input.FiledOnTime && input.Form3CEBFiled {
		discount += 0.15
	}
	if input.GoodFaithPosition {
		discount += 0.15
	}
	if discount > 0.60 {
		discount = 0.60
	}
	return discount
}

func mitigatingFactors(input Input) []string {
	var factors []string
	if input.DocumentationComplete {
		factors = append(factors, "contemporaneous documentation maintained under Section 92D")
	}
	if input.Form3CEBFiled && input.FiledOnTime {
		factors = append(factors, "Form 3CEB filed within the due date")
	}
	if input.InformationFurnished {
		factors = append(factors, "information furnished in response to notices")
	}
	if input.GoodFaithPosition {
		factors = append(factors, "good-faith, documented transfer pricing position")
	}
	return factors
}

// recommendedActions is table-driven advisory text keyed off the gaps in the
// taxpayer's compliance posture.
func recommendedActions(input Input) []string {
	var actions []string
	if !input.DocumentationComplete {
		actions = append(actions, "Complete Section 92D documentation before the assessment hearing")
	}
	if !input.Form3CEBFiled {
		actions = append(actions, "File Form 3CEB immediately; the 271BA penalty stops accruing on filing")
	}
	if !input.InformationFurnished {
		actions = append(actions, "Respond to outstanding 271G information notices")
	}
	if input.DelayMonths > 0 {
		actions = append(actions, "Deposit the disputed tax to stop interest accrual while the appeal is pending")
	}
	if len(actions) == 0 {
		actions = append(actions, "Maintain the current compliance posture; no remedial filings required")
	}
	return actions
}
