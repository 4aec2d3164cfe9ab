package thincap

// ExemptionReference is one row of the exemption reference table served at
// GET /api/thin-cap?type=exemptions.
type ExemptionReference struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

// CalculationReference documents the statutory constants served at
// GET /api/thin-cap?type=calculation.
type CalculationReference struct {
	Parameter   string  `json:"parameter"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ExemptionReferences returns the static exemption table.
func ExemptionReferences() []ExemptionReference {
	return []ExemptionReference{
		{
			Category:    "banking",
			Description: "Banking companies are outside the scope of the interest limitation",
			Reference:   "Section 94B(3)",
		},
		{
			Category:    "insurance",
			Description: "Entities carrying on insurance business are outside the scope",
			Reference:   "Section 94B(3)",
		},
		{
			Category:    "de_minimis",
			Description: "Interest paid to non-resident associated enterprises below INR 1 crore",
			Reference:   "Section 94B(1)",
		},
	}
}

// CalculationReferences returns the static calculation constants table.
func CalculationReferences() []CalculationReference {
	return []CalculationReference{
		{
			Parameter:   "ebitda_limit_percent",
			Value:       EBITDALimitPercent,
			Description: "Allowable AE interest as a fraction of EBITDA",
		},
		{
			Parameter:   "de_minimis_threshold",
			Value:       DeMinimisThreshold,
			Description: "AE interest threshold (INR) below which the limitation does not apply",
		},
		{
			Parameter:   "carryforward_window_years",
			Value:       CarryforwardWindowYears,
			Description: "Maximum years disallowed interest may be carried forward",
		},
	}
}
