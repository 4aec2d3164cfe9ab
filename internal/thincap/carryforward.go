package thincap

// CarryforwardYear is one row of the simulation ledger.
type CarryforwardYear struct {
	Year                 int     `json:"year"`
	EBITDA               float64 `json:"ebitda"`
	InterestLimit        float64 `json:"interestLimit"`
	InterestExpense      float64 `json:"interestExpense"`
	ExcessCapacity       float64 `json:"excessCapacity"`
	CarryforwardUtilized float64 `json:"carryforwardUtilized"`
	CarryforwardRemaining float64 `json:"carryforwardRemaining"`
}

// CarryforwardResult is the year-by-year depletion ledger plus totals.
// TotalUtilized + ExpiredAmount always equals the original disallowance.
type CarryforwardResult struct {
	OriginalDisallowance float64            `json:"originalDisallowance"`
	StartingYear         int                `json:"startingYear"`
	Ledger               []CarryforwardYear `json:"ledger"`
	TotalUtilized        float64            `json:"totalUtilized"`
	ExpiredAmount        float64            `json:"expiredAmount"`
	FullyAbsorbedIn      int                `json:"fullyAbsorbedIn,omitempty"` // year the balance hit zero
}

// SimulateCarryforward depletes a disallowed-interest balance against
// projected future capacity, first-in-first-out, over at most the statutory
// carryforward window.
//
// For each projected year: interest limit = EBITDA x 30%; excess capacity =
// max(0, limit - that year's interest expense); utilized = min(excess,
// remaining). No proration and no interest accrues on the carried balance.
// Whatever survives the window is reported as expired.
func (e *Engine) SimulateCarryforward(disallowed float64, projectedEBITDA, projectedInterestExpense []float64, startYear int) (*CarryforwardResult, error) {
	if disallowed < 0 {
		return nil, &ValidationError{Field: "disallowedInterest", Message: "must not be negative"}
	}
	if len(projectedEBITDA) != len(projectedInterestExpense) {
		return nil, &ValidationError{
			Field:   "projectedInterestExpense",
			Message: "must have the same length as projectedEBITDA",
		}
	}

	years := len(projectedEBITDA)
	if years > CarryforwardWindowYears {
		years = CarryforwardWindowYears
	}

	result := &CarryforwardResult{
		OriginalDisallowance: disallowed,
		StartingYear:         startYear,
		Ledger:               make([]CarryforwardYear, 0, years),
	}

	remaining := disallowed
	for i := 0; i < years; i++ {
		limit := projectedEBITDA[i] * EBITDALimitPercent
		excess := limit - projectedInterestExpense[i]
		if excess < 0 {
			excess = 0
		}

		utilized := excess
		if utilized > remaining {
			utilized = remaining
		}
		remaining -= utilized

		year := startYear + i
		result.Ledger = append(result.Ledger, CarryforwardYear{
			Year:                  year,
			EBITDA:                projectedEBITDA[i],
			InterestLimit:         limit,
			InterestExpense:       projectedInterestExpense[i],
			ExcessCapacity:        excess,
			CarryforwardUtilized:  utilized,
			CarryforwardRemaining: remaining,
		})

		if remaining == 0 && result.FullyAbsorbedIn == 0 {
			result.FullyAbsorbedIn = year
		}
	}

	result.TotalUtilized = disallowed - remaining
	result.ExpiredAmount = remaining
	return result, nil
}
