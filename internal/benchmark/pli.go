package benchmark

// safeRatio divides numerator by denominator, returning exactly 0 when the
// denominator is zero or negative. This keeps a bad balance sheet from
// flipping a ratio's sign or producing NaN/Inf.
func safeRatio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// CalculatePLI derives the five profit level indicators from one fiscal
// year's financials.
//
// Capital employed = total assets - (total liabilities - interest expense).
// Berry ratio denominator is value-added expenses: operating cost less
// employee cost.
func CalculatePLI(fin CompanyFinancials) PLICalculated {
	capitalEmployed := fin.TotalAssets - (fin.TotalLiabilities - fin.InterestExpense)
	return PLICalculated{
		OpOC:       safeRatio(fin.OperatingProfit, fin.OperatingCost),
		OpOR:       safeRatio(fin.OperatingProfit, fin.OperatingRevenue),
		OpTA:       safeRatio(fin.OperatingProfit, fin.TotalAssets),
		OpCE:       safeRatio(fin.OperatingProfit, capitalEmployed),
		BerryRatio: safeRatio(fin.GrossProfit, fin.OperatingCost-fin.EmployeeCost),
	}
}

// AveragePLI returns the arithmetic mean of each ratio across the given
// years. An empty slice yields the zero value.
func AveragePLI(years []PLICalculated) PLICalculated {
	if len(years) == 0 {
		return PLICalculated{}
	}
	var sum PLICalculated
	for _, p := range years {
		sum.OpOC += p.OpOC
		sum.OpOR += p.OpOR
		sum.OpTA += p.OpTA
		sum.OpCE += p.OpCE
		sum.BerryRatio += p.BerryRatio
	}
	n := float64(len(years))
	return PLICalculated{
		OpOC:       sum.OpOC / n,
		OpOR:       sum.OpOR / n,
		OpTA:       sum.OpTA / n,
		OpCE:       sum.OpCE / n,
		BerryRatio: sum.BerryRatio / n,
	}
}

// Value extracts a single ratio from a PLICalculated by type.
func (p PLICalculated) Value(pliType PLIType) (float64, error) {
	switch pliType {
	case PLIOpOC:
		return p.OpOC, nil
	case PLIOpOR:
		return p.OpOR, nil
	case PLIOpTA:
		return p.OpTA, nil
	case PLIOpCE:
		return p.OpCE, nil
	case PLIBerry:
		return p.BerryRatio, nil
	default:
		return 0, ErrUnknownPLIType
	}
}

// EnrichCompany computes per-year PLI and the multi-year average for a
// company loaded from the data source.
func EnrichCompany(c *ComparableCompany) {
	c.PLIByYear = make([]PLICalculated, len(c.Financials))
	for i, fin := range c.Financials {
		c.PLIByYear[i] = CalculatePLI(fin)
	}
	c.AveragePLI = AveragePLI(c.PLIByYear)
}
