package benchmark

// SampleUniverse returns a small bundled comparables set for development
// and demos when no database is configured. Figures are in INR and loosely
// modeled on mid-size Indian IT and manufacturing companies; they are not
// real filings.
func SampleUniverse() []ComparableCompany {
	companies := []ComparableCompany{
		{
			RegistrationID:    "U72200KA2008PTC045121",
			Name:              "Infotrellis Software Services Pvt Ltd",
			IndustryCode:      "62011",
			FunctionalProfile: ProfileServices,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 1_850_000_000, 0.12),
				sampleYear("2022-23", 1_640_000_000, 0.11),
				sampleYear("2021-22", 1_420_000_000, 0.10),
			},
			RelatedPartyTxnPct:  8.5,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U72900MH2005PLC152330",
			Name:              "Zenlogic Technologies Ltd",
			IndustryCode:      "62012",
			FunctionalProfile: ProfileServices,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 4_200_000_000, 0.18),
				sampleYear("2022-23", 3_950_000_000, 0.17),
				sampleYear("2021-22", 3_600_000_000, 0.19),
			},
			RelatedPartyTxnPct:  4.2,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U72200TN2011PTC079864",
			Name:              "Cauvery Infotech Pvt Ltd",
			IndustryCode:      "62013",
			FunctionalProfile: ProfileServices,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 920_000_000, 0.19),
				sampleYear("2022-23", 860_000_000, 0.20),
				sampleYear("2021-22", 790_000_000, 0.18),
			},
			RelatedPartyTxnPct:  12.0,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U73100KA2013PTC068118",
			Name:              "Helix Research Labs Pvt Ltd",
			IndustryCode:      "72100",
			FunctionalProfile: ProfileRnD,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 640_000_000, 0.20),
				sampleYear("2022-23", 560_000_000, 0.22),
				sampleYear("2021-22", 480_000_000, 0.21),
			},
			RelatedPartyTxnPct:  18.0,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "L29253MH1996PLC101417",
			Name:              "Sahyadri Precision Components Ltd",
			IndustryCode:      "29301",
			FunctionalProfile: ProfileManufacturer,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 6_800_000_000, 0.10),
				sampleYear("2022-23", 6_200_000_000, 0.09),
				sampleYear("2021-22", 5_700_000_000, 0.11),
			},
			RelatedPartyTxnPct:  6.0,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U24100GJ2009PLC056702",
			Name:              "Narmada Specialty Chemicals Ltd",
			IndustryCode:      "20119",
			FunctionalProfile: ProfileManufacturer,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 3_100_000_000, 0.25),
				sampleYear("2022-23", 2_850_000_000, 0.24),
				sampleYear("2021-22", 2_500_000_000, 0.26),
			},
			RelatedPartyTxnPct:  9.5,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U51909DL2015PTC283991",
			Name:              "Yamuna Trade Links Pvt Ltd",
			IndustryCode:      "46900",
			FunctionalProfile: ProfileDistributor,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 2_400_000_000, 0.04),
				sampleYear("2022-23", 2_100_000_000, 0.03),
				sampleYear("2021-22", 1_900_000_000, 0.05),
			},
			RelatedPartyTxnPct:  22.0,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U51109WB2012PTC188244",
			Name:              "Hooghly Distribution Co Pvt Ltd",
			IndustryCode:      "46510",
			FunctionalProfile: ProfileDistributor,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 1_150_000_000, -0.02),
				sampleYear("2022-23", 1_230_000_000, -0.01),
				sampleYear("2021-22", 1_300_000_000, -0.03),
			},
			RelatedPartyTxnPct:  15.0,
			PersistentLosses:    true,
			YearsContinuousData: 3,
			Active:              true,
		},
		{
			RegistrationID:    "U74999KA2017PTC104553",
			Name:              "Arkavati Consulting Pvt Ltd",
			IndustryCode:      "62020",
			FunctionalProfile: ProfileServices,
			Financials: []CompanyFinancials{
				sampleYear("2023-24", 310_000_000, 0.15),
				sampleYear("2022-23", 270_000_000, 0.14),
			},
			RelatedPartyTxnPct:  5.0,
			YearsContinuousData: 2,
			Active:              true,
		},
		{
			RegistrationID:    "U72200AP2004PTC044876",
			Name:              "Godavari Systems Pvt Ltd",
			IndustryCode:      "62011",
			FunctionalProfile: ProfileServices,
			Financials: []CompanyFinancials{
				sampleYear("2022-23", 540_000_000, 0.16),
				sampleYear("2021-22", 520_000_000, 0.17),
				sampleYear("2020-21", 505_000_000, 0.15),
			},
			RelatedPartyTxnPct:  7.0,
			YearsContinuousData: 3,
			Active:              false,
		},
	}

	for i := range companies {
		EnrichCompany(&companies[i])
	}
	return companies
}

// sampleYear fabricates a coherent statement from revenue and an operating
// margin on cost.
func sampleYear(fiscalYear string, revenue, opMarginOnCost float64) CompanyFinancials {
	operatingCost := revenue / (1 + opMarginOnCost)
	operatingProfit := revenue - operatingCost
	grossProfit := revenue * 0.35
	employeeCost := operatingCost * 0.40
	totalAssets := revenue * 0.80

	return CompanyFinancials{
		FiscalYear:       fiscalYear,
		Revenue:          revenue,
		OperatingRevenue: revenue,
		TotalCost:        operatingCost * 1.03,
		OperatingCost:    operatingCost,
		GrossProfit:      grossProfit,
		OperatingProfit:  operatingProfit,
		NetProfit:        operatingProfit * 0.72,
		TotalAssets:      totalAssets,
		FixedAssets:      totalAssets * 0.45,
		CurrentAssets:    totalAssets * 0.55,
		TotalLiabilities: totalAssets * 0.40,
		Equity:           totalAssets * 0.60,
		EmployeeCost:     employeeCost,
		Depreciation:     totalAssets * 0.03,
		InterestExpense:  totalAssets * 0.015,
	}
}
