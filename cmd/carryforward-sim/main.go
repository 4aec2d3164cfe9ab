// carryforward-sim runs a Section 94B disallowed-interest carryforward
// simulation from a JSON projection file and prints the year-by-year
// ledger.
//
// Usage:
//
//	carryforward-sim -file projection.json
//
// The projection file shape matches the PUT /api/thin-cap request body:
//
//	{
//	  "disallowedInterest": 1000000,
//	  "projectedEBITDA": [1000000, 1333333, 1000000],
//	  "projectedInterestExpense": [0, 0, 0],
//	  "startingYear": 2025
//	}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/camayank/transfer-pricing-platform/internal/thincap"
)

type projection struct {
	DisallowedInterest       float64   `json:"disallowedInterest"`
	ProjectedEBITDA          []float64 `json:"projectedEBITDA"`
	ProjectedInterestExpense []float64 `json:"projectedInterestExpense"`
	StartingYear             int       `json:"startingYear"`
}

func main() {
	godotenv.Load()

	file := flag.String("file", "", "path to the JSON projection file")
	asJSON := flag.Bool("json", false, "emit the full result as JSON instead of a table")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: carryforward-sim -file projection.json [-json]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var p projection
	if err := json.Unmarshal(raw, &p); err != nil {
		fmt.Fprintf(os.Stderr, "cannot parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	engine := thincap.NewEngine(thincap.Config{
		NetInterestIncome:    os.Getenv("THINCAP_NET_INTEREST_INCOME") == "true",
		FloorAllowableAtZero: os.Getenv("THINCAP_FLOOR_ALLOWABLE_AT_ZERO") == "true",
	})

	result, err := engine.SimulateCarryforward(
		p.DisallowedInterest, p.ProjectedEBITDA, p.ProjectedInterestExpense, p.StartingYear,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Disallowed interest: INR %.2f, starting year %d\n\n", result.OriginalDisallowance, result.StartingYear)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tEBITDA\tLIMIT (30%)\tINTEREST\tEXCESS CAP\tUTILIZED\tREMAINING")
	for _, y := range result.Ledger {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			y.Year, y.EBITDA, y.InterestLimit, y.InterestExpense,
			y.ExcessCapacity, y.CarryforwardUtilized, y.CarryforwardRemaining)
	}
	w.Flush()

	fmt.Printf("\nTotal utilized: INR %.2f\n", result.TotalUtilized)
	fmt.Printf("Expired:        INR %.2f\n", result.ExpiredAmount)
	if result.FullyAbsorbedIn > 0 {
		fmt.Printf("Fully absorbed in %d\n", result.FullyAbsorbedIn)
	}
}
