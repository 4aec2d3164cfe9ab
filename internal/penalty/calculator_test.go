package penalty

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func compliantInput() Input {
	return Input{
		TPAdjustment:          50_000_000,
		TaxEvaded:             15_000_000,
		TransactionValue:      500_000_000,
		DocumentationComplete: true,
		Form3CEBFiled:         true,
		FiledOnTime:           true,
		InformationFurnished:  true,
		GoodFaithPosition:     true,
	}
}

func findSection(t *testing.T, exposure *Exposure, section string) SectionExposure {
	t.Helper()
	for _, s := range exposure.Breakdown {
		if s.Section == section {
			return s
		}
	}
	t.Fatalf("section %s missing from breakdown", section)
	return SectionExposure{}
}

func TestConcealmentBand(t *testing.T) {
	input := compliantInput()
	exposure, err := Calculate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	concealment := findSection(t, exposure, "271(1)(c)")
	if !concealment.Applicable {
		t.Fatal("concealment must apply when tax is evaded")
	}
	if concealment.Minimum != 15_000_000 {
		t.Errorf("minimum = %v, want 100%% of tax evaded", concealment.Minimum)
	}
	if concealment.Maximum != 45_000_000 {
		t.Errorf("maximum = %v, want 300%% of tax evaded", concealment.Maximum)
	}

	// Full mitigation (30+15+15 capped at 60%) discounts the most likely
	// figure to 40% of the statutory minimum.
	if want := 15_000_000 * 0.40; math.Abs(concealment.MostLikely-want) > 1e-6 {
		t.Errorf("mostLikely = %v, want %v with 60%% mitigation", concealment.MostLikely, want)
	}
}

func TestMitigationCap(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want float64
	}{
		{"no factors", Input{}, 0},
		{"documentation only", Input{DocumentationComplete: true}, 0.30},
		{"timely filing only", Input{Form3CEBFiled: true, FiledOnTime: true}, 0.15},
		{"filed but late earns nothing", Input{Form3CEBFiled: true}, 0},
		{"good faith only", Input{GoodFaithPosition: true}, 0.15},
		{
			"all factors capped at sixty percent",
			Input{DocumentationComplete: true, Form3CEBFiled: true, FiledOnTime: true, GoodFaithPosition: true},
			0.60,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mitigationDiscount(tc.in); got != tc.want {
				t.Errorf("discount = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSectionApplicability(t *testing.T) {
	t.Run("fully compliant taxpayer", func(t *testing.T) {
		exposure, err := Calculate(compliantInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, section := range []string{"271AA", "271G", "271BA", "234B"} {
			if s := findSection(t, exposure, section); s.Applicable {
				t.Errorf("section %s must not apply to a compliant taxpayer", section)
			}
		}
	})

	t.Run("non-compliant taxpayer", func(t *testing.T) {
		input := Input{
			TaxEvaded:        10_000_000,
			TransactionValue: 200_000_000,
			DelayMonths:      6,
		}
		exposure, err := Calculate(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		documentation := findSection(t, exposure, "271AA")
		if !documentation.Applicable || documentation.Minimum != 4_000_000 {
			t.Errorf("271AA = %+v, want applicable 2%% of transaction value", documentation)
		}

		information := findSection(t, exposure, "271G")
		if !information.Applicable || information.Minimum != 4_000_000 {
			t.Errorf("271G = %+v, want applicable 2%% of transaction value", information)
		}

		reporting := findSection(t, exposure, "271BA")
		if !reporting.Applicable || reporting.Minimum != 100_000 {
			t.Errorf("271BA = %+v, want flat one lakh", reporting)
		}

		interest := findSection(t, exposure, "234B")
		if !interest.Applicable || interest.Minimum != 600_000 {
			t.Errorf("234B = %+v, want 1%% per month for six months", interest)
		}
	})
}

func TestAggregateBand(t *testing.T) {
	input := Input{
		TaxEvaded:        10_000_000,
		TransactionValue: 200_000_000,
	}
	exposure, err := Calculate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Concealment 10M-30M, 271AA 4M, 271G 4M, 271BA 0.1M.
	if want := 18_100_000.0; exposure.Minimum != want {
		t.Errorf("Minimum = %v, want %v", exposure.Minimum, want)
	}
	if want := 38_100_000.0; exposure.Maximum != want {
		t.Errorf("Maximum = %v, want %v", exposure.Maximum, want)
	}
	if exposure.MostLikely < exposure.Minimum || exposure.MostLikely > exposure.Maximum {
		// With zero mitigation the concealment most-likely sits at the
		// statutory minimum, so the aggregate must stay inside the band.
		t.Errorf("MostLikely %v outside [%v, %v]", exposure.MostLikely, exposure.Minimum, exposure.Maximum)
	}
}

func TestAdvisoryText(t *testing.T) {
	t.Run("gaps drive recommended actions", func(t *testing.T) {
		exposure, err := Calculate(Input{TaxEvaded: 1, TransactionValue: 1, DelayMonths: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		joined := strings.Join(exposure.RecommendedActions, "; ")
		for _, fragment := range []string{"92D documentation", "Form 3CEB", "271G", "interest accrual"} {
			if !strings.Contains(joined, fragment) {
				t.Errorf("actions %q missing %q", joined, fragment)
			}
		}
		if len(exposure.MitigatingFactors) != 0 {
			t.Errorf("no flags set but factors reported: %v", exposure.MitigatingFactors)
		}
	})

	t.Run("compliant posture gets maintenance advice", func(t *testing.T) {
		exposure, err := Calculate(compliantInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(exposure.RecommendedActions) != 1 ||
			!strings.Contains(exposure.RecommendedActions[0], "Maintain") {
			t.Errorf("got %v, want single maintenance recommendation", exposure.RecommendedActions)
		}
		if len(exposure.MitigatingFactors) != 4 {
			t.Errorf("got %d mitigating factors, want 4: %v", len(exposure.MitigatingFactors), exposure.MitigatingFactors)
		}
	})
}

func TestCalculateValidation(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"negative adjustment", Input{TPAdjustment: -1}},
		{"negative tax", Input{TaxEvaded: -1}},
		{"negative transaction value", Input{TransactionValue: -1}},
		{"negative delay", Input{DelayMonths: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
