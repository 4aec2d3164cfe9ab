package dispute

import (
	"strings"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestTimelineOrderAndGraph(t *testing.T) {
	infos := Timeline()
	if len(infos) != 10 {
		t.Fatalf("timeline has %d stages, want 10", len(infos))
	}
	if infos[0].Stage != StageTPOReference || infos[len(infos)-1].Stage != StageSupremeCourt {
		t.Errorf("timeline must run TPO_REFERENCE through SUPREME_COURT, got %s..%s",
			infos[0].Stage, infos[len(infos)-1].Stage)
	}

	// Every advertised next stage must exist in the graph.
	for _, info := range infos {
		for _, next := range info.NextStages {
			if _, err := Lookup(next); err != nil {
				t.Errorf("%s advertises unknown next stage %s", info.Stage, next)
			}
		}
	}
}

func TestStageBranching(t *testing.T) {
	next, err := NextStages(StageDraftAssessment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next) != 2 || next[0] != StageDRPFiling || next[1] != StageCITAppeals {
		t.Errorf("draft assessment branches = %v, want [DRP_FILING CIT_APPEALS]", next)
	}
}

func TestTerminalStage(t *testing.T) {
	if !IsTerminal(StageSupremeCourt) {
		t.Error("Supreme Court must be terminal")
	}

	for _, s := range []Stage{StageTPOReference, StageDRPFiling, StageHighCourt} {
		if IsTerminal(s) {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if IsTerminal(Stage("NOT_A_STAGE")) {
		t.Error("unknown stage must not report terminal")
	}
}

func TestCalculateDeadline(t *testing.T) {
	cases := []struct {
		stage Stage
		ref   time.Time
		want  time.Time
	}{
		// Pure calendar-day arithmetic, weekends and holidays included.
		{StageDRPFiling, date(2024, 3, 15), date(2024, 4, 14)},
		{StageITATAppeal, date(2024, 1, 1), date(2024, 3, 1)},
		{StageDRPDirections, date(2024, 1, 31), date(2024, 10, 27)},
		// Month-end rollover.
		{StageCITAppeals, date(2024, 1, 31), date(2024, 3, 1)},
	}

	for _, tc := range cases {
		t.Run(string(tc.stage), func(t *testing.T) {
			got, err := CalculateDeadline(tc.ref, tc.stage)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("deadline = %s, want %s", got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}

	t.Run("unknown stage", func(t *testing.T) {
		if _, err := CalculateDeadline(date(2024, 1, 1), "ARBITRATION"); err == nil {
			t.Error("expected error for unknown stage")
		}
	})
}

func TestRequiredForms(t *testing.T) {
	forms := map[Stage]string{
		StageDraftAssessment: "Form 35A",
		StageDRPFiling:       "Form 35A",
		StageCITAppeals:      "Form 35",
		StageITATAppeal:      "Form 36",
		StageHighCourt:       "",
	}

	for stage, want := range forms {
		info, err := Lookup(stage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.RequiredForm != want {
			t.Errorf("%s form = %q, want %q", stage, info.RequiredForm, want)
		}
	}
}

func TestValidateEligibility(t *testing.T) {
	draftIssued := date(2024, 3, 1)

	t.Run("eligible when all gates pass", func(t *testing.T) {
		result := ValidateEligibility(
			Order{Stage: StageDraftAssessment},
			DraftOrder{IssuedOn: draftIssued, ObjectionsFiled: true, ObjectionsFiledOn: date(2024, 3, 20)},
		)
		if !result.IsEligible {
			t.Errorf("expected eligible, got reasons %v", result.Reasons)
		}
		if len(result.Reasons) != 0 {
			t.Errorf("eligible result must carry no reasons, got %v", result.Reasons)
		}
	})

	t.Run("finalized order blocks DRP route", func(t *testing.T) {
		result := ValidateEligibility(
			Order{Stage: StageFinalAssessment, Finalized: true},
			DraftOrder{IssuedOn: draftIssued, ObjectionsFiled: true, ObjectionsFiledOn: date(2024, 3, 10)},
		)
		if result.IsEligible {
			t.Error("finalized assessment must not be eligible")
		}
		if !containsReason(result.Reasons, "finalized") {
			t.Errorf("reasons %v missing finalization gate", result.Reasons)
		}
	})

	t.Run("late objections", func(t *testing.T) {
		result := ValidateEligibility(
			Order{Stage: StageDraftAssessment},
			DraftOrder{IssuedOn: draftIssued, ObjectionsFiled: true, ObjectionsFiledOn: date(2024, 4, 15)},
		)
		if result.IsEligible {
			t.Error("objections after the 30-day deadline must fail")
		}
		if !containsReason(result.Reasons, "30-day deadline") {
			t.Errorf("reasons %v missing deadline gate", result.Reasons)
		}
	})

	t.Run("objections on the deadline day pass", func(t *testing.T) {
		result := ValidateEligibility(
			Order{Stage: StageDraftAssessment},
			DraftOrder{IssuedOn: draftIssued, ObjectionsFiled: true, ObjectionsFiledOn: date(2024, 3, 31)},
		)
		if !result.IsEligible {
			t.Errorf("deadline-day filing must pass, got %v", result.Reasons)
		}
	})

	t.Run("every failed gate contributes a reason", func(t *testing.T) {
		result := ValidateEligibility(
			Order{Finalized: true},
			DraftOrder{},
		)
		if result.IsEligible {
			t.Error("expected ineligible")
		}
		if len(result.Reasons) < 3 {
			t.Errorf("got %d reasons, want one per failed gate: %v", len(result.Reasons), result.Reasons)
		}
	})
}

func containsReason(reasons []string, fragment string) bool {
	for _, r := range reasons {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}
