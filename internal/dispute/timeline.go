// Package dispute implements the statutory transfer pricing dispute
// timeline: stage transitions, filing deadlines, and eligibility gates.
package dispute

import (
	"fmt"
	"time"
)

// Stage is a node in the statutory dispute timeline.
type Stage string

const (
	StageTPOReference    Stage = "TPO_REFERENCE"
	StageTPOOrder        Stage = "TPO_ORDER"
	StageDraftAssessment Stage = "DRAFT_ASSESSMENT"
	StageDRPFiling       Stage = "DRP_FILING"
	StageDRPDirections   Stage = "DRP_DIRECTIONS"
	StageCITAppeals      Stage = "CIT_APPEALS"
	StageFinalAssessment Stage = "FINAL_ASSESSMENT"
	StageITATAppeal      Stage = "ITAT_APPEAL"
	StageHighCourt       Stage = "HIGH_COURT"
	StageSupremeCourt    Stage = "SUPREME_COURT"
)

// StageInfo describes one stage: where it can go next, how many calendar
// days the taxpayer has from the triggering event, and which form is filed.
type StageInfo struct {
	Stage        Stage   `json:"stage"`
	NextStages   []Stage `json:"nextStages"`
	DeadlineDays int     `json:"deadlineDays"`
	RequiredForm string  `json:"requiredForm"`
	Description  string  `json:"description"`
}

// timeline is the fixed statutory graph. Deadlines are additive calendar-day
// offsets from the triggering event; no business-day or holiday adjustment.
var timeline = map[Stage]StageInfo{
	StageTPOReference: {
		Stage:        StageTPOReference,
		NextStages:   []Stage{StageTPOOrder},
		DeadlineDays: 0,
		RequiredForm: "",
		Description:  "Assessing Officer refers international transactions to the TPO",
	},
	StageTPOOrder: {
		Stage:        StageTPOOrder,
		NextStages:   []Stage{StageDraftAssessment},
		DeadlineDays: 60,
		RequiredForm: "",
		Description:  "TPO passes order under Section 92CA(3)",
	},
	StageDraftAssessment: {
		Stage:        StageDraftAssessment,
		NextStages:   []Stage{StageDRPFiling, StageCITAppeals},
		DeadlineDays: 30,
		RequiredForm: "Form 35A",
		Description:  "Draft assessment order under Section 144C(1); taxpayer elects DRP or CIT(A)",
	},
	StageDRPFiling: {
		Stage:        StageDRPFiling,
		NextStages:   []Stage{StageDRPDirections},
		DeadlineDays: 30,
		RequiredForm: "Form 35A",
		Description:  "Objections filed before the Dispute Resolution Panel",
	},
	StageDRPDirections: {
		Stage:        StageDRPDirections,
		NextStages:   []Stage{StageFinalAssessment},
		DeadlineDays: 270,
		RequiredForm: "",
		Description:  "DRP issues binding directions under Section 144C(5)",
	},
	StageCITAppeals: {
		Stage:        StageCITAppeals,
		NextStages:   []Stage{StageITATAppeal},
		DeadlineDays: 30,
		RequiredForm: "Form 35",
		Description:  "Appeal before the Commissioner of Income Tax (Appeals)",
	},
	StageFinalAssessment: {
		Stage:        StageFinalAssessment,
		NextStages:   []Stage{StageITATAppeal},
		DeadlineDays: 30,
		RequiredForm: "",
		Description:  "Final assessment order incorporating DRP directions",
	},
	StageITATAppeal: {
		Stage:        StageITATAppeal,
		NextStages:   []Stage{StageHighCourt},
		DeadlineDays: 60,
		RequiredForm: "Form 36",
		Description:  "Appeal before the Income Tax Appellate Tribunal",
	},
	StageHighCourt: {
		Stage:        StageHighCourt,
		NextStages:   []Stage{StageSupremeCourt},
		DeadlineDays: 120,
		RequiredForm: "",
		Description:  "Appeal to High Court on a substantial question of law",
	},
	StageSupremeCourt: {
		Stage:        StageSupremeCourt,
		NextStages:   nil,
		DeadlineDays: 90,
		RequiredForm: "",
		Description:  "Appeal to the Supreme Court; judgment is terminal",
	},
}

// Timeline returns the full stage table, in statutory order.
func Timeline() []StageInfo {
	order := []Stage{
		StageTPOReference, StageTPOOrder, StageDraftAssessment,
		StageDRPFiling, StageDRPDirections, StageCITAppeals,
		StageFinalAssessment, StageITATAppeal, StageHighCourt,
		StageSupremeCourt,
	}
	infos := make([]StageInfo, 0, len(order))
	for _, s := range order {
		infos = append(infos, timeline[s])
	}
	return infos
}

// Lookup returns the StageInfo for a stage.
func Lookup(stage Stage) (StageInfo, error) {
	info, ok := timeline[stage]
	if !ok {
		return StageInfo{}, fmt.Errorf("unknown dispute stage: %s", stage)
	}
	return info, nil
}

// NextStages returns the stages reachable from the given stage. An empty
// result means the stage is terminal.
func NextStages(stage Stage) ([]Stage, error) {
	info, err := Lookup(stage)
	if err != nil {
		return nil, err
	}
	return info.NextStages, nil
}

// IsTerminal reports whether no further appeal exists from the stage.
func IsTerminal(stage Stage) bool {
	info, ok := timeline[stage]
	return ok && len(info.NextStages) == 0
}

// CalculateDeadline adds the stage's statutory day-count to the triggering
// event's date. Pure calendar-day arithmetic.
func CalculateDeadline(referenceDate time.Time, stage Stage) (time.Time, error) {
	info, err := Lookup(stage)
	if err != nil {
		return time.Time{}, err
	}
	return referenceDate.AddDate(0, 0, info.DeadlineDays), nil
}

// Order carries the facts needed for eligibility gates.
type Order struct {
	Stage      Stage     `json:"stage"`
	IssuedOn   time.Time `json:"issuedOn"`
	ServedOn   time.Time `json:"servedOn"`
	Finalized  bool      `json:"finalized"`
}

// DraftOrder is the draft assessment against which objections are tested.
type DraftOrder struct {
	IssuedOn         time.Time `json:"issuedOn"`
	ObjectionsFiled  bool      `json:"objectionsFiled"`
	ObjectionsFiledOn time.Time `json:"objectionsFiledOn,omitempty"`
}

// EligibilityResult is the AND of all gates with one reason per failure.
type EligibilityResult struct {
	IsEligible bool     `json:"isEligible"`
	Reasons    []string `json:"reasons"`
}

// ValidateEligibility runs the boolean gates for filing DRP objections
// against a draft assessment order. Each failed gate contributes a
// human-readable reason; eligibility requires every gate to pass.
func ValidateEligibility(order Order, draft DraftOrder) EligibilityResult {
	result := EligibilityResult{IsEligible: true}

	fail := func(reason string) {
		result.IsEligible = false
		result.Reasons = append(result.Reasons, reason)
	}

	if order.Finalized {
		fail("assessment order already finalized; DRP route is no longer available")
	}
	if draft.IssuedOn.IsZero() {
		fail("no draft assessment order on record")
	}
	if !draft.ObjectionsFiled {
		fail("objections have not been filed")
	} else {
		if !draft.IssuedOn.IsZero() {
			deadline := draft.IssuedOn.AddDate(0, 0, timeline[StageDRPFiling].DeadlineDays)
			if draft.ObjectionsFiledOn.After(deadline) {
				fail(fmt.Sprintf("objections filed after the 30-day deadline (%s)", deadline.Format("2006-01-02")))
			}
		}
		if order.Finalized && draft.ObjectionsFiledOn.After(order.IssuedOn) {
			fail("objections filed after the assessment order was finalized")
		}
	}

	return result
}
