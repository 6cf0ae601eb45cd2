package tutor

import (
	"fmt"
	"strings"

	"redox_tutor/src/model"
)

// Form field keys. Verdict.Wrong and UpdateAnswers use the same names.
const (
	FieldReducing         = "reducing"
	FieldOxidizing        = "oxidizing"
	FieldOxidationProcess = "oxidation_process"
	FieldReductionProcess = "reduction_process"
	FieldMultiplierOx     = "multiplier_ox"
	FieldMultiplierRed    = "multiplier_red"
)

// minProcessLength is exclusive: a process must be longer than this
const minProcessLength = 5

// Verdict is the outcome of checking one step
type Verdict struct {
	Step    model.Step
	Correct bool
	Wrong   []string // field keys to highlight, empty when Correct
}

// Validate checks the answers of one step against the analysis
func Validate(step model.Step, analysis *model.Analysis, answers model.Answers) (Verdict, error) {
	if analysis == nil {
		return Verdict{}, ErrNoAnalysis
	}
	if !step.Valid() {
		return Verdict{}, fmt.Errorf("invalid step %d", int(step))
	}
	if len(analysis.BalancedCoefficients) != analysis.CompoundCount() {
		return Verdict{}, fmt.Errorf("%w: %d coefficients for %d compounds",
			ErrInvalidAnalysis, len(analysis.BalancedCoefficients), analysis.CompoundCount())
	}

	var v Verdict
	switch step {
	case model.Step1:
		v = checkStates(analysis, answers)
	case model.Step2:
		v = checkProcesses(answers)
	case model.Step3:
		v = checkMultipliers(analysis, answers)
	case model.Step4:
		v = checkCoefficients(analysis, answers)
	}
	v.Step = step
	return v, nil
}

func checkStates(analysis *model.Analysis, answers model.Answers) Verdict {
	var wrong []string
	for i, el := range analysis.ElementsChanging {
		left := model.OxStateKey("left", i)
		if !intEquals(answers.OxStates[left], el.LeftState) {
			wrong = append(wrong, left)
		}
		right := model.OxStateKey("right", i)
		if !intEquals(answers.OxStates[right], el.RightState) {
			wrong = append(wrong, right)
		}
	}
	statesCorrect := len(wrong) == 0

	reducing := strings.ToLower(answers.ReducingAgent)
	oxidizing := strings.ToLower(answers.OxidizingAgent)
	wantReducing := strings.ToLower(analysis.ReducingAgent)
	wantOxidizing := strings.ToLower(analysis.OxidizingAgent)

	reducingContains := strings.Contains(reducing, wantReducing)
	oxidizingContains := strings.Contains(oxidizing, wantOxidizing)

	// exact on either field, or containment on both; see DESIGN.md open questions
	agentsCorrect := strings.TrimSpace(reducing) == strings.TrimSpace(wantReducing) ||
		strings.TrimSpace(oxidizing) == strings.TrimSpace(wantOxidizing) ||
		(reducingContains && oxidizingContains)

	if !reducingContains {
		wrong = append(wrong, FieldReducing)
	}
	if !oxidizingContains {
		wrong = append(wrong, FieldOxidizing)
	}

	if statesCorrect && agentsCorrect {
		return Verdict{Correct: true}
	}
	return Verdict{Wrong: wrong}
}

func checkProcesses(answers model.Answers) Verdict {
	var wrong []string
	if utf16Len(answers.OxidationProcess) <= minProcessLength {
		wrong = append(wrong, FieldOxidationProcess)
	}
	if utf16Len(answers.ReductionProcess) <= minProcessLength {
		wrong = append(wrong, FieldReductionProcess)
	}
	return Verdict{Correct: len(wrong) == 0, Wrong: wrong}
}

func checkMultipliers(analysis *model.Analysis, answers model.Answers) Verdict {
	var wrong []string
	if !intEquals(answers.MultiplierOx, analysis.MultiplierOx) {
		wrong = append(wrong, FieldMultiplierOx)
	}
	if !intEquals(answers.MultiplierRed, analysis.MultiplierRed) {
		wrong = append(wrong, FieldMultiplierRed)
	}
	return Verdict{Correct: len(wrong) == 0, Wrong: wrong}
}

func checkCoefficients(analysis *model.Analysis, answers model.Answers) Verdict {
	var wrong []string
	for i, want := range analysis.BalancedCoefficients {
		var input string
		if i < len(answers.Coefficients) {
			input = answers.Coefficients[i]
		}
		if !coefficientMatches(input, want) {
			wrong = append(wrong, model.CoefficientKey(i))
		}
	}
	return Verdict{Correct: len(wrong) == 0, Wrong: wrong}
}

// coefficientMatches treats an empty box as an implicit 1
func coefficientMatches(input string, want int) bool {
	if want == 1 {
		return input == "" || input == "1"
	}
	return intEquals(input, want)
}
