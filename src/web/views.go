package web

import (
	"redox_tutor/src/model"
	"redox_tutor/src/tutor"
)

var stepTitles = map[model.Step]string{
	model.Step1: "Xác định số oxi hóa và Chất",
	model.Step2: "Viết các quá trình",
	model.Step3: "Tìm hệ số cho quá trình",
	model.Step4: "Cân bằng phương trình",
}

type pageData struct {
	User     *model.User
	Equation string
	Feedback *model.Feedback
	Loading  bool
	Wizard   *wizardView
}

type progressView struct {
	Step    int
	Reached bool
}

type stateInput struct {
	Symbol   string
	Key      string
	Value    string
	Expected int
	Wrong    bool
}

type compoundView struct {
	Formula  string
	States   []stateInput
	CoefKey  string
	Coef     string
	Expected int
}

type wizardView struct {
	Step      int
	Title     string
	Progress  []progressView
	Failed    bool
	Succeeded bool
	Completed bool

	Left  []compoundView
	Right []compoundView

	Reducing       string
	Oxidizing      string
	ReducingWrong  bool
	OxidizingWrong bool
	ReducingAgent  string
	OxidizingAgent string

	OxidationProcess     string
	ReductionProcess     string
	WantOxidationProcess string
	WantReductionProcess string

	MultiplierOx      string
	MultiplierRed     string
	WantMultiplierOx  int
	WantMultiplierRed int

	BalancedEquation string
}

func newPageData(s *model.Session) pageData {
	data := pageData{
		User:     s.User,
		Equation: s.Equation,
		Feedback: s.Feedback,
		Loading:  s.Loading,
	}
	if s.Screen == model.ScreenWizard && s.Analysis != nil {
		data.Wizard = newWizardView(s)
	}
	return data
}

func newWizardView(s *model.Session) *wizardView {
	a := s.Analysis
	wrong := make(map[string]bool, len(s.Wrong))
	for _, key := range s.Wrong {
		wrong[key] = true
	}

	v := &wizardView{
		Step:      int(s.Step),
		Title:     stepTitles[s.Step],
		Failed:    s.Failed(),
		Succeeded: s.Succeeded(),
		Completed: tutor.Completed(s),

		Reducing:       s.Answers.ReducingAgent,
		Oxidizing:      s.Answers.OxidizingAgent,
		ReducingWrong:  wrong[tutor.FieldReducing],
		OxidizingWrong: wrong[tutor.FieldOxidizing],
		ReducingAgent:  a.ReducingAgent,
		OxidizingAgent: a.OxidizingAgent,

		OxidationProcess:     s.Answers.OxidationProcess,
		ReductionProcess:     s.Answers.ReductionProcess,
		WantOxidationProcess: a.OxidationProcess,
		WantReductionProcess: a.ReductionProcess,

		MultiplierOx:      s.Answers.MultiplierOx,
		MultiplierRed:     s.Answers.MultiplierRed,
		WantMultiplierOx:  a.MultiplierOx,
		WantMultiplierRed: a.MultiplierRed,

		BalancedEquation: tutor.BalancedEquation(a),
	}
	for step := model.FirstStep; step <= model.LastStep; step++ {
		v.Progress = append(v.Progress, progressView{Step: int(step), Reached: s.Step >= step})
	}

	compound := func(side string, coefIndex int, formula string) compoundView {
		c := compoundView{Formula: formula, CoefKey: model.CoefficientKey(coefIndex)}
		if coefIndex < len(s.Answers.Coefficients) {
			c.Coef = s.Answers.Coefficients[coefIndex]
		}
		if coefIndex < len(a.BalancedCoefficients) {
			c.Expected = a.BalancedCoefficients[coefIndex]
		}
		for i, el := range a.ElementsChanging {
			expected := el.LeftState
			owner := el.CompoundLeft
			if side == "right" {
				expected = el.RightState
				owner = el.CompoundRight
			}
			if owner != formula {
				continue
			}
			key := model.OxStateKey(side, i)
			c.States = append(c.States, stateInput{
				Symbol:   el.Symbol,
				Key:      key,
				Value:    s.Answers.OxStates[key],
				Expected: expected,
				Wrong:    wrong[key],
			})
		}
		return c
	}
	for i, formula := range a.CompoundsLeft {
		v.Left = append(v.Left, compound("left", i, formula))
	}
	for i, formula := range a.CompoundsRight {
		v.Right = append(v.Right, compound("right", len(a.CompoundsLeft)+i, formula))
	}
	return v
}
