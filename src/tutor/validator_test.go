package tutor

import (
	"testing"

	"redox_tutor/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ironSulfuric is Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O
func ironSulfuric() *model.Analysis {
	return &model.Analysis{
		OriginalEquation: "Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O",
		CompoundsLeft:    []string{"Fe", "H2SO4"},
		CompoundsRight:   []string{"Fe2(SO4)3", "SO2", "H2O"},
		ElementsChanging: []model.ElementChange{
			{Symbol: "Fe", LeftState: 0, RightState: 3, CompoundLeft: "Fe", CompoundRight: "Fe2(SO4)3"},
			{Symbol: "S", LeftState: 6, RightState: 4, CompoundLeft: "H2SO4", CompoundRight: "SO2"},
		},
		ReducingAgent:        "Fe",
		OxidizingAgent:       "H2SO4",
		OxidationProcess:     "2Fe -> 2Fe+3 + 6e",
		ReductionProcess:     "S+6 + 2e -> S+4",
		MultiplierOx:         1,
		MultiplierRed:        3,
		BalancedCoefficients: []int{2, 6, 1, 3, 6},
	}
}

func correctStates() map[string]string {
	return map[string]string{"left_0": "0", "right_0": "+3", "left_1": "+6", "right_1": "4"}
}

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3", 3, true},
		{"  +3", 3, true},
		{"-2", -2, true},
		{"3abc", 3, true},
		{"3.9", 3, true},
		{"007", 7, true},
		{"0x1A", 26, true},
		{"\t\n 12 ", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"+", 0, false},
		{"- 3", 0, false},
		{"0x", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseLeadingInt(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 5, utf16Len("abcde"))
	assert.Equal(t, 5, utf16Len("ăâđêô"))
	assert.Equal(t, 6, utf16Len("😀😀😀"))
}

func TestValidateGuardsCoefficientLength(t *testing.T) {
	analysis := ironSulfuric()
	analysis.BalancedCoefficients = []int{2, 6, 1, 3}

	for step := model.Step1; step <= model.Step4; step++ {
		_, err := Validate(step, analysis, model.NewAnswers(5))
		assert.ErrorIs(t, err, ErrInvalidAnalysis)
	}
}

func TestValidateRejectsMissingAnalysisAndBadStep(t *testing.T) {
	_, err := Validate(model.Step1, nil, model.NewAnswers(0))
	assert.ErrorIs(t, err, ErrNoAnalysis)

	_, err = Validate(model.Step(5), ironSulfuric(), model.NewAnswers(5))
	assert.Error(t, err)
}

func TestValidateStep1(t *testing.T) {
	cases := []struct {
		name      string
		states    map[string]string
		reducing  string
		oxidizing string
		correct   bool
		wrong     []string
	}{
		{
			name:      "exact agents",
			states:    correctStates(),
			reducing:  "Fe",
			oxidizing: "H2SO4",
			correct:   true,
		},
		{
			name:      "case and whitespace are ignored",
			states:    correctStates(),
			reducing:  "  fe ",
			oxidizing: "h2so4",
			correct:   true,
		},
		{
			name:      "containment on both fields",
			states:    correctStates(),
			reducing:  "Fe (sắt)",
			oxidizing: "H2SO4 đặc",
			correct:   true,
		},
		{
			name:      "exact reducing alone is enough",
			states:    correctStates(),
			reducing:  "Fe",
			oxidizing: "",
			correct:   true,
		},
		{
			name:      "exact oxidizing alone is enough",
			states:    correctStates(),
			reducing:  "Cu",
			oxidizing: " H2SO4 ",
			correct:   true,
		},
		{
			name:      "containment on one field only",
			states:    correctStates(),
			reducing:  "chất Fe",
			oxidizing: "SO2",
			wrong:     []string{FieldOxidizing},
		},
		{
			name:      "wrong state",
			states:    map[string]string{"left_0": "0", "right_0": "+2", "left_1": "6", "right_1": "4"},
			reducing:  "Fe",
			oxidizing: "H2SO4",
			wrong:     []string{"right_0"},
		},
		{
			name:      "blank states",
			states:    map[string]string{},
			reducing:  "Fe",
			oxidizing: "H2SO4",
			wrong:     []string{"left_0", "right_0", "left_1", "right_1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := model.NewAnswers(5)
			answers.OxStates = tc.states
			answers.ReducingAgent = tc.reducing
			answers.OxidizingAgent = tc.oxidizing

			v, err := Validate(model.Step1, ironSulfuric(), answers)
			require.NoError(t, err)
			assert.Equal(t, model.Step1, v.Step)
			assert.Equal(t, tc.correct, v.Correct)
			if !tc.correct {
				assert.Equal(t, tc.wrong, v.Wrong)
			}
		})
	}
}

func TestValidateStep1WithoutChangingElements(t *testing.T) {
	analysis := ironSulfuric()
	analysis.ElementsChanging = nil

	answers := model.NewAnswers(5)
	answers.ReducingAgent = "Fe"
	v, err := Validate(model.Step1, analysis, answers)
	require.NoError(t, err)
	assert.True(t, v.Correct)
}

func TestValidateStep2(t *testing.T) {
	cases := []struct {
		name      string
		oxidation string
		reduction string
		correct   bool
	}{
		{"both long enough", "Fe -> Fe+3 + 3e", "S+6 + 2e -> S+4", true},
		{"six characters", "Fe->Fe", "S+6->S", true},
		{"five characters", "Fe->F", "S+6 + 2e -> S+4", false},
		{"empty", "", "", false},
		{"five accented letters", "ăâđêô", "S+6 + 2e -> S+4", false},
		{"surrogate pairs count twice", "😀😀😀", "😀😀😀", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := model.NewAnswers(5)
			answers.OxidationProcess = tc.oxidation
			answers.ReductionProcess = tc.reduction

			v, err := Validate(model.Step2, ironSulfuric(), answers)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, v.Correct)
		})
	}
}

func TestValidateStep3(t *testing.T) {
	cases := []struct {
		ox, red string
		correct bool
		wrong   []string
	}{
		{"1", "3", true, nil},
		{" 1", "3 ", true, nil},
		{"1.9", "3", true, nil},
		{"3", "1", false, []string{FieldMultiplierOx, FieldMultiplierRed}},
		{"1", "", false, []string{FieldMultiplierRed}},
		{"one", "3", false, []string{FieldMultiplierOx}},
	}
	for _, tc := range cases {
		answers := model.NewAnswers(5)
		answers.MultiplierOx = tc.ox
		answers.MultiplierRed = tc.red

		v, err := Validate(model.Step3, ironSulfuric(), answers)
		require.NoError(t, err)
		assert.Equal(t, tc.correct, v.Correct, "ox=%q red=%q", tc.ox, tc.red)
		assert.Equal(t, tc.wrong, v.Wrong, "ox=%q red=%q", tc.ox, tc.red)
	}
}

func TestValidateStep4(t *testing.T) {
	cases := []struct {
		name    string
		inputs  []string
		correct bool
		wrong   []string
	}{
		{"empty means one", []string{"2", "6", "", "3", "6"}, true, nil},
		{"explicit one", []string{"2", "6", "1", "3", "6"}, true, nil},
		{"trailing junk parses", []string{"2 ", "6x", "", " 3", "6.0"}, true, nil},
		{"padded one is not exact", []string{"2", "6", " 1", "3", "6"}, false, []string{"coef_2"}},
		{"zero-padded one is not exact", []string{"2", "6", "01", "3", "6"}, false, []string{"coef_2"}},
		{"empty is not two", []string{"", "6", "", "3", "6"}, false, []string{"coef_0"}},
		{"wrong value", []string{"2", "3", "", "3", "3"}, false, []string{"coef_1", "coef_4"}},
		{"missing buffers", nil, false, []string{"coef_0", "coef_1", "coef_3", "coef_4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := model.NewAnswers(0)
			answers.Coefficients = tc.inputs

			v, err := Validate(model.Step4, ironSulfuric(), answers)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, v.Correct)
			assert.Equal(t, tc.wrong, v.Wrong)
		})
	}
}

// reductionExample is a synthetic analysis with a +3 -> 0 change,
// multipliers (2, 3) and coefficients [1,3,1,3,3]
func reductionExample() *model.Analysis {
	return &model.Analysis{
		OriginalEquation: "Fe2O3 + CO -> Fe + CO2 + C",
		CompoundsLeft:    []string{"Fe2O3", "CO"},
		CompoundsRight:   []string{"Fe", "CO2", "C"},
		ElementsChanging: []model.ElementChange{
			{Symbol: "Fe", LeftState: 3, RightState: 0, CompoundLeft: "Fe2O3", CompoundRight: "Fe"},
		},
		ReducingAgent:        "CO",
		OxidizingAgent:       "Fe2O3",
		OxidationProcess:     "C+2 -> C+4 + 2e",
		ReductionProcess:     "Fe+3 + 3e -> Fe",
		MultiplierOx:         2,
		MultiplierRed:        3,
		BalancedCoefficients: []int{1, 3, 1, 3, 3},
	}
}

func TestValidateStep1StateExamples(t *testing.T) {
	answers := model.NewAnswers(5)
	answers.ReducingAgent = "CO"
	answers.OxidizingAgent = "Fe2O3"

	answers.OxStates = map[string]string{"left_0": "3", "right_0": "0"}
	v, err := Validate(model.Step1, reductionExample(), answers)
	require.NoError(t, err)
	assert.True(t, v.Correct)

	answers.OxStates = map[string]string{"left_0": "2", "right_0": "0"}
	for _, agents := range [][2]string{{"CO", "Fe2O3"}, {"", ""}, {"co", "fe2o3"}} {
		answers.ReducingAgent, answers.OxidizingAgent = agents[0], agents[1]
		v, err = Validate(model.Step1, reductionExample(), answers)
		require.NoError(t, err)
		assert.False(t, v.Correct, "agents %q", agents)
		assert.Contains(t, v.Wrong, "left_0")
	}
}

func TestValidateStep3MultiplierExamples(t *testing.T) {
	answers := model.NewAnswers(5)
	answers.MultiplierOx, answers.MultiplierRed = "2", "3"
	v, err := Validate(model.Step3, reductionExample(), answers)
	require.NoError(t, err)
	assert.True(t, v.Correct)

	answers.MultiplierOx, answers.MultiplierRed = "3", "2"
	v, err = Validate(model.Step3, reductionExample(), answers)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, []string{FieldMultiplierOx, FieldMultiplierRed}, v.Wrong)
}

func TestValidateStep4CoefficientExamples(t *testing.T) {
	cases := []struct {
		name    string
		inputs  []string
		correct bool
		wrong   []string
	}{
		{"index 0 left empty", []string{"", "3", "1", "3", "3"}, true, nil},
		{"index 0 explicit one", []string{"1", "3", "1", "3", "3"}, true, nil},
		{"two where one is expected", []string{"2", "3", "1", "3", "3"}, false, []string{"coef_0"}},
		{"two at the other one", []string{"", "3", "2", "3", "3"}, false, []string{"coef_2"}},
		{"empty where three is expected", []string{"", "", "1", "3", "3"}, false, []string{"coef_1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := model.NewAnswers(0)
			answers.Coefficients = tc.inputs

			v, err := Validate(model.Step4, reductionExample(), answers)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, v.Correct)
			assert.Equal(t, tc.wrong, v.Wrong)
		})
	}
}
