package tutor

import (
	"html/template"
	"testing"

	"redox_tutor/src/model"

	"github.com/stretchr/testify/assert"
)

func TestSplitFormula(t *testing.T) {
	assert.Equal(t, []Segment{
		{Text: "Fe"}, {Text: "2", Sub: true},
		{Text: "(SO"}, {Text: "4", Sub: true},
		{Text: ")"}, {Text: "3", Sub: true},
	}, SplitFormula("Fe2(SO4)3"))

	assert.Equal(t, []Segment{{Text: "12", Sub: true}, {Text: "C"}}, SplitFormula("12C"))
	assert.Equal(t, []Segment{{Text: "Fe"}}, SplitFormula("Fe"))
	assert.Empty(t, SplitFormula(""))
}

func TestRenderFormulaEscapes(t *testing.T) {
	assert.Equal(t, template.HTML(`<span class="formula">H<sub>2</sub>SO<sub>4</sub></span>`), RenderFormula("H2SO4"))
	assert.Equal(t, template.HTML(`<span class="formula">&lt;b&gt;<sub>1</sub></span>`), RenderFormula("<b>1"))
}

func TestSignedState(t *testing.T) {
	assert.Equal(t, "+3", SignedState(3))
	assert.Equal(t, "+0", SignedState(0))
	assert.Equal(t, "-2", SignedState(-2))
}

func TestBalancedEquationOmitsOnes(t *testing.T) {
	assert.Equal(t, "2Fe + 6H2SO4 -> Fe2(SO4)3 + 3SO2 + 6H2O", BalancedEquation(ironSulfuric()))

	broken := ironSulfuric()
	broken.BalancedCoefficients = broken.BalancedCoefficients[:2]
	assert.Empty(t, BalancedEquation(broken))
	assert.Empty(t, BalancedEquation((*model.Analysis)(nil)))
}
