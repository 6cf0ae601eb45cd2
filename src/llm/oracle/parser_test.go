package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ironSulfuric = `{
	"originalEquation": "Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O",
	"compoundsLeft": ["Fe", "H2SO4"],
	"compoundsRight": ["Fe2(SO4)3", "SO2", "H2O"],
	"elementsChanging": [
		{"symbol": "Fe", "leftState": 0, "rightState": 3, "compoundLeft": "Fe", "compoundRight": "Fe2(SO4)3"},
		{"symbol": "S", "leftState": 6, "rightState": 4, "compoundLeft": "H2SO4", "compoundRight": "SO2"}
	],
	"reducingAgent": "Fe",
	"oxidizingAgent": "H2SO4",
	"oxidationProcess": "2Fe -> 2Fe+3 + 6e",
	"reductionProcess": "S+6 + 2e -> S+4",
	"multiplierOx": 1,
	"multiplierRed": 3,
	"balancedCoefficients": [2, 6, 1, 3, 6]
}`

func TestParseAnalysis(t *testing.T) {
	analysis, err := ParseAnalysis(ironSulfuric)
	require.NoError(t, err)

	assert.Equal(t, "Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O", analysis.OriginalEquation)
	assert.Equal(t, []string{"Fe", "H2SO4"}, analysis.CompoundsLeft)
	assert.Equal(t, []string{"Fe2(SO4)3", "SO2", "H2O"}, analysis.CompoundsRight)
	require.Len(t, analysis.ElementsChanging, 2)
	assert.Equal(t, "S", analysis.ElementsChanging[1].Symbol)
	assert.Equal(t, 6, analysis.ElementsChanging[1].LeftState)
	assert.Equal(t, 4, analysis.ElementsChanging[1].RightState)
	assert.Equal(t, 1, analysis.MultiplierOx)
	assert.Equal(t, 3, analysis.MultiplierRed)
	assert.Equal(t, []int{2, 6, 1, 3, 6}, analysis.BalancedCoefficients)
}

func TestParseAnalysisStripsFencesAndProse(t *testing.T) {
	for name, content := range map[string]string{
		"json fence":  "```json\n" + ironSulfuric + "\n```",
		"plain fence": "```\n" + ironSulfuric + "\n```",
		"prose":       "Here is the analysis:\n" + ironSulfuric + "\nGood luck!",
	} {
		t.Run(name, func(t *testing.T) {
			analysis, err := ParseAnalysis(content)
			require.NoError(t, err)
			assert.Equal(t, "Fe", analysis.ReducingAgent)
		})
	}
}

func TestParseAnalysisAcceptsNoChangingElements(t *testing.T) {
	content := strings.Replace(ironSulfuric, `"elementsChanging": [`, `"elementsChanging": [], "unused": [`, 1)
	analysis, err := ParseAnalysis(content)
	require.NoError(t, err)
	assert.Empty(t, analysis.ElementsChanging)
}

func TestParseAnalysisRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":           "I cannot balance this equation.",
		"truncated":          ironSulfuric[:len(ironSulfuric)/2],
		"missing field":      strings.Replace(ironSulfuric, `"reducingAgent": "Fe",`, "", 1),
		"null field":         strings.Replace(ironSulfuric, `"multiplierOx": 1`, `"multiplierOx": null`, 1),
		"fractional":         strings.Replace(ironSulfuric, `"multiplierRed": 3`, `"multiplierRed": 1.5`, 1),
		"wrong type":         strings.Replace(ironSulfuric, `"multiplierRed": 3`, `"multiplierRed": "3"`, 1),
		"length mismatch":    strings.Replace(ironSulfuric, `[2, 6, 1, 3, 6]`, `[2, 6, 1, 3]`, 1),
		"incomplete element": strings.Replace(ironSulfuric, `"compoundLeft": "Fe", `, "", 1),
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAnalysis(content)
			assert.ErrorIs(t, err, ErrMalformedAnalysis)
		})
	}
}
