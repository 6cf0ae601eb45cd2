package oracle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"redox_tutor/src/model"

	"github.com/bytedance/sonic"
)

// ErrMalformedAnalysis marks oracle output that is not a complete analysis
var ErrMalformedAnalysis = errors.New("malformed analysis")

type rawElement struct {
	Symbol        *string  `json:"symbol"`
	LeftState     *float64 `json:"leftState"`
	RightState    *float64 `json:"rightState"`
	CompoundLeft  *string  `json:"compoundLeft"`
	CompoundRight *string  `json:"compoundRight"`
}

// rawAnalysis uses pointers so missing keys can be told apart from zero values
type rawAnalysis struct {
	OriginalEquation     *string       `json:"originalEquation"`
	CompoundsLeft        *[]string     `json:"compoundsLeft"`
	CompoundsRight       *[]string     `json:"compoundsRight"`
	ElementsChanging     *[]rawElement `json:"elementsChanging"`
	ReducingAgent        *string       `json:"reducingAgent"`
	OxidizingAgent       *string       `json:"oxidizingAgent"`
	OxidationProcess     *string       `json:"oxidationProcess"`
	ReductionProcess     *string       `json:"reductionProcess"`
	MultiplierOx         *float64      `json:"multiplierOx"`
	MultiplierRed        *float64      `json:"multiplierRed"`
	BalancedCoefficients *[]float64    `json:"balancedCoefficients"`
}

// extractJSON strips markdown fences and surrounding prose around the object
func extractJSON(content string) (string, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrMalformedAnalysis)
	}
	return text[start : end+1], nil
}

// ParseAnalysis decodes an oracle response. Every field is required, numbers
// must be integral, and the coefficient count must match the compound count.
func ParseAnalysis(content string) (*model.Analysis, error) {
	body, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var raw rawAnalysis
	if err := sonic.ConfigStd.UnmarshalFromString(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	return raw.toAnalysis()
}

func (r *rawAnalysis) toAnalysis() (*model.Analysis, error) {
	var missing []string
	require := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}
	require(r.OriginalEquation != nil, "originalEquation")
	require(r.CompoundsLeft != nil, "compoundsLeft")
	require(r.CompoundsRight != nil, "compoundsRight")
	require(r.ElementsChanging != nil, "elementsChanging")
	require(r.ReducingAgent != nil, "reducingAgent")
	require(r.OxidizingAgent != nil, "oxidizingAgent")
	require(r.OxidationProcess != nil, "oxidationProcess")
	require(r.ReductionProcess != nil, "reductionProcess")
	require(r.MultiplierOx != nil, "multiplierOx")
	require(r.MultiplierRed != nil, "multiplierRed")
	require(r.BalancedCoefficients != nil, "balancedCoefficients")
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedAnalysis, strings.Join(missing, ", "))
	}

	multiplierOx, err := toInt(*r.MultiplierOx, "multiplierOx")
	if err != nil {
		return nil, err
	}
	multiplierRed, err := toInt(*r.MultiplierRed, "multiplierRed")
	if err != nil {
		return nil, err
	}

	elements := make([]model.ElementChange, 0, len(*r.ElementsChanging))
	for i, el := range *r.ElementsChanging {
		if el.Symbol == nil || el.LeftState == nil || el.RightState == nil || el.CompoundLeft == nil || el.CompoundRight == nil {
			return nil, fmt.Errorf("%w: elementsChanging[%d] is incomplete", ErrMalformedAnalysis, i)
		}
		left, err := toInt(*el.LeftState, fmt.Sprintf("elementsChanging[%d].leftState", i))
		if err != nil {
			return nil, err
		}
		right, err := toInt(*el.RightState, fmt.Sprintf("elementsChanging[%d].rightState", i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, model.ElementChange{
			Symbol:        *el.Symbol,
			LeftState:     left,
			RightState:    right,
			CompoundLeft:  *el.CompoundLeft,
			CompoundRight: *el.CompoundRight,
		})
	}

	coefficients := make([]int, 0, len(*r.BalancedCoefficients))
	for i, c := range *r.BalancedCoefficients {
		n, err := toInt(c, fmt.Sprintf("balancedCoefficients[%d]", i))
		if err != nil {
			return nil, err
		}
		coefficients = append(coefficients, n)
	}

	analysis := &model.Analysis{
		OriginalEquation:     *r.OriginalEquation,
		CompoundsLeft:        *r.CompoundsLeft,
		CompoundsRight:       *r.CompoundsRight,
		ElementsChanging:     elements,
		ReducingAgent:        *r.ReducingAgent,
		OxidizingAgent:       *r.OxidizingAgent,
		OxidationProcess:     *r.OxidationProcess,
		ReductionProcess:     *r.ReductionProcess,
		MultiplierOx:         multiplierOx,
		MultiplierRed:        multiplierRed,
		BalancedCoefficients: coefficients,
	}
	if len(analysis.BalancedCoefficients) != analysis.CompoundCount() {
		return nil, fmt.Errorf("%w: %d coefficients for %d compounds",
			ErrMalformedAnalysis, len(analysis.BalancedCoefficients), analysis.CompoundCount())
	}
	return analysis, nil
}

func toInt(v float64, field string) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is not an integer: %v", ErrMalformedAnalysis, field, v)
	}
	return int(v), nil
}
