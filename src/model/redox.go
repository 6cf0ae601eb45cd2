package model

// ----------------------------------------------------
// ================ Analysis ================
// ElementChange is an element whose oxidation state differs between the two sides
type ElementChange struct {
	Symbol        string `json:"symbol"`
	LeftState     int    `json:"leftState"`
	RightState    int    `json:"rightState"`
	CompoundLeft  string `json:"compoundLeft"`
	CompoundRight string `json:"compoundRight"`
}

// Analysis is the oracle's breakdown of a redox equation. It is trusted as-is.
type Analysis struct {
	OriginalEquation     string          `json:"originalEquation"`
	CompoundsLeft        []string        `json:"compoundsLeft"`
	CompoundsRight       []string        `json:"compoundsRight"`
	ElementsChanging     []ElementChange `json:"elementsChanging"`
	ReducingAgent        string          `json:"reducingAgent"`
	OxidizingAgent       string          `json:"oxidizingAgent"`
	OxidationProcess     string          `json:"oxidationProcess"` // e.g. "Fe -> Fe+3 + 3e"
	ReductionProcess     string          `json:"reductionProcess"` // e.g. "S+6 + 2e -> S+4"
	MultiplierOx         int             `json:"multiplierOx"`
	MultiplierRed        int             `json:"multiplierRed"`
	BalancedCoefficients []int           `json:"balancedCoefficients"` // left then right
}

// CompoundCount returns the number of compounds on both sides
func (a *Analysis) CompoundCount() int {
	return len(a.CompoundsLeft) + len(a.CompoundsRight)
}

// Compounds returns every compound in coefficient order
func (a *Analysis) Compounds() []string {
	out := make([]string, 0, a.CompoundCount())
	out = append(out, a.CompoundsLeft...)
	return append(out, a.CompoundsRight...)
}
