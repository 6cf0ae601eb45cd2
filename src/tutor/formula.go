package tutor

import (
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"redox_tutor/src/model"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// Segment is a run of formula text; Sub marks a digit run shown as a subscript
type Segment struct {
	Text string
	Sub  bool
}

// SplitFormula splits text on digit runs, keeping the runs
func SplitFormula(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range digitRun.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Sub: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// RenderFormula escapes text and wraps every digit run in <sub>
func RenderFormula(text string) template.HTML {
	var b strings.Builder
	b.WriteString(`<span class="formula">`)
	for _, seg := range SplitFormula(text) {
		if seg.Sub {
			b.WriteString("<sub>" + seg.Text + "</sub>")
			continue
		}
		b.WriteString(template.HTMLEscapeString(seg.Text))
	}
	b.WriteString(`</span>`)
	return template.HTML(b.String())
}

// SignedState formats an oxidation state with an explicit plus for zero and up
func SignedState(state int) string {
	if state >= 0 {
		return "+" + strconv.Itoa(state)
	}
	return strconv.Itoa(state)
}

// BalancedEquation writes the balanced equation, leaving out coefficients of 1
func BalancedEquation(analysis *model.Analysis) string {
	if analysis == nil || len(analysis.BalancedCoefficients) != analysis.CompoundCount() {
		return ""
	}

	terms := make([]string, 0, analysis.CompoundCount())
	for i, compound := range analysis.Compounds() {
		if coefficient := analysis.BalancedCoefficients[i]; coefficient != 1 {
			compound = strconv.Itoa(coefficient) + compound
		}
		terms = append(terms, compound)
	}
	left, right := terms[:len(analysis.CompoundsLeft)], terms[len(analysis.CompoundsLeft):]
	return strings.Join(left, " + ") + " -> " + strings.Join(right, " + ")
}
