package oracle

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// the template is rendered with schema.FString, so the text must not contain
// braces other than the equation placeholder
func getSystemTemplate() string {
	return `You are a chemistry teacher's assistant. Analyze oxidation-reduction equations and balance them with the electron-transfer method.

			Return ONLY one JSON object, with no prose and no markdown fences. The object has exactly these keys:
			- originalEquation: the equation as given
			- compoundsLeft: array of reactant formulas, in the order written
			- compoundsRight: array of product formulas, in the order written
			- elementsChanging: array of objects, one per element whose oxidation state changes, each with
			  symbol (string), leftState (integer), rightState (integer), compoundLeft (string), compoundRight (string)
			- reducingAgent: formula of the reducing agent
			- oxidizingAgent: formula of the oxidizing agent
			- oxidationProcess: oxidation half-process with the electrons on the RIGHT of the arrow, for example Zn -> Zn+2 + 2e
			- reductionProcess: reduction half-process with the electrons on the LEFT of the arrow, for example S+6 + 2e -> S+4
			- multiplierOx: integer multiplier for the oxidation process, from the least common multiple of electrons
			- multiplierRed: integer multiplier for the reduction process
			- balancedCoefficients: array of integers, one per compound, reactants first then products

			Rules:
			1. Never write the oxidation electrons on the left with a minus sign.
			2. Write 1 in balancedCoefficients when a coefficient is 1. Never omit it.
			3. balancedCoefficients must have exactly as many entries as compoundsLeft and compoundsRight together.
			4. All numbers are integers.`
}

func getUserTemplate() string {
	return `Equation: {equation}

			JSON:`
}

// CreateAnalysisTemplate builds the chat template; its only variable is "equation"
func CreateAnalysisTemplate() prompt.ChatTemplate {
	messages := []schema.MessagesTemplate{
		schema.SystemMessage(getSystemTemplate()),
		schema.UserMessage(getUserTemplate()),
	}
	return prompt.FromMessages(schema.FString, messages...)
}

// analysisPrompt is the single-turn prompt for providers that take plain text
func analysisPrompt(equation string) string {
	return getSystemTemplate() + "\n\nEquation: " + equation + "\n"
}
