package oracle

import (
	"context"
	"fmt"
	"time"

	"redox_tutor/src/metrics"
	"redox_tutor/src/model"

	"google.golang.org/genai"
)

// contentGenerator is the slice of *genai.Models the oracle uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOracle asks Gemini for JSON constrained by a response schema
type GeminiOracle struct {
	models  contentGenerator
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewGeminiOracle creates a Gemini API client for the configured key
func NewGeminiOracle(ctx context.Context, config model.OracleConfig, m *metrics.Metrics) (*GeminiOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("ORACLE_API_KEY is required for gemini")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGeminiOracle(client.Models, config, m), nil
}

func newGeminiOracle(models contentGenerator, config model.OracleConfig, m *metrics.Metrics) *GeminiOracle {
	name := config.Model
	if name == "" {
		name = defaultModels["gemini"]
	}

	generateConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
		Temperature:      genai.Ptr(float32(config.Temperature)),
	}
	if config.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(config.MaxTokens)
	}

	return &GeminiOracle{
		models:  models,
		model:   name,
		config:  generateConfig,
		timeout: config.Timeout,
		metrics: m,
	}
}

func (o *GeminiOracle) Analyze(ctx context.Context, equation string) (analysis *model.Analysis, err error) {
	start := time.Now()
	defer func() { observe(o.metrics, "gemini", equation, start, err) }()

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(analysisPrompt(equation)), o.config)
	if err != nil {
		return nil, fmt.Errorf("error generating analysis: %w", err)
	}
	return ParseAnalysis(resp.Text())
}

// analysisSchema mirrors model.Analysis; every property is required
func analysisSchema() *genai.Schema {
	str := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
	integer := &genai.Schema{Type: genai.TypeInteger}
	stringList := &genai.Schema{Type: genai.TypeArray, Items: str("")}

	element := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"symbol":        str(""),
			"leftState":     integer,
			"rightState":    integer,
			"compoundLeft":  str(""),
			"compoundRight": str(""),
		},
		Required: []string{"symbol", "leftState", "rightState", "compoundLeft", "compoundRight"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"originalEquation":     str(""),
			"compoundsLeft":        stringList,
			"compoundsRight":       stringList,
			"elementsChanging":     {Type: genai.TypeArray, Items: element},
			"reducingAgent":        str(""),
			"oxidizingAgent":       str(""),
			"oxidationProcess":     str("Format: A -> B + ne"),
			"reductionProcess":     str("Format: A + ne -> B"),
			"multiplierOx":         integer,
			"multiplierRed":        integer,
			"balancedCoefficients": {Type: genai.TypeArray, Items: integer},
		},
		Required: []string{
			"originalEquation", "compoundsLeft", "compoundsRight",
			"elementsChanging", "reducingAgent", "oxidizingAgent",
			"oxidationProcess", "reductionProcess", "multiplierOx",
			"multiplierRed", "balancedCoefficients",
		},
	}
}
