package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"redox_tutor/src/logger"
	"redox_tutor/src/metrics"
	"redox_tutor/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Oracle turns a free-text redox equation into a trusted analysis
type Oracle interface {
	Analyze(ctx context.Context, equation string) (*model.Analysis, error)
}

// ChainOracle runs the analysis prompt through an eino chain: ChatTemplate -> ChatModel
type ChainOracle struct {
	provider string
	timeout  time.Duration
	chain    compose.Runnable[map[string]any, *schema.Message]
	metrics  *metrics.Metrics
}

// NewChainOracle compiles the chain around any eino chat model
func NewChainOracle(ctx context.Context, provider string, chatModel einomodel.BaseChatModel, timeout time.Duration, m *metrics.Metrics) (*ChainOracle, error) {
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(CreateAnalysisTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating eino chain: %w", err)
	}

	return &ChainOracle{
		provider: provider,
		timeout:  timeout,
		chain:    chain,
		metrics:  m,
	}, nil
}

func (o *ChainOracle) Analyze(ctx context.Context, equation string) (analysis *model.Analysis, err error) {
	start := time.Now()
	defer func() { observe(o.metrics, o.provider, equation, start, err) }()

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.chain.Invoke(ctx, map[string]any{"equation": equation})
	if err != nil {
		return nil, fmt.Errorf("error generating analysis: %w", err)
	}
	return ParseAnalysis(out.Content)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func observe(m *metrics.Metrics, provider, equation string, start time.Time, err error) {
	elapsed := time.Since(start)
	m.ObserveOracle(provider, elapsed, err)

	event := logger.Info()
	msg := "Equation analyzed"
	if err != nil {
		event = logger.Warn().Err(err)
		msg = "Equation analysis failed"
	}
	event.
		Str("provider", provider).
		Int("equation_length", len(strings.TrimSpace(equation))).
		Dur("elapsed", elapsed).
		Msg(msg)

	if elapsed > 20*time.Second {
		logger.Warn().Str("provider", provider).Dur("elapsed", elapsed).Msg("Slow equation analysis detected")
	}
}
