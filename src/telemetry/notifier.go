package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"redox_tutor/src/logger"
	"redox_tutor/src/metrics"
	"redox_tutor/src/model"

	"github.com/bytedance/sonic"
)

// Notifier delivers telemetry events at most once, with no delivery guarantee.
// Notify never blocks on the network and never reports failures to the caller.
type Notifier interface {
	Notify(event model.Event)
	Close(ctx context.Context) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Notify(model.Event) {}

func (Nop) Close(context.Context) error { return nil }

// SheetNotifier posts {action, payload} bodies to a spreadsheet web-app endpoint.
// The endpoint's response is drained and ignored.
type SheetNotifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan model.Event
	done   chan struct{}
}

// NewSheetNotifier starts the delivery worker. Call Close to stop it.
func NewSheetNotifier(config model.TelemetryConfig, client *http.Client, m *metrics.Metrics) *SheetNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	size := config.QueueSize
	if size < 1 {
		size = 1
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	n := &SheetNotifier{
		url:     config.URL,
		client:  client,
		timeout: timeout,
		metrics: m,
		queue:   make(chan model.Event, size),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify queues the event, or drops it when the queue is full or closed
func (n *SheetNotifier) Notify(event model.Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.drop(event, "notifier closed")
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case n.queue <- event:
	default:
		n.drop(event, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be attempted
func (n *SheetNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telemetry drain interrupted: %w", ctx.Err())
	}
}

func (n *SheetNotifier) run() {
	defer close(n.done)
	for event := range n.queue {
		n.send(event)
	}
}

func (n *SheetNotifier) send(event model.Event) {
	action := string(event.Action)
	if err := n.post(event); err != nil {
		logger.Warn().Err(err).Str("action", action).Msg("Telemetry delivery failed")
		n.metrics.ObserveTelemetry(action, "failed")
		return
	}
	n.metrics.ObserveTelemetry(action, "sent")
}

func (n *SheetNotifier) post(event model.Event) error {
	body, err := sonic.ConfigStd.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	// Apps Script web apps accept simple requests without a CORS preflight
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug().
		Str("action", string(event.Action)).
		Int("status", resp.StatusCode).
		Dur("queued_for", time.Since(event.At)).
		Msg("Telemetry posted")
	return nil
}

func (n *SheetNotifier) drop(event model.Event, reason string) {
	logger.Warn().Str("action", string(event.Action)).Str("reason", reason).Msg("Telemetry event dropped")
	n.metrics.ObserveTelemetry(string(event.Action), "dropped")
}

// New returns a SheetNotifier, or Nop when no endpoint is configured
func New(config model.TelemetryConfig, m *metrics.Metrics) Notifier {
	if config.URL == "" {
		logger.Info().Msg("TELEMETRY_URL not set, telemetry disabled")
		return Nop{}
	}
	return NewSheetNotifier(config, &http.Client{}, m)
}
