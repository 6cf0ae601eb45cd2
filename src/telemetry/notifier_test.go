package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"redox_tutor/src/metrics"
	"redox_tutor/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type capturedPost struct {
	contentType string
	body        map[string]any
}

type sink struct {
	mu    sync.Mutex
	posts []capturedPost
	got   chan struct{}
}

func newSink(t *testing.T, status int) (*sink, *httptest.Server) {
	s := &sink{got: make(chan struct{}, 16)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		s.mu.Lock()
		s.posts = append(s.posts, capturedPost{contentType: r.Header.Get("Content-Type"), body: body})
		s.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte("ignored"))
		s.got <- struct{}{}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func testClient() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

// telemetryCount reads one series of redox_tutor_telemetry_events_total
func telemetryCount(t *testing.T, m *metrics.Metrics, action, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "redox_tutor_telemetry_events_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["action"] == action && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for telemetry post")
	}
}

func TestSheetNotifierPostsActionAndPayload(t *testing.T) {
	s, srv := newSink(t, http.StatusOK)
	m := metrics.New()
	n := NewSheetNotifier(model.TelemetryConfig{URL: srv.URL, QueueSize: 4, Timeout: time.Second}, testClient(), m)

	n.Notify(model.Event{
		Action: model.ActionLogError,
		Payload: model.StepErrorPayload{
			SessionID:   "SESS_1",
			Email:       "an@example.com",
			Step:        "Bước 3",
			ErrorDetail: "Sai hệ số thăng bằng",
			Attempts:    2,
		},
	})
	waitFor(t, s.got)
	require.NoError(t, n.Close(context.Background()))

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.posts, 1)
	post := s.posts[0]
	assert.Equal(t, "text/plain;charset=utf-8", post.contentType)
	assert.Equal(t, "LOG_ERROR", post.body["action"])
	payload := post.body["payload"].(map[string]any)
	assert.Equal(t, "SESS_1", payload["sessionId"])
	assert.Equal(t, "Bước 3", payload["step"])
	assert.Equal(t, float64(2), payload["attempts"])
	assert.Equal(t, 1.0, telemetryCount(t, m, "LOG_ERROR", "sent"))
}

func TestSheetNotifierIgnoresResponseStatus(t *testing.T) {
	s, srv := newSink(t, http.StatusInternalServerError)
	n := NewSheetNotifier(model.TelemetryConfig{URL: srv.URL, QueueSize: 1}, testClient(), nil)

	n.Notify(model.Event{Action: model.ActionLogin, Payload: model.LoginPayload{Name: "An"}})
	waitFor(t, s.got)
	assert.NoError(t, n.Close(context.Background()))
}

func TestSheetNotifierSwallowsTransportFailure(t *testing.T) {
	m := metrics.New()
	n := NewSheetNotifier(model.TelemetryConfig{URL: "http://127.0.0.1:1/unreachable", QueueSize: 1, Timeout: 200 * time.Millisecond}, testClient(), m)

	assert.NotPanics(t, func() {
		n.Notify(model.Event{Action: model.ActionLogReaction, Payload: model.ReactionPayload{SessionID: "SESS_2"}})
	})
	require.NoError(t, n.Close(context.Background()))
	assert.Equal(t, 1.0, telemetryCount(t, m, "LOG_REACTION", "failed"))
}

func TestSheetNotifierDropsAfterClose(t *testing.T) {
	m := metrics.New()
	n := NewSheetNotifier(model.TelemetryConfig{URL: "http://127.0.0.1:1", QueueSize: 1}, testClient(), m)
	require.NoError(t, n.Close(context.Background()))
	require.NoError(t, n.Close(context.Background()), "close is idempotent")

	n.Notify(model.Event{Action: model.ActionLogin})
	assert.Equal(t, 1.0, telemetryCount(t, m, "LOGIN", "dropped"))
}

func TestSheetNotifierDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	m := metrics.New()
	n := NewSheetNotifier(model.TelemetryConfig{URL: srv.URL, QueueSize: 1, Timeout: 5 * time.Second}, testClient(), m)

	// the first event may already be in flight, so push enough to overflow
	for i := 0; i < 5; i++ {
		n.Notify(model.Event{Action: model.ActionLogError})
	}
	close(release)
	require.NoError(t, n.Close(context.Background()))

	assert.Greater(t, telemetryCount(t, m, "LOG_ERROR", "dropped"), 0.0)
	assert.Equal(t, 5.0, telemetryCount(t, m, "LOG_ERROR", "dropped")+telemetryCount(t, m, "LOG_ERROR", "sent"))
}

func TestNewWithoutURLIsNop(t *testing.T) {
	n := New(model.TelemetryConfig{}, nil)
	_, ok := n.(Nop)
	assert.True(t, ok)
	n.Notify(model.Event{Action: model.ActionLogin})
	assert.NoError(t, n.Close(context.Background()))
}
