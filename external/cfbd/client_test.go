package cfbd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/recruitboard/recruitboard/internal/platform/logging"
	"github.com/recruitboard/recruitboard/internal/platform/resilience"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

type stubTransport struct {
	responses []stubResponse
	calls     int
}

type stubResponse struct {
	status int
	body   string
	err    error
}

func (s *stubTransport) DoTimeout(_ *fasthttp.Request, resp *fasthttp.Response, _ time.Duration) error {
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++

	r := s.responses[idx]
	if r.err != nil {
		return r.err
	}
	resp.SetStatusCode(r.status)
	resp.SetBodyString(r.body)
	return nil
}

func newTestClient(t *testing.T, transport transport, maxRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		Transport:  transport,
		APIKey:     "test-key",
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_FetchTeamClass_MapsAndCoerces(t *testing.T) {
	t.Parallel()

	transport := &stubTransport{responses: []stubResponse{
		{status: 200, body: `[
{"name":"  Jalen  Smith ","position":"QB","stars":4.0,"ranking":12.6},
{"name":"","position":"RB","stars":3.0,"ranking":50},
{"name":"No Numbers","position":"WR","stars":null,"ranking":null}
]`},
	}}
	client := newTestClient(t, transport, 0)

	got, err := client.FetchTeamClass(context.Background(), 2025, "Oklahoma State")
	if err != nil {
		t.Fatalf("FetchTeamClass error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected nameless row dropped, got %d rows", len(got))
	}
	if got[0].Name != "Jalen Smith" || got[0].Stars != 4 || got[0].Rank != 13 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].Name != "No Numbers" || got[1].Stars != 0 || got[1].Rank != 0 {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestClient_FetchTeamClass_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	transport := &stubTransport{responses: []stubResponse{
		{status: 503, body: "upstream down"},
		{status: 200, body: `[{"name":"A","position":"QB","stars":4,"ranking":1}]`},
	}}
	client := newTestClient(t, transport, 2)

	got, err := client.FetchTeamClass(context.Background(), 2025, "Texas")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if transport.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", transport.calls)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestClient_FetchTeamClass_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	transport := &stubTransport{responses: []stubResponse{
		{status: 401, body: "bad key"},
	}}
	client := newTestClient(t, transport, 3)

	_, err := client.FetchTeamClass(context.Background(), 2025, "Texas")
	if err == nil {
		t.Fatal("expected error")
	}
	if transport.calls != 1 {
		t.Fatalf("client errors must not retry, got %d attempts", transport.calls)
	}
}

func TestClient_FetchTeamClass_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	transport := &stubTransport{responses: []stubResponse{
		{err: errors.New("connection refused")},
	}}
	client := newTestClient(t, transport, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.FetchTeamClass(ctx, 2025, "Texas"); err == nil {
			t.Fatal("expected transport failure")
		}
	}

	_, err := client.FetchTeamClass(ctx, 2025, "Texas")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once breaker opens, got %v", err)
	}
}

func TestClient_FetchTeamClass_ValidatesInput(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &stubTransport{responses: []stubResponse{{status: 200, body: "[]"}}}, 0)
	ctx := context.Background()

	if _, err := client.FetchTeamClass(ctx, 0, "Texas"); err == nil {
		t.Fatal("expected year validation error")
	}
	if _, err := client.FetchTeamClass(ctx, 2025, "  "); err == nil {
		t.Fatal("expected team validation error")
	}
}
