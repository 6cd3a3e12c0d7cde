package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hazyhaar/viztest/parity"
)

type recordSink struct {
	results []parity.Result
	sums    []Summary
	err     error
	closed  bool
}

func (r *recordSink) Send(_ context.Context, res parity.Result) error {
	r.results = append(r.results, res)
	return r.err
}

func (r *recordSink) SendSummary(_ context.Context, sum Summary) error {
	r.sums = append(r.sums, sum)
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return r.err
}

func TestStdout_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)
	ctx := context.Background()

	if err := s.Send(ctx, parity.Result{Path: "q24/vol1", ErrorPercentage: 0.0008, Passed: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.SendSummary(ctx, Summary{Total: 1, Passed: 1}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var env struct {
		Type string        `json:"type"`
		Data parity.Result `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "result" || env.Data.Path != "q24/vol1" || !env.Data.Passed {
		t.Errorf("first line = %+v", env)
	}
	if !strings.Contains(lines[1], `"type":"summary"`) {
		t.Errorf("second line = %s", lines[1])
	}
}

func TestRouter_FanOutFirstError(t *testing.T) {
	errA := errors.New("a down")
	a := &recordSink{err: errA}
	b := &recordSink{}
	r := NewRouter(nil, a, b)
	ctx := context.Background()

	if err := r.Send(ctx, parity.Result{Path: "x"}); !errors.Is(err, errA) {
		t.Errorf("Send err = %v, want %v", err, errA)
	}
	if len(b.results) != 1 {
		t.Error("second sink skipped after first failed")
	}
	if err := r.SendSummary(ctx, Summary{Total: 1}); !errors.Is(err, errA) {
		t.Errorf("SendSummary err = %v", err)
	}
	if len(b.sums) != 1 {
		t.Error("summary not delivered to healthy sink")
	}
	if err := r.Close(); !errors.Is(err, errA) {
		t.Errorf("Close err = %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("not every sink closed")
	}
}

func TestWebhook_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var lastBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		lastBody = body
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookBackoff(time.Millisecond))
	if err := w.Send(context.Background(), parity.Result{Path: "jkp/film-noir", Passed: false}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if !bytes.Contains(lastBody, []byte(`"jkp/film-noir"`)) {
		t.Errorf("body = %s", lastBody)
	}
}

func TestWebhook_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookRetries(1), WithWebhookBackoff(time.Millisecond))
	err := w.SendSummary(context.Background(), Summary{Total: 2, Failed: 1})
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v, want status 500", err)
	}
	if !strings.Contains(err.Error(), "summary not delivered after 2 attempts") {
		t.Errorf("err = %v, want envelope type and attempt count", err)
	}
}

func TestConsole_Lines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 3)
	ctx := context.Background()

	c.Send(ctx, parity.Result{Path: "a/1", Passed: true, ErrorPercentage: 0.0008})
	c.Send(ctx, parity.Result{Path: "b/2", ErrorPercentage: 0.012, DiffPixels: 600, Tolerance: 0.01})
	c.Send(ctx, parity.Result{Path: "c/3", Error: "parity: navigate: refused"})
	c.SendSummary(ctx, Summary{Total: 3, Passed: 1, Failed: 1, Errored: 1, FailedList: []string{"b/2", "c/3"}})

	out := buf.String()
	for _, want := range []string{"PASS", "a/1", "FAIL", "600 px", "ERROR", "refused", "1 failed, 1 errored, 1 passed of 3", "- c/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_OK(t *testing.T) {
	if !(Summary{Total: 2, Passed: 2}).OK() {
		t.Error("all passed should be OK")
	}
	if (Summary{Total: 2, Passed: 1, Errored: 1}).OK() {
		t.Error("errored run should not be OK")
	}
}
