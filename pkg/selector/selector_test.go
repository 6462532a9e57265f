package selector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"speedtest-tester/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectFastestSingleHealthyServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer ts.Close()

	servers := []models.Server{
		{URL: ts.URL, ID: "1", Host: "local"},
	}

	s := NewWithTiming(&http.Client{}, testLogger(), 2*time.Second, 3, 10*time.Millisecond)

	start := time.Now()
	got, delay, err := s.SelectFastest(context.Background(), servers)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("SelectFastest() error = %v", err)
	}
	if got.ID != "1" {
		t.Errorf("selected server id = %q, want %q", got.ID, "1")
	}
	if delay >= 2*2*time.Second {
		t.Errorf("delay = %v, want a real latency below the penalty threshold", delay)
	}
	// A healthy server must win well before the worst-case probe schedule.
	if elapsed > time.Second {
		t.Errorf("selection took %v, want well under a second", elapsed)
	}
}

func TestSelectFastestPrefersFasterServer(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		io.WriteString(w, "ok")
	}))
	defer slow.Close()

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer fast.Close()

	servers := []models.Server{
		{URL: slow.URL, ID: "slow", Host: "slow"},
		{URL: fast.URL, ID: "fast", Host: "fast"},
	}

	s := NewWithTiming(&http.Client{}, testLogger(), 2*time.Second, 3, 10*time.Millisecond)

	got, _, err := s.SelectFastest(context.Background(), servers)
	if err != nil {
		t.Fatalf("SelectFastest() error = %v", err)
	}
	if got.ID != "fast" {
		t.Errorf("selected server id = %q, want %q", got.ID, "fast")
	}
}

func TestSelectFastestNoServers(t *testing.T) {
	s := New(&http.Client{}, testLogger())

	_, _, err := s.SelectFastest(context.Background(), nil)
	if !errors.Is(err, ErrNoServers) {
		t.Errorf("SelectFastest() error = %v, want ErrNoServers", err)
	}
}

func TestSelectFastestAllServersFailed(t *testing.T) {
	// Nothing listens on these; every probe round is charged the penalty,
	// so every aggregate delay sits exactly at the failure ceiling.
	servers := []models.Server{
		{URL: "http://127.0.0.1:1", ID: "1", Host: "dead-1"},
		{URL: "http://127.0.0.1:1", ID: "2", Host: "dead-2"},
	}

	s := NewWithTiming(&http.Client{}, testLogger(), 100*time.Millisecond, 3, 5*time.Millisecond)

	_, _, err := s.SelectFastest(context.Background(), servers)
	if !errors.Is(err, ErrAllServersFailed) {
		t.Errorf("SelectFastest() error = %v, want ErrAllServersFailed", err)
	}
}
