// Package selector picks the lowest-latency usable server by racing latency
// probes against every candidate.
package selector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"speedtest-tester/pkg/models"
)

const (
	// DefaultTimeout bounds every single probe request.
	DefaultTimeout = 10 * time.Second
	// DefaultCompareTimes is the number of probe rounds per server.
	DefaultCompareTimes = 3
	// DefaultCompareInterval is the pause between probe rounds.
	DefaultCompareInterval = 200 * time.Millisecond
)

var (
	ErrNoServers        = errors.New("no servers")
	ErrAllServersFailed = errors.New("all servers failed")
)

// Selector races candidate servers with repeated latency probes. A probe
// round that fails is charged a penalty of twice the request timeout, so a
// server that never answers accumulates the same aggregate delay as one
// sitting exactly at the timeout boundary.
type Selector struct {
	client          *http.Client
	timeout         time.Duration
	compareTimes    int
	compareInterval time.Duration
	logger          *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Selector {
	return &Selector{
		client:          client,
		timeout:         DefaultTimeout,
		compareTimes:    DefaultCompareTimes,
		compareInterval: DefaultCompareInterval,
		logger:          logger,
	}
}

// NewWithTiming is used by tests to shrink the timing constants.
func NewWithTiming(client *http.Client, logger *slog.Logger, timeout time.Duration, times int, interval time.Duration) *Selector {
	return &Selector{
		client:          client,
		timeout:         timeout,
		compareTimes:    times,
		compareInterval: interval,
		logger:          logger,
	}
}

type probeResult struct {
	server models.Server
	delay  time.Duration
}

// SelectFastest returns the server with the lowest aggregate probe delay,
// along with that delay. If the first server to finish probing looks healthy
// (aggregate delay under twice the timeout) it wins immediately and the
// remaining probes are cancelled. Otherwise all results are collected and
// the minimum taken; if even the minimum sits at the all-rounds-failed
// ceiling, selection fails with ErrAllServersFailed.
func (s *Selector) SelectFastest(ctx context.Context, servers []models.Server) (models.Server, time.Duration, error) {
	if len(servers) == 0 {
		return models.Server{}, 0, ErrNoServers
	}

	// Buffered to len(servers) so probes finishing after an early winner
	// never block on send.
	results := make(chan probeResult, len(servers))

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, server := range servers {
		go s.probe(probeCtx, server, results)
	}

	var first probeResult
	select {
	case first = <-results:
	case <-ctx.Done():
		return models.Server{}, 0, ctx.Err()
	}

	if first.delay < 2*s.timeout {
		cancel()
		s.logger.Debug("selected first responding server",
			"server", first.server.Host, "delay", first.delay)
		return first.server, first.delay, nil
	}

	// The fastest-to-respond server already looks bad. Let every probe run
	// to completion and take the minimum.
	collected := []probeResult{first}
	for i := 1; i < len(servers); i++ {
		select {
		case r := <-results:
			collected = append(collected, r)
		case <-ctx.Done():
			return models.Server{}, 0, ctx.Err()
		}
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].delay < collected[j].delay
	})

	best := collected[0]
	if best.delay >= 2*s.timeout*time.Duration(s.compareTimes) {
		return models.Server{}, 0, ErrAllServersFailed
	}

	s.logger.Debug("selected best server after full collection",
		"server", best.server.Host, "delay", best.delay)
	return best.server, best.delay, nil
}

// probe accumulates compareTimes rounds of delay for one server and reports
// the sum. It exits without reporting when the context is cancelled.
func (s *Selector) probe(ctx context.Context, server models.Server, results chan<- probeResult) {
	var delay time.Duration
	for i := 0; i < s.compareTimes; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		delay += s.measureOnce(ctx, server)

		if i < s.compareTimes-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.compareInterval):
			}
		}
	}

	select {
	case results <- probeResult{server: server, delay: delay}:
	case <-ctx.Done():
	}
}

// measureOnce issues one GET against the server URL and returns the elapsed
// wall-clock time, or twice the timeout as a penalty when the request or
// body read fails.
func (s *Selector) measureOnce(ctx context.Context, server models.Server) time.Duration {
	penalty := 2 * s.timeout

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, server.URL, nil)
	if err != nil {
		return penalty
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("probe failed", "server", server.Host, "error", err)
		return penalty
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		s.logger.Debug("probe body read failed", "server", server.Host, "error", err)
		return penalty
	}
	return time.Since(start)
}
