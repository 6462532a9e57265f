// Package reporter observes a phase's byte counter at a fixed cadence and
// logs live progress. It only reads the counter; sampling never perturbs the
// workers feeding it.
package reporter

import (
	"log/slog"
	"time"

	"speedtest-tester/pkg/meter"
)

// DefaultInterval is the sampling cadence.
const DefaultInterval = time.Second

// Sampler periodically reads a counter and logs the bytes moved and the
// rate over the last interval.
type Sampler struct {
	phase    string
	counter  *meter.Counter
	interval time.Duration
	logger   *slog.Logger

	start   time.Time
	done    chan struct{}
	stopped chan struct{}
}

// Start begins sampling in the background until Stop is called.
func Start(phase string, counter *meter.Counter, interval time.Duration, logger *slog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Sampler{
		phase:    phase,
		counter:  counter,
		interval: interval,
		logger:   logger,
		start:    time.Now(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go s.loop()
	return s
}

// Stop ends sampling and returns the final byte total and the elapsed time
// since Start.
func (s *Sampler) Stop() (uint64, time.Duration) {
	close(s.done)
	<-s.stopped
	return s.counter.Load(), time.Since(s.start)
}

func (s *Sampler) loop() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var lastBytes uint64
	lastTime := s.start

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			bytes := s.counter.Load()
			elapsed := now.Sub(lastTime).Seconds()
			if elapsed <= 0 {
				continue
			}
			mbps := float64(bytes-lastBytes) * 8 / 1_000_000 / elapsed
			s.logger.Info("progress",
				"phase", s.phase,
				"bytes", bytes,
				"mbps", mbps)
			lastBytes = bytes
			lastTime = now
		}
	}
}
