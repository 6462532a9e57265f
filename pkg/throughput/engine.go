/*
Package throughput drives the download and upload workloads against the
selected server.

Both phases share one engine shape: a fixed number of sized transfer tasks
run at bounded concurrency for at most a fixed wall-clock duration, feeding
a shared meter.Counter as bytes move. Individual task failures are swallowed
and only lower the achieved byte total; the phase itself has no failure
mode. When the duration elapses the phase context is cancelled, in-flight
requests abort at their next chunk boundary, and Run returns.
*/
package throughput

import (
	"context"
	"sync"
	"time"
)

// Engine runs Count tasks at bounded Concurrency within a Duration budget.
// Task receives the phase context and the task index; it must honor context
// cancellation and must not panic.
type Engine struct {
	Count       int
	Concurrency int
	Duration    time.Duration
	Task        func(ctx context.Context, i int)
}

// Run blocks until every task completed naturally or the duration elapsed,
// whichever comes first.
func (e *Engine) Run(ctx context.Context) {
	concurrency := e.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	ctx, cancel := context.WithTimeout(ctx, e.Duration)
	defer cancel()

	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				e.Task(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < e.Count; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)

	wg.Wait()
}
