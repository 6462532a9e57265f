package throughput

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"speedtest-tester/pkg/meter"
	"speedtest-tester/pkg/models"
)

const userAgent = "speedtest-tester"

const readBufferSize = 32 * 1024

// Download runs the download phase: DownloadCountPerURL tasks per size in
// the fixed sequence, at DownloadThreads concurrency, within the configured
// test length. Transferred bytes land in counter.
func Download(ctx context.Context, client *http.Client, cfg *models.Config, server models.Server, counter *meter.Counter, logger *slog.Logger) {
	seq := cfg.DownloadSizeSequence()

	engine := Engine{
		Count:       cfg.DownloadCountPerURL() * len(seq),
		Concurrency: cfg.DownloadThreads(),
		Duration:    cfg.MaxDownloadDuration(),
		Task: func(ctx context.Context, i int) {
			size := seq[i%len(seq)]
			// The server URL already names the upload endpoint; the
			// directory protocol appends the download file to it as-is.
			url := fmt.Sprintf("%s/random%dx%d.jpg", server.URL, size, size)
			singleDownload(ctx, client, url, counter, logger)
		},
	}
	engine.Run(ctx)
}

// singleDownload consumes one response body chunk by chunk, counting every
// chunk. Any failure drops the task silently.
func singleDownload(ctx context.Context, client *http.Client, url string, counter *meter.Counter, logger *slog.Logger) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}
	req.Header.Set("user-agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("download request failed", "url", url, "error", err)
		return
	}
	defer resp.Body.Close()

	buf := make([]byte, readBufferSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			counter.Add(uint64(n))
		}
		if err != nil {
			return
		}
	}
}
