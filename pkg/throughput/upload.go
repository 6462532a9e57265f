package throughput

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"speedtest-tester/pkg/meter"
	"speedtest-tester/pkg/models"
)

// Upload runs the upload phase: MaxUploadCount tasks at UploadThreads
// concurrency within the configured test length, cycling through the
// ratio-truncated size sequence. Bytes are counted as the body emits them.
func Upload(ctx context.Context, client *http.Client, cfg *models.Config, server models.Server, counter *meter.Counter, logger *slog.Logger) {
	seq := cfg.UploadSizeSequence()

	engine := Engine{
		Count:       cfg.MaxUploadCount(),
		Concurrency: cfg.UploadThreads(),
		Duration:    cfg.MaxUploadDuration(),
		Task: func(ctx context.Context, i int) {
			size := seq[i%len(seq)]
			singleUpload(ctx, client, server.URL, size, counter, logger)
		},
	}
	engine.Run(ctx)
}

// singleUpload posts a zero-content body of the given size with an explicit
// Content-Length. Any failure drops the task silently.
func singleUpload(ctx context.Context, client *http.Client, url string, size int, counter *meter.Counter, logger *slog.Logger) {
	body := NewZeroBody(size, counter)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return
	}
	req.ContentLength = int64(size)

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("upload request failed", "url", url, "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}
