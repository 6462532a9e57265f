package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"speedtest-tester/pkg/models"
	"speedtest-tester/pkg/urls"
)

// DefaultTimeout bounds every individual fetch attempt.
const DefaultTimeout = 10 * time.Second

// Error reports that every candidate URL for a resource was exhausted.
type Error struct {
	Resource string
}

func (e *Error) Error() string {
	return fmt.Sprintf("all %s fetch attempts failed", e.Resource)
}

// Fetcher tries each candidate URL for a resource in order and returns the
// first response that decodes into the expected document. Individual attempt
// failures are logged and skipped.
type Fetcher struct {
	client  *http.Client
	urls    urls.Builder
	timeout time.Duration
	logger  *slog.Logger
}

func NewFetcher(client *http.Client, b urls.Builder, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		urls:    b,
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// FetchConfig retrieves the test configuration from the first reachable
// host.
func (f *Fetcher) FetchConfig(ctx context.Context) (*models.Config, error) {
	return fetchAny[models.Config](f, ctx, "config", f.urls.ConfigURLs())
}

// FetchServers retrieves the candidate server listing. threads biases the
// responses and is carried as a query parameter.
func (f *Fetcher) FetchServers(ctx context.Context, threads int) ([]models.Server, error) {
	b := f.urls
	b.Threads = threads

	list, err := fetchAny[models.ServerList](f, ctx, "servers", b.ServerURLs())
	if err != nil {
		return nil, err
	}
	return list.Servers, nil
}

// fetchAny decodes each attempt into a fresh document so that fields
// partially decoded from a failed attempt never leak into a later one.
func fetchAny[T any](f *Fetcher, ctx context.Context, resource string, candidates []string) (*T, error) {
	for _, url := range candidates {
		doc := new(T)
		if err := f.fetchOne(ctx, url, doc); err != nil {
			f.logger.Debug("fetch attempt failed", "resource", resource, "url", url, "error", err)
			continue
		}
		f.logger.Debug("fetch attempt succeeded", "resource", resource, "url", url)
		return doc, nil
	}
	return nil, &Error{Resource: resource}
}

func (f *Fetcher) fetchOne(ctx context.Context, url string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status: %s", resp.Status)
	}

	if err := xml.NewDecoder(resp.Body).Decode(doc); err != nil {
		return fmt.Errorf("failed to decode document: %v", err)
	}
	return nil
}
