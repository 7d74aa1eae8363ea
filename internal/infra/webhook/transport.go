package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPTransport posts JSON payloads to alert endpoints. The outbound limiter
// keeps a burst of urgent leads from hammering the receiving hook.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

type Option func(*HTTPTransport)

func WithThrottle(rps float64, burst int) Option {
	return func(t *HTTPTransport) { t.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithClient(client *http.Client) Option {
	return func(t *HTTPTransport) { t.client = client }
}

func NewHTTPTransport(timeout time.Duration, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) Post(ctx context.Context, url string, payload []byte) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
