package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const DefaultTimeout = 3 * time.Second

// Checker reports nil once the probed component is healthy.
type Checker interface {
	Check(ctx context.Context) error
}

type HTTPHealthChecker struct {
	Client *http.Client
	URL    string
}

// NewHTTPHealthChecker probes url with a client that never reuses
// connections, so a probe does not keep the server from draining.
func NewHTTPHealthChecker(url string) *HTTPHealthChecker {
	return &HTTPHealthChecker{
		Client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
		URL: url,
	}
}

func (h *HTTPHealthChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s (%d)", resp.Status, resp.StatusCode)
	}
	return nil
}
