// Package client holds REST clients for the services the fulfillment
// coordinator depends on. Callers pass the inbound Authorization header
// value and it is forwarded verbatim on every downstream request.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// OrderClient talks to the order service.
type OrderClient struct {
	http    HTTPDoer
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOrderClient creates a client for the order service. A non-zero timeout
// bounds each call independently of the parent context.
func NewOrderClient(httpClient HTTPDoer, baseURL string, timeout time.Duration, logger *slog.Logger) *OrderClient {
	return &OrderClient{
		http:    httpClient,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// Exists confirms the order can be fetched from the order service. Any
// non-2xx response or transport failure is returned as an error.
func (c *OrderClient) Exists(ctx context.Context, token string, orderID int64) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + "/api/orders/" + strconv.FormatInt(orderID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create order lookup request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call order service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "order")
	}

	c.logger.DebugContext(ctx, "order existence confirmed",
		slog.Int64("order_id", orderID),
	)

	return nil
}
