package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httpclient"
)

// InventoryClient talks to the inventory service to resolve unit prices and
// commit stock decrements.
type InventoryClient struct {
	http    HTTPDoer
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// NewInventoryClient creates a client for the inventory service. A non-zero
// timeout bounds each call independently of the parent context.
func NewInventoryClient(httpClient HTTPDoer, baseURL string, timeout time.Duration, logger *slog.Logger) *InventoryClient {
	return &InventoryClient{
		http:    httpClient,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// UnitPrice returns the current unit price (cents) for a product code.
func (c *InventoryClient) UnitPrice(ctx context.Context, token, productCode string) (int64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + "/api/inventory/" + productCode + "/unit-price"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create unit price request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, httpclient.ParseResponseError(resp, "inventory")
	}

	var envelope struct {
		Data struct {
			ProductCode string `json:"product_code"`
			UnitPrice   int64  `json:"unit_price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, fmt.Errorf("decode unit price response: %w", err)
	}

	c.logger.DebugContext(ctx, "unit price resolved",
		slog.String("product_code", productCode),
		slog.Int64("unit_price", envelope.Data.UnitPrice),
	)

	return envelope.Data.UnitPrice, nil
}

type decrementStockRequest struct {
	Quantity int `json:"quantity"`
}

// DecrementStock subtracts quantity from the product's stock record.
func (c *InventoryClient) DecrementStock(ctx context.Context, token, productCode string, quantity int) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(decrementStockRequest{Quantity: quantity})
	if err != nil {
		return fmt.Errorf("marshal decrement request: %w", err)
	}

	url := c.baseURL + "/api/inventory/" + productCode + "/decrement"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create decrement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "inventory")
	}

	c.logger.DebugContext(ctx, "stock decremented",
		slog.String("product_code", productCode),
		slog.Int("quantity", quantity),
	)

	return nil
}
