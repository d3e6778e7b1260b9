// Package client holds REST clients for downstream services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// InventoryClient talks to the inventory service to keep stock records in
// step with the product catalog.
type InventoryClient struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewInventoryClient creates a client for the inventory service.
func NewInventoryClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *InventoryClient {
	return &InventoryClient{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

type upsertInventoryRequest struct {
	ProductCode   string `json:"product_code"`
	StockQuantity int    `json:"stock_quantity"`
	UnitPrice     int64  `json:"unit_price"`
}

// Upsert creates or tops up the stock record for a product code. A quantity
// of zero refreshes the unit price without touching the stock count.
func (c *InventoryClient) Upsert(ctx context.Context, productCode string, quantity int, unitPrice int64) error {
	body, err := json.Marshal(upsertInventoryRequest{
		ProductCode:   productCode,
		StockQuantity: quantity,
		UnitPrice:     unitPrice,
	})
	if err != nil {
		return fmt.Errorf("marshal inventory upsert request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/inventory", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create inventory upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "inventory")
	}

	c.logger.DebugContext(ctx, "inventory record upserted",
		slog.String("product_code", productCode),
		slog.Int("quantity", quantity),
	)

	return nil
}

// Delete removes the stock record for a product code.
func (c *InventoryClient) Delete(ctx context.Context, productCode string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/inventory/"+productCode, nil)
	if err != nil {
		return fmt.Errorf("create inventory delete request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "inventory")
	}

	c.logger.DebugContext(ctx, "inventory record deleted",
		slog.String("product_code", productCode),
	)

	return nil
}
