package integration

import (
	"fmt"
	"testing"
	"time"
)

// TestOrderCRUDFlow walks an order through create, read, date query, update
// and delete against the order service.
func TestOrderCRUDFlow(t *testing.T) {
	skipIfNotRunning(t, orderPort)

	orderDate := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	status, data := httpPost(t, baseURL(orderPort)+"/api/orders", map[string]interface{}{
		"user_id":        uniqueDocumentID(),
		"order_date":     orderDate.Format(time.RFC3339),
		"store":          "madrid-centro",
		"total_price":    4500,
		"payment_method": "credit_card",
	})
	requireStatus(t, status, 201)

	orderID := int64(extractFloat(t, data, "data.id"))
	orderURL := fmt.Sprintf("%s/api/orders/%d", baseURL(orderPort), orderID)
	t.Cleanup(func() { httpDelete(t, orderURL) })

	// Read back.
	status, data = httpGet(t, orderURL)
	requireStatus(t, status, 200)
	if got := extractString(t, data, "data.store"); got != "madrid-centro" {
		t.Fatalf("expected store madrid-centro, got %q", got)
	}
	if got := extractFloat(t, data, "data.total_price"); got != 4500 {
		t.Fatalf("expected total price 4500, got %v", got)
	}

	// Query by calendar date.
	status, data = httpGet(t, baseURL(orderPort)+"/api/orders/date/"+orderDate.Format("2006-01-02"))
	requireStatus(t, status, 200)
	orders, ok := data["data"].([]interface{})
	if !ok {
		t.Fatalf("expected a list in the date query response: %v", data)
	}
	found := false
	for _, raw := range orders {
		if order, ok := raw.(map[string]interface{}); ok {
			if id, ok := order["id"].(float64); ok && int64(id) == orderID {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("order %d not returned by date query for %s", orderID, orderDate.Format("2006-01-02"))
	}
}

// TestOrderUpdateFlow updates an order and verifies the stored fields.
func TestOrderUpdateFlow(t *testing.T) {
	skipIfNotRunning(t, orderPort)

	userID := uniqueDocumentID()
	status, data := httpPost(t, baseURL(orderPort)+"/api/orders", map[string]interface{}{
		"user_id":        userID,
		"store":          "madrid-centro",
		"total_price":    1000,
		"payment_method": "credit_card",
	})
	requireStatus(t, status, 201)
	orderID := int64(extractFloat(t, data, "data.id"))
	orderURL := fmt.Sprintf("%s/api/orders/%d", baseURL(orderPort), orderID)
	t.Cleanup(func() { httpDelete(t, orderURL) })

	status, data = httpPut(t, orderURL, map[string]interface{}{
		"user_id":        userID,
		"store":          "barcelona-diagonal",
		"total_price":    5200,
		"payment_method": "wallet",
	})
	requireStatus(t, status, 200)
	if got := extractString(t, data, "data.store"); got != "barcelona-diagonal" {
		t.Fatalf("expected updated store, got %q", got)
	}
	if got := extractString(t, data, "data.payment_method"); got != "wallet" {
		t.Fatalf("expected updated payment method, got %q", got)
	}
}

// TestOrderDelete_ThenGet_Returns404 verifies delete semantics.
func TestOrderDelete_ThenGet_Returns404(t *testing.T) {
	skipIfNotRunning(t, orderPort)

	status, data := httpPost(t, baseURL(orderPort)+"/api/orders", map[string]interface{}{
		"user_id":        uniqueDocumentID(),
		"store":          "madrid-centro",
		"total_price":    0,
		"payment_method": "cash",
	})
	requireStatus(t, status, 201)
	orderID := int64(extractFloat(t, data, "data.id"))
	orderURL := fmt.Sprintf("%s/api/orders/%d", baseURL(orderPort), orderID)

	status, _ = httpDelete(t, orderURL)
	requireStatus(t, status, 204)

	status, _ = httpGet(t, orderURL)
	requireStatus(t, status, 404)
}

// TestOrderCreate_MissingFields_Returns422 verifies field validation.
func TestOrderCreate_MissingFields_Returns422(t *testing.T) {
	skipIfNotRunning(t, orderPort)

	status, _ := httpPost(t, baseURL(orderPort)+"/api/orders", map[string]interface{}{
		"user_id": uniqueDocumentID(),
		"store":   "madrid-centro",
	})
	requireStatus(t, status, 422)
}

// TestOrderGetByDate_BadFormat_Returns400 verifies date parsing.
func TestOrderGetByDate_BadFormat_Returns400(t *testing.T) {
	skipIfNotRunning(t, orderPort)

	status, _ := httpGet(t, baseURL(orderPort)+"/api/orders/date/14-03-2026")
	requireStatus(t, status, 400)
}
