package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default service ports for a locally running stack.
const (
	userPort        = 8001
	rolePort        = 8002
	productPort     = 8003
	inventoryPort   = 8004
	orderPort       = 8005
	fulfillmentPort = 8006
	gatewayPort     = 8080
)

// devJWTSecret is the gateway's development-mode signing secret.
const devJWTSecret = "your-secret-key-change-in-production"

// baseURL returns the base URL for a service running on the given port.
func baseURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// uniqueCode generates a unique product code to avoid test collisions.
func uniqueCode(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", strings.ToUpper(prefix), time.Now().UnixNano(), rand.Intn(100000))
}

// uniqueEmail generates a unique email address to avoid test collisions.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@test.example.com", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// uniqueDocumentID generates a unique user id (document number).
func uniqueDocumentID() int64 {
	return time.Now().UnixNano()%1_000_000_000 + int64(rand.Intn(100000))*1_000_000_000
}

// signTestJWT creates a token the gateway accepts in development mode, with
// realm roles so role forwarding can be observed downstream.
func signTestJWT(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	claimRoles := make([]any, 0, len(roles))
	for _, r := range roles {
		claimRoles = append(claimRoles, r)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"realm_access": map[string]any{
			"roles": claimRoles,
		},
		"exp": jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})
	s, err := token.SignedString([]byte(devJWTSecret))
	if err != nil {
		t.Fatalf("signing test JWT failed: %v", err)
	}
	return s
}

// signExpiredTestJWT creates a token that expired an hour ago.
func signExpiredTestJWT(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	})
	s, err := token.SignedString([]byte(devJWTSecret))
	if err != nil {
		t.Fatalf("signing test JWT failed: %v", err)
	}
	return s
}

// skipIfNotRunning performs a quick health check against a service.
// If the service is unreachable, the test is skipped (not failed).
func skipIfNotRunning(t *testing.T, port int) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL(port) + "/health/live")
	if err != nil {
		t.Skipf("service on port %d not reachable (Docker not running?): %v", port, err)
	}
	resp.Body.Close()
}

// httpGet performs an HTTP GET request and returns the status code and decoded JSON body.
func httpGet(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// httpGetRaw performs an HTTP GET and returns the full response so callers
// can inspect headers (e.g. X-Cache).
func httpGetRaw(t *testing.T, url string) *http.Response {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// httpGetWithAuth performs an HTTP GET request with a Bearer token.
func httpGetWithAuth(t *testing.T, url string, token string) (int, map[string]interface{}) {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("creating GET request for %s failed: %v", url, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s with auth failed: %v", url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// httpPost performs an HTTP POST request with a JSON body.
func httpPost(t *testing.T, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPost, url, body, "")
}

// httpPostWithAuth performs an HTTP POST request with a JSON body and Bearer token.
func httpPostWithAuth(t *testing.T, url string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPost, url, body, token)
}

// httpPut performs an HTTP PUT request with a JSON body.
func httpPut(t *testing.T, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPut, url, body, "")
}

// httpDelete performs an HTTP DELETE request.
func httpDelete(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodDelete, url, nil, "")
}

// httpDeleteWithAuth performs an HTTP DELETE request with a Bearer token.
func httpDeleteWithAuth(t *testing.T, url string, token string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodDelete, url, nil, token)
}

// doJSONRequest is the internal helper for JSON HTTP requests.
func doJSONRequest(t *testing.T, method, url string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body failed: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		t.Fatalf("creating %s request for %s failed: %v", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// decodeBody reads the response body and attempts to decode it as JSON.
// If the body is empty or not JSON, it returns an empty map.
func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading response body failed: %v", err)
	}
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		// Not JSON; return the raw string in a "raw" key for debugging.
		return map[string]interface{}{"raw": string(raw)}
	}
	return result
}

// requireStatus asserts that the HTTP status code matches the expected value.
func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d", want, got)
	}
}

// extractField extracts a value from a nested map using a dot-separated path.
// For example, extractField(data, "data.user.id") navigates data["data"]["user"]["id"].
func extractField(data map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// extractString is a convenience wrapper around extractField that returns a string.
func extractString(t *testing.T, data map[string]interface{}, path string) string {
	t.Helper()
	val := extractField(data, path)
	if val == nil {
		t.Fatalf("expected string at path %q, got nil", path)
	}
	s, ok := val.(string)
	if !ok {
		t.Fatalf("expected string at path %q, got %T: %v", path, val, val)
	}
	return s
}

// extractFloat is a convenience wrapper that returns a float64.
func extractFloat(t *testing.T, data map[string]interface{}, path string) float64 {
	t.Helper()
	val := extractField(data, path)
	if val == nil {
		t.Fatalf("expected number at path %q, got nil", path)
	}
	f, ok := val.(float64)
	if !ok {
		t.Fatalf("expected float64 at path %q, got %T: %v", path, val, val)
	}
	return f
}
