package integration

import (
	"net/http"
	"testing"
	"time"
)

// servicePorts maps every service to its published port.
var servicePorts = map[string]int{
	"user":        userPort,
	"role":        rolePort,
	"product":     productPort,
	"inventory":   inventoryPort,
	"order":       orderPort,
	"fulfillment": fulfillmentPort,
	"gateway":     gatewayPort,
}

// TestAllServicesHealthy checks the /health/live endpoint for all services.
// Each service is tested as a subtest so failures are reported individually.
// If a service is unreachable, the subtest is skipped (not failed), allowing
// the suite to run in environments where only some services are up.
func TestAllServicesHealthy(t *testing.T) {
	client := &http.Client{Timeout: 3 * time.Second}

	for name, port := range servicePorts {
		t.Run(name, func(t *testing.T) {
			url := baseURL(port) + "/health/live"
			resp, err := client.Get(url)
			if err != nil {
				t.Skipf("service %s on port %d not reachable: %v", name, port, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("service %s health check returned %d, want 200", name, resp.StatusCode)
			}
		})
	}
}

// TestAllServicesReady checks the /health/ready endpoint for all services.
func TestAllServicesReady(t *testing.T) {
	client := &http.Client{Timeout: 3 * time.Second}

	for name, port := range servicePorts {
		t.Run(name, func(t *testing.T) {
			url := baseURL(port) + "/health/ready"
			resp, err := client.Get(url)
			if err != nil {
				t.Skipf("service %s on port %d not reachable: %v", name, port, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("service %s readiness check returned %d, want 200", name, resp.StatusCode)
			}
		})
	}
}
