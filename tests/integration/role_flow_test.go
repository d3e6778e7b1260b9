package integration

import (
	"fmt"
	"testing"
)

// TestRoleCRUDFlow exercises the role service lifecycle end to end.
func TestRoleCRUDFlow(t *testing.T) {
	skipIfNotRunning(t, rolePort)

	roleName := uniqueCode("QA-ROLE")

	// Create.
	status, data := httpPost(t, baseURL(rolePort)+"/api/roles", map[string]interface{}{
		"name":        roleName,
		"description": "created by the integration suite",
	})
	requireStatus(t, status, 201)

	roleID := int64(extractFloat(t, data, "data.id"))
	if roleID <= 0 {
		t.Fatalf("expected positive role id, got %d", roleID)
	}
	roleURL := fmt.Sprintf("%s/api/roles/%d", baseURL(rolePort), roleID)

	// Read back.
	status, data = httpGet(t, roleURL)
	requireStatus(t, status, 200)
	if got := extractString(t, data, "data.name"); got != roleName {
		t.Fatalf("expected role name %q, got %q", roleName, got)
	}

	// Update.
	status, data = httpPut(t, roleURL, map[string]interface{}{
		"name":        roleName,
		"description": "updated by the integration suite",
	})
	requireStatus(t, status, 200)
	if got := extractString(t, data, "data.description"); got != "updated by the integration suite" {
		t.Fatalf("expected updated description, got %q", got)
	}

	// List should include the role.
	status, data = httpGet(t, baseURL(rolePort)+"/api/roles?per_page=100")
	requireStatus(t, status, 200)
	if _, ok := data["data"]; !ok {
		t.Fatalf("expected paginated data field in list response: %v", data)
	}

	// Delete, then read after delete.
	status, _ = httpDelete(t, roleURL)
	requireStatus(t, status, 204)

	status, _ = httpGet(t, roleURL)
	requireStatus(t, status, 404)
}

// TestRoleCreate_DuplicateName_Conflict verifies the unique name constraint.
func TestRoleCreate_DuplicateName_Conflict(t *testing.T) {
	skipIfNotRunning(t, rolePort)

	roleName := uniqueCode("DUP-ROLE")
	body := map[string]interface{}{"name": roleName}

	status, data := httpPost(t, baseURL(rolePort)+"/api/roles", body)
	requireStatus(t, status, 201)
	roleID := int64(extractFloat(t, data, "data.id"))
	t.Cleanup(func() {
		httpDelete(t, fmt.Sprintf("%s/api/roles/%d", baseURL(rolePort), roleID))
	})

	status, _ = httpPost(t, baseURL(rolePort)+"/api/roles", body)
	if status != 409 {
		t.Fatalf("expected 409 for duplicate role name, got %d", status)
	}
}

// TestRoleCreate_ShortName_Returns422 verifies the minimum name length.
func TestRoleCreate_ShortName_Returns422(t *testing.T) {
	skipIfNotRunning(t, rolePort)

	status, _ := httpPost(t, baseURL(rolePort)+"/api/roles", map[string]interface{}{"name": "x"})
	requireStatus(t, status, 422)
}
