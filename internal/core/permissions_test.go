package core

import (
	"encoding/json"
	"testing"
)

// ============================================================================
// Toggle Parsing Tests
// ============================================================================

func TestParseToggle_TruthyTokens(t *testing.T) {
	truthy := []string{"y", "Y", "yes", "YES", "true", "1", "x", "X", "on", "✓", "check", "checked", "  yes  "}
	for _, v := range truthy {
		if !ParseToggle(v) {
			t.Errorf("ParseToggle(%q) = false, want true", v)
		}
	}
}

func TestParseToggle_FalsyValues(t *testing.T) {
	falsy := []string{"", "n", "no", "false", "0", "off", "maybe", "2"}
	for _, v := range falsy {
		if ParseToggle(v) {
			t.Errorf("ParseToggle(%q) = true, want false", v)
		}
	}
}

// ============================================================================
// Permission Mapping Tests
// ============================================================================

func TestMapPermissions_OnlySetTogglesEmit(t *testing.T) {
	toggles := []ToggleSpec{
		{Field: "foreman", Grants: []PermissionGrant{
			{Capability: "time_for_others", AccessLevel: AccessEdit},
		}},
		{Field: "tracking", Grants: []PermissionGrant{
			{Capability: "tracking_info", AccessLevel: AccessEdit},
		}},
	}

	fields := ResolvedFields{"foreman": "yes", "tracking": "no"}
	grants := MapPermissions(fields, toggles)

	if len(grants) != 1 {
		t.Fatalf("expected exactly 1 grant, got %d", len(grants))
	}
	if grants[0].Capability != "time_for_others" {
		t.Errorf("capability = %q, want %q", grants[0].Capability, "time_for_others")
	}
	if grants[0].AccessLevel != AccessEdit {
		t.Errorf("access level = %q, want %q", grants[0].AccessLevel, AccessEdit)
	}
}

func TestMapPermissions_MultiGrantToggle(t *testing.T) {
	toggles := []ToggleSpec{
		{Field: "payroll", Grants: []PermissionGrant{
			{Capability: "time", AccessLevel: AccessEdit},
			{Capability: "payroll", AccessLevel: AccessEdit},
		}},
	}

	grants := MapPermissions(ResolvedFields{"payroll": "x"}, toggles)

	if len(grants) != 2 {
		t.Fatalf("expected 2 grants from one toggle, got %d", len(grants))
	}
	if grants[0].Capability != "time" || grants[1].Capability != "payroll" {
		t.Errorf("unexpected grant order: %+v", grants)
	}
}

func TestMapPermissions_NoneSet(t *testing.T) {
	toggles := []ToggleSpec{
		{Field: "jobs", Grants: []PermissionGrant{
			{Capability: "jobs", AccessLevel: AccessEdit},
		}},
	}

	grants := MapPermissions(ResolvedFields{"jobs": ""}, toggles)
	if len(grants) != 0 {
		t.Errorf("expected no grants, got %+v", grants)
	}
}

// ============================================================================
// Grant Wire Format Tests
// ============================================================================

func TestPermissionGrant_MarshalsPivotShape(t *testing.T) {
	grant := PermissionGrant{Capability: "analysis", AccessLevel: AccessView}

	data, err := json.Marshal(grant)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"name":"analysis","pivot":{"value":"view"}}`
	if string(data) != want {
		t.Errorf("marshaled = %s, want %s", data, want)
	}
}
