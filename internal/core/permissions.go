package core

// permissions.go derives capability grants from boolean toggle columns.
// A toggle cell is parsed with a forgiving truthy-token set because the
// sheets in the wild use everything from "Y" to a literal checkmark.

import (
	"encoding/json"
	"strings"
)

// truthyTokens are the cell values treated as a set toggle. Anything
// else, including an empty cell, is false.
var truthyTokens = map[string]bool{
	"y": true, "yes": true, "true": true, "1": true,
	"x": true, "on": true, "✓": true, "check": true, "checked": true,
}

// ParseToggle reports whether a raw cell value sets a toggle.
func ParseToggle(raw string) bool {
	return truthyTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// AccessLevel is the access granted for a capability.
type AccessLevel string

const (
	AccessView AccessLevel = "view"
	AccessEdit AccessLevel = "edit"
)

// PermissionGrant is a named capability plus access level attached to a
// created record. It marshals into the remote service's pivot shape:
//
//	{"name": "tracking_info", "pivot": {"value": "edit"}}
type PermissionGrant struct {
	Capability  string
	AccessLevel AccessLevel
}

func (g PermissionGrant) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Pivot struct {
			Value AccessLevel `json:"value"`
		} `json:"pivot"`
	}{
		Name: g.Capability,
		Pivot: struct {
			Value AccessLevel `json:"value"`
		}{Value: g.AccessLevel},
	})
}

// ToggleSpec binds one toggle column to the grants it emits when set.
// A single toggle may emit several grants (staff Payroll grants both the
// time and payroll capabilities).
type ToggleSpec struct {
	Field  string // logical field name holding the toggle cell
	Grants []PermissionGrant
}

// MapPermissions emits the grants for every toggle that parses true.
// The returned slice is empty, not nil-significant, when no toggles are
// set; payload builders use omitempty so the field is absent entirely.
func MapPermissions(fields ResolvedFields, toggles []ToggleSpec) []PermissionGrant {
	var grants []PermissionGrant
	for _, t := range toggles {
		if ParseToggle(fields[t.Field]) {
			grants = append(grants, t.Grants...)
		}
	}
	return grants
}
