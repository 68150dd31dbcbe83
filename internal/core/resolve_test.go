package core

import (
	"testing"
)

// ============================================================================
// Header Canonicalization Tests
// ============================================================================

func TestCanonHeader_Loose(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Email", "email"},
		{"  Email  ", "email"},
		{"Cell Phone", "cell phone"},
		{"NAME FIRST AND LAST", "name first and last"},
	}

	for _, tt := range tests {
		if got := canonHeader(tt.input, MatchLoose); got != tt.expected {
			t.Errorf("canonHeader(%q, MatchLoose) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCanonHeader_Alnum(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Cell Phone", "cellphone"},
		{"cell_phone", "cellphone"},
		{"Cell-Phone ", "cellphone"},
		{"Pin (4 digits or more)", "pin4digitsormore"},
		{"Password (6 Characters minimum)", "password6charactersminimum"},
	}

	for _, tt := range tests {
		if got := canonHeader(tt.input, MatchAlnum); got != tt.expected {
			t.Errorf("canonHeader(%q, MatchAlnum) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// ============================================================================
// Field Resolution Tests
// ============================================================================

func TestResolveField_AliasPrecedence(t *testing.T) {
	spec := FieldSpec{
		Name:    "phone",
		Aliases: []string{"Phone", "Cell Phone", "Mobile"},
	}

	row := Row{
		"Phone":      "555-0100",
		"Cell Phone": "555-0200",
	}

	if got := ResolveField(row, spec, MatchLoose); got != "555-0100" {
		t.Errorf("expected first alias to win, got %q", got)
	}
}

func TestResolveField_SkipsEmptyCells(t *testing.T) {
	spec := FieldSpec{
		Name:    "phone",
		Aliases: []string{"Phone", "Cell Phone"},
	}

	// The higher priority alias is present but empty; the populated
	// lower priority column should supply the value.
	row := Row{
		"Phone":      "   ",
		"Cell Phone": "555-0200",
	}

	if got := ResolveField(row, spec, MatchLoose); got != "555-0200" {
		t.Errorf("expected populated alias to win over empty one, got %q", got)
	}
}

func TestResolveField_CaseAndWhitespaceInsensitive(t *testing.T) {
	spec := FieldSpec{Name: "email", Aliases: []string{"Email"}}

	row := Row{"  EMAIL  ": "a@b.com"}

	if got := ResolveField(row, spec, MatchLoose); got != "a@b.com" {
		t.Errorf("expected header match despite casing/whitespace, got %q", got)
	}
}

func TestResolveField_AlnumMatchesPunctuationVariants(t *testing.T) {
	spec := FieldSpec{Name: "pin", Aliases: []string{"Pin (4 digits or more)"}}

	row := Row{"PIN (4 DIGITS OR MORE)": "1234"}

	if got := ResolveField(row, spec, MatchAlnum); got != "1234" {
		t.Errorf("expected alnum match, got %q", got)
	}
}

func TestResolveFields_AllSpecsPresent(t *testing.T) {
	specs := []FieldSpec{
		{Name: "name", Aliases: []string{"Name"}},
		{Name: "email", Aliases: []string{"Email"}},
		{Name: "missing", Aliases: []string{"Nope"}},
	}

	row := Row{"Name": "Ada", "Email": "ada@example.com"}
	fields := ResolveFields(row, specs, MatchLoose)

	if len(fields) != 3 {
		t.Fatalf("expected 3 resolved fields, got %d", len(fields))
	}
	if fields["name"] != "Ada" {
		t.Errorf("name = %q, want %q", fields["name"], "Ada")
	}
	if fields["email"] != "ada@example.com" {
		t.Errorf("email = %q, want %q", fields["email"], "ada@example.com")
	}
	if fields["missing"] != "" {
		t.Errorf("missing field should resolve to empty string, got %q", fields["missing"])
	}
}

func TestResolveFields_ValuesAreTrimmed(t *testing.T) {
	specs := []FieldSpec{{Name: "name", Aliases: []string{"Name"}}}
	row := Row{"Name": "  Ada Lovelace  "}

	fields := ResolveFields(row, specs, MatchLoose)
	if fields["name"] != "Ada Lovelace" {
		t.Errorf("expected trimmed value, got %q", fields["name"])
	}
}

// ============================================================================
// HasHeader Tests
// ============================================================================

func TestHasHeader(t *testing.T) {
	row := Row{"Password (6 Characters minimum)": ""}

	if !HasHeader(row, "Password (6 Characters minimum)", MatchAlnum) {
		t.Error("expected header to be found even with an empty cell")
	}
	if !HasHeader(row, "password 6 characters MINIMUM", MatchAlnum) {
		t.Error("expected alnum matching to ignore punctuation and case")
	}
	if HasHeader(row, "Email", MatchAlnum) {
		t.Error("did not expect a missing header to be reported present")
	}
}
