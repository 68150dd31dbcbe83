package core

import (
	"strings"
	"testing"
)

// ============================================================================
// CSV Ingestion Tests
// ============================================================================

func TestRowsFromCSV(t *testing.T) {
	input := "Name,Email\nAda,ada@example.com\nGrace,grace@example.com\n"

	rows, err := RowsFromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Name"] != "Ada" || rows[0]["Email"] != "ada@example.com" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1]["Name"] != "Grace" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestRowsFromCSV_StripsBOM(t *testing.T) {
	input := "\ufeffName,Email\nAda,ada@example.com\n"

	rows, err := RowsFromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["Name"] != "Ada" {
		t.Errorf("BOM not stripped from header, row: %+v", rows[0])
	}
}

func TestRowsFromCSV_SkipsBlankLines(t *testing.T) {
	input := "Name\nAda\n,\n\nGrace\n"

	rows, err := RowsFromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank records to be dropped, got %d rows", len(rows))
	}
}

func TestRowsFromCSV_RaggedRows(t *testing.T) {
	input := "Name,Email,Phone\nAda,ada@example.com\n"

	rows, err := RowsFromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["Phone"] != "" {
		t.Errorf("missing trailing cell should be empty, got %q", rows[0]["Phone"])
	}
}

func TestRowsFromCSV_ExcelHeaderArtifacts(t *testing.T) {
	input := `="Name",Email` + "\nAda,ada@example.com\n"

	rows, err := RowsFromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["Name"] != "Ada" {
		t.Errorf("formula prefix not cleaned from header, row: %+v", rows[0])
	}
}

func TestRowsFromCSV_Empty(t *testing.T) {
	if _, err := RowsFromCSV(strings.NewReader("")); err == nil {
		t.Error("expected an error for an empty file")
	}
}
