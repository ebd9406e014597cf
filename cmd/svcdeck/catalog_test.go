package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hazz-dev/svcdeck/internal/catalog"
)

func TestPrintCatalog_Default(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, catalog.Default())

	output := buf.String()
	if !strings.Contains(output, "INDEX") {
		t.Errorf("expected header row, got:\n%s", output)
	}
	if !strings.Contains(output, "17 services in 5 categories") {
		t.Errorf("expected totals line, got:\n%s", output)
	}
}

func TestPrintCatalog_Indices(t *testing.T) {
	cat := catalog.New([]catalog.Category{
		{Title: "A", Services: []catalog.Descriptor{{Name: "one", URL: "http://one"}}},
		{Title: "B", Services: []catalog.Descriptor{{Name: "two", URL: "http://two"}}},
	})

	var buf bytes.Buffer
	printCatalog(&buf, cat)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], "0") || !strings.Contains(lines[1], "one") {
		t.Errorf("expected row 0 to be 'one', got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "1") || !strings.Contains(lines[2], "two") {
		t.Errorf("expected row 1 to be 'two', got %q", lines[2])
	}
}

func TestPrintCatalog_Empty(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, catalog.Empty())
	if !strings.Contains(buf.String(), "No services") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}
