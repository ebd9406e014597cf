package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazz-dev/svcdeck/internal/config"
	"github.com/hazz-dev/svcdeck/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := rootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "svcdeck ") {
		t.Errorf("expected version line, got %q", out)
	}
}

func TestCatalogCommand_DefaultsWithoutConfig(t *testing.T) {
	// No svcdeck.yml in the package directory, so defaults apply.
	out, err := execute(t, "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "17 services") {
		t.Errorf("expected embedded catalog, got:\n%s", out)
	}
}

func TestCatalogCommand_ExplicitMissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")
	if _, err := execute(t, "--config", missing, "catalog"); err == nil {
		t.Error("expected error for an explicitly given missing config")
	}
}

func TestCatalogCommand_CatalogFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	data := []byte(`
- title: Lab
  services:
    - { name: Grafana, url: "http://grafana.lan:3000", desc: metrics }
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--catalog", path, "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Grafana") || !strings.Contains(out, "1 services in 1 categories") {
		t.Errorf("expected custom catalog, got:\n%s", out)
	}
}

func TestCatalogCommand_MissingCatalogIsEmpty(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "later.yml")
	out, err := execute(t, "--catalog", missing, "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No services") {
		t.Errorf("expected empty catalog, got:\n%s", out)
	}
}

func TestCatalogCommand_MalformedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("- title: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--catalog", path, "catalog"); err == nil {
		t.Error("expected error for malformed catalog")
	}
}

func TestCatalogCommand_ConfigCatalogPath(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "catalog.yml")
	if err := os.WriteFile(catPath, []byte(`[{title: X, services: [{name: Only, url: "http://only"}]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "svcdeck.yml")
	if err := os.WriteFile(cfgPath, []byte("catalog:\n  path: "+catPath+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", cfgPath, "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Only") {
		t.Errorf("expected catalog from config path, got:\n%s", out)
	}
}

func TestLoadCatalog_AwaitsLateFile(t *testing.T) {
	catalogFile = ""
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	cfg := config.Default()
	cfg.Catalog.Path = path

	go func() {
		// Several poll intervals pass before the file shows up.
		time.Sleep(350 * time.Millisecond)
		tmp := path + ".tmp"
		os.WriteFile(tmp, []byte("- title: Late\n  services:\n    - { name: A, url: http://a }\n"), 0o644)
		os.Rename(tmp, path)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cat, err := loadCatalog(ctx, cfg, true, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.ServiceCount() != 1 {
		t.Errorf("expected 1 service from the late file, got %d", cat.ServiceCount())
	}
}

func TestLoadCatalog_AwaitCancelled(t *testing.T) {
	catalogFile = ""
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "never.yml")

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	cat, err := loadCatalog(ctx, cfg, true, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.ServiceCount() != 0 {
		t.Errorf("expected empty catalog after cancel, got %d services", cat.ServiceCount())
	}
}
