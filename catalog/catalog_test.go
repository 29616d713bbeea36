package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmbeddedDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Models) == 0 {
		t.Fatal("embedded catalog has no models")
	}
	if len(c.Accessories) == 0 {
		t.Fatal("embedded catalog has no accessories")
	}

	// Aurora 120 links to two accessories in the default catalog.
	got := c.AccessoriesFor("model-aurora-120")
	if len(got) != 2 {
		t.Errorf("expected 2 accessories for model-aurora-120, got %d", len(got))
	}

	// Terra 110 has no associations on purpose (exercises the
	// no-accessory branch of the rekl deriver).
	if got := c.AccessoriesFor("model-terra-110"); len(got) != 0 {
		t.Errorf("expected no accessories for model-terra-110, got %d", len(got))
	}
}

func TestLoad_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	content := []byte(`
models:
  - id: m1
    name: Model One
accessories:
  - id: a1
    name: Accessory One
model_accessories:
  - model: m1
    accessories: [a1, a-missing]
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown accessory ids in associations are ignored, not an error.
	got := c.AccessoriesFor("m1")
	if len(got) != 1 || got[0].Name != "Accessory One" {
		t.Errorf("expected [Accessory One], got %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EmptyCatalogRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	if err := os.WriteFile(path, []byte("accessories: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}
