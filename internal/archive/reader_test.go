package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func createTestBundle(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("create bundle: %v", err)
	}
	for entry, content := range entries {
		if err := w.Add(entry, []byte(content)); err != nil {
			t.Fatalf("add entry %s: %v", entry, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close bundle: %v", err)
	}
	return path
}

func TestNewReaderUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.zip")
	if err := os.WriteFile(path, []byte("not a bundle"), 0644); err != nil {
		t.Fatalf("create file: %v", err)
	}

	if _, err := NewReader(path); err == nil {
		t.Error("expected error for unsupported bundle format")
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader("/nonexistent/bundle.tar.gz"); err == nil {
		t.Error("expected error for missing bundle")
	}
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	path := createTestBundle(t, dir, "bundle.tar.gz", map[string]string{
		"a.wkt": "POINT (1 2)",
		"b.wkt": "POINT (3 4)",
	})

	got := make(map[string]string)
	err := Walk(path, func(header *tar.Header, content io.Reader) (bool, error) {
		data, err := io.ReadAll(content)
		if err != nil {
			return true, err
		}
		got[header.Name] = string(data)
		return false, nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got["a.wkt"] != "POINT (1 2)" || got["b.wkt"] != "POINT (3 4)" {
		t.Errorf("unexpected entries: %v", got)
	}
}

func TestWalkVisitorStops(t *testing.T) {
	dir := t.TempDir()
	path := createTestBundle(t, dir, "bundle.tar", map[string]string{
		"a.wkt": "POINT (1 2)",
		"b.wkt": "POINT (3 4)",
	})

	var seen int
	err := Walk(path, func(header *tar.Header, content io.Reader) (bool, error) {
		seen++
		return true, nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if seen != 1 {
		t.Errorf("expected visitor to stop after 1 entry, saw %d", seen)
	}
}

func TestWalkVisitorError(t *testing.T) {
	dir := t.TempDir()
	path := createTestBundle(t, dir, "bundle.tar", map[string]string{
		"a.wkt": "POINT (1 2)",
	})

	wantErr := fmt.Errorf("visitor failed")
	err := Walk(path, func(header *tar.Header, content io.Reader) (bool, error) {
		return false, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected visitor error to propagate, got %v", err)
	}
}
