package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	// Create a temporary directory structure for testing
	tmpDir, err := os.MkdirTemp("", "evmfill-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create filler files
	files := []string{
		"eip3855/push0.json",
		"eip3860/initcode.json",
		"frontier/opcodes/add.json",
		"frontier/opcodes/README.md",
		"vendor/lib.json",
		".cache/stale.json",
		"frontier/.hidden.json",
	}
	for _, file := range files {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner([]string{"vendor"})

	t.Run("scans filler files correctly", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Should find 3 fillers, not the ones in vendor or hidden paths
		expected := []string{
			filepath.Join(tmpDir, "eip3855/push0.json"),
			filepath.Join(tmpDir, "eip3860/initcode.json"),
			filepath.Join(tmpDir, "frontier/opcodes/add.json"),
		}
		if len(results) != len(expected) {
			t.Fatalf("expected %d filler files, got %d: %v", len(expected), len(results), results)
		}
		for i, want := range expected {
			if results[i] != want {
				t.Errorf("result %d: expected %s, got %s", i, want, results[i])
			}
		}
	})

	t.Run("accepts a hidden root", func(t *testing.T) {
		results, err := scanner.Scan(filepath.Join(tmpDir, ".cache"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("expected 1 filler file, got %d", len(results))
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		if err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "eip3855/push0.json"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}
