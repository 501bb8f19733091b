package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FillerExt is the extension of filler files
const FillerExt = ".json"

// Scanner scans for filler files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all filler files in the given root directory, in lexical order
func (s *Scanner) Scan(root string) ([]string, error) {
	var fillers []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("filler path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filler path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		// Hidden files are never fillers
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		if filepath.Ext(d.Name()) == FillerExt {
			fillers = append(fillers, path)
		}

		return nil
	})

	return fillers, err
}
