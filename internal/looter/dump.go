package looter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeDump saves raw page markup for diagnostics. Purely observational; a
// failed dump never affects the scan or claim flow.
func writeDump(dir, name, markup string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir %q: %w", dir, err)
	}
	path := filepath.Join(dir, sanitizeFilename(name))
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		return "", fmt.Errorf("write dump %q: %w", path, err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "page.html"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "_")
	return replacer.Replace(name)
}
