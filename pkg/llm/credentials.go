package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pkgz/lgr"
)

// LoadCredentials reads API keys from a newline-delimited file. Only lines
// starting with the given prefix count as credentials; everything else in the
// file (labels, comments, blank lines) is ignored. Order is preserved, it
// defines the rotation order.
func LoadCredentials(path, prefix string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		creds = append(creds, line)
	}

	lgr.Printf("[INFO] loaded %d credentials from %s", len(creds), path)
	return creds, nil
}
