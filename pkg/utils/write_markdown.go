package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// WriteMarkdown writes content to dir/fileName, creating dir if needed.
func WriteMarkdown(dir, fileName, content string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	log.Printf("[Storage] written to %s", path)
	return nil
}
