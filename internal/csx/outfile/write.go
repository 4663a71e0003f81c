package outfile

import (
	"os"
	"path/filepath"
)

// Write writes src to outPath, creating parent directories and always
// overwriting any existing file.
func Write(outPath string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, src, 0o644)
}
