package plan

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes data to path by first writing to a uniquely named
// sibling temp file and renaming it into place, so a crash or interrupt
// mid-write never leaves a truncated .cmd fingerprint that could be
// misread as a valid one on the next build.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
