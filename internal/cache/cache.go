// Package cache persists a small summary of the last build to
// target/.drakkar-cache.toml, read back by the `drakkar stats` subcommand.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const fileName = ".drakkar-cache.toml"

// Summary is the last build's headline numbers.
type Summary struct {
	Profile      string  `toml:"profile"`
	JobsCompiled int     `toml:"jobs_compiled"`
	Linked       bool    `toml:"linked"`
	DurationSecs float64 `toml:"duration_seconds"`
}

// Path returns the cache file location under tempDir.
func Path(tempDir string) string {
	return filepath.Join(tempDir, fileName)
}

// Write serializes summary to tempDir's cache file.
func Write(tempDir string, summary Summary) error {
	data, err := toml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding build cache: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("preparing temp_dir: %w", err)
	}
	if err := os.WriteFile(Path(tempDir), data, 0o644); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	return nil
}

// Read loads the last build's summary from tempDir, or an error if no
// build has been recorded there yet.
func Read(tempDir string) (Summary, error) {
	var summary Summary
	data, err := os.ReadFile(Path(tempDir))
	if err != nil {
		return summary, fmt.Errorf("no build cache found: %w", err)
	}
	if err := toml.Unmarshal(data, &summary); err != nil {
		return summary, fmt.Errorf("decoding build cache: %w", err)
	}
	return summary, nil
}
