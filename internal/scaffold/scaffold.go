// Package scaffold writes the fixed skeleton produced by the `create`
// subcommand: src/, out/, target/, config.txt, README.md, and a starter
// source file.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

// Create writes a new project skeleton at name. It refuses if name already
// exists, per the recommended (unspecified-by-source) behavior.
func Create(name string) error {
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("directory %q already exists", name)
	} else if !os.IsNotExist(err) {
		return err
	}

	for _, dir := range []string{"src", "out", "target"} {
		if err := os.MkdirAll(filepath.Join(name, dir), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	appName := filepath.Base(filepath.Clean(name))
	if err := os.WriteFile(filepath.Join(name, "config.txt"), []byte(configTemplate(appName)), 0o644); err != nil {
		return fmt.Errorf("writing config.txt: %w", err)
	}
	if err := os.WriteFile(filepath.Join(name, "README.md"), []byte(readmeTemplate(appName)), 0o644); err != nil {
		return fmt.Errorf("writing README.md: %w", err)
	}
	if err := os.WriteFile(filepath.Join(name, "src", "main.cpp"), []byte(starterSource), 0o644); err != nil {
		return fmt.Errorf("writing src/main.cpp: %w", err)
	}

	return nil
}

const starterSource = `#include <iostream>

int main() {
    std::cout << "hello drakkar" << std::endl;
    return 0;
}
`

func configTemplate(name string) string {
	return fmt.Sprintf(`# drakkar config -- project: %s
app_name = %s
source_dir = src
output_dir = out
temp_dir = target

# Compiler flags
c_flags = -Wall -Wextra
cxx_flags = -Wall -Wextra
ld_flags =
include_dirs =
link_libs =

# Standards
c_standard = c11
cxx_standard = c++17

# Compiler paths (when unset: $CC / $CXX, else gcc, g++)
gcc_path = gcc
gpp_path = g++

# Build options
parallel_jobs = auto
incremental = true
preserve_temp = true
use_process_groups = false
`, name, name)
}

func readmeTemplate(name string) string {
	return fmt.Sprintf(`# %s

A C/C++ project built with drakkar.

## Building

`+"```sh"+`
drakkar build           # debug build
drakkar build release   # release build
drakkar run              # build & run
`+"```"+`

## Project structure

`+"```"+`
src/        - source files (.c, .cpp, .cc, .cxx)
out/        - compiled binaries
target/     - object files and dependency files (.o, .d)
config.txt  - build configuration
`+"```"+`
`, name)
}
