// Package plan implements the staleness oracle: deciding, per translation
// unit, whether recompilation and relinking are required.
package plan

import (
	"os"
	"strings"

	"github.com/zeozeozeo/drakkar/internal/compiler"
	"github.com/zeozeozeo/drakkar/internal/depfile"
	"github.com/zeozeozeo/drakkar/internal/discover"
)

// BuildPlan is the ordered pair of stale translation units and the full
// discovered set, computed once before scheduling.
type BuildPlan struct {
	Stale    []discover.TranslationUnit
	All      []discover.TranslationUnit
	NeedLink bool
}

// cmdPath returns the sibling file that stores the fingerprint of the
// command line used to produce objectPath.
func cmdPath(objectPath string) string {
	return objectPath + ".cmd"
}

// isStale implements the six staleness rules of the oracle.
func isStale(incremental bool, tu discover.TranslationUnit, wantCmdline string) bool {
	if !incremental {
		return true
	}

	objInfo, err := os.Stat(tu.ObjectPath)
	if err != nil {
		return true
	}

	rec := depfile.Parse(tu.DepPath)
	if rec.Unknown() {
		return true
	}

	for _, prereq := range rec.Sorted() {
		prereqInfo, err := os.Stat(prereq)
		if err != nil {
			return true
		}
		if prereqInfo.ModTime().After(objInfo.ModTime()) {
			return true
		}
	}

	stored, err := os.ReadFile(cmdPath(tu.ObjectPath))
	if err != nil {
		return true
	}
	if strings.TrimRight(string(stored), "\n") != wantCmdline {
		return true
	}

	return false
}

// Compute walks every discovered translation unit and decides which are
// stale, reconstructing the compile command line each would use via opts so
// rule 6 (command-line fingerprint) can compare it against the last build's
// stored .cmd sibling. outputPath and its link argv decide whether a
// relink is additionally required.
func Compute(units []discover.TranslationUnit, incremental bool, opts compiler.Options, outputPath string) BuildPlan {
	p := BuildPlan{All: units}

	for _, tu := range units {
		driver := opts.Driver(tu.Language)
		args := compiler.CompileArgs(opts, tu)
		wantCmdline := compiler.Fingerprint(driver, args)
		if isStale(incremental, tu, wantCmdline) {
			p.Stale = append(p.Stale, tu)
		}
	}

	linkDriver := compiler.LinkDriver(opts, units)
	objectPaths := make([]string, len(units))
	for i, tu := range units {
		objectPaths[i] = tu.ObjectPath
	}
	linkArgs := compiler.LinkArgs(opts, objectPaths, outputPath)
	wantLinkCmdline := compiler.Fingerprint(linkDriver, linkArgs)

	p.NeedLink = len(p.Stale) > 0 || linkInputsChanged(outputPath, wantLinkCmdline)

	return p
}

// linkInputsChanged reports whether the final executable is missing or the
// link-step fingerprint (ld_flags and friends) differs from the last build.
func linkInputsChanged(outputPath, ldFlagsFingerprint string) bool {
	if _, err := os.Stat(outputPath); err != nil {
		return true
	}
	stored, err := os.ReadFile(cmdPath(outputPath))
	if err != nil {
		return true
	}
	return strings.TrimRight(string(stored), "\n") != ldFlagsFingerprint
}

// WriteFingerprint atomically records the command line used to produce
// path's build artifact, for staleness comparisons on the next build.
func WriteFingerprint(path, cmdline string) error {
	return writeFileAtomic(path+".cmd", []byte(cmdline+"\n"))
}
