// Package compiler assembles compiler and linker command lines for
// translation units and renders a fingerprint of each command line so the
// staleness oracle can detect flag changes across builds.
package compiler

import (
	"strings"

	"github.com/zeozeozeo/drakkar/internal/discover"
)

// Profile selects the optimization/debug flags applied to every compile and
// link step.
type Profile int

const (
	Debug Profile = iota
	Release
)

func (p Profile) String() string {
	if p == Release {
		return "release"
	}
	return "debug"
}

// Options carries the subset of project configuration the command builder
// needs, independent of the config package's on-disk representation.
type Options struct {
	Profile     Profile
	CStandard   string
	CxxStandard string
	CFlags      []string
	CxxFlags    []string
	LdFlags     []string
	IncludeDirs []string
	LinkLibs    []string
	GCCPath     string
	GPPPath     string
	ExtraFlags  []string // passed after `--` on the CLI
}

// Driver returns the compiler binary for the given translation-unit
// language ("gcc" for C, "g++" for C++), honoring config overrides.
func (o Options) Driver(lang discover.Language) string {
	if lang == discover.CPP {
		if o.GPPPath != "" {
			return o.GPPPath
		}
		return "g++"
	}
	if o.GCCPath != "" {
		return o.GCCPath
	}
	return "gcc"
}

// CompileArgs assembles the argv (excluding the driver itself) for
// compiling one translation unit, per the profile/flag/dependency-emission
// rules of the command builder.
func CompileArgs(o Options, tu discover.TranslationUnit) []string {
	var args []string

	if tu.Language == discover.C && o.CStandard != "" {
		args = append(args, "-std="+o.CStandard)
	} else if tu.Language == discover.CPP && o.CxxStandard != "" {
		args = append(args, "-std="+o.CxxStandard)
	}

	switch o.Profile {
	case Debug:
		args = append(args, "-O0", "-g")
	case Release:
		args = append(args, "-O2", "-DNDEBUG")
	}

	if tu.Language == discover.C {
		args = append(args, o.CFlags...)
	} else {
		args = append(args, o.CxxFlags...)
	}

	for _, dir := range o.IncludeDirs {
		args = append(args, "-I"+dir)
	}

	args = append(args, "-MMD", "-MP", "-MF", tu.DepPath)
	args = append(args, "-c", "-o", tu.ObjectPath, tu.SourcePath)
	args = append(args, o.ExtraFlags...)

	return args
}

// LinkArgs assembles the argv (excluding the driver itself) for linking a
// set of object files into the final executable.
func LinkArgs(o Options, objectPaths []string, outputPath string) []string {
	var args []string
	args = append(args, objectPaths...)
	args = append(args, o.LdFlags...)
	args = append(args, o.LinkLibs...)
	if o.Profile == Release {
		args = append(args, "-s")
	}
	args = append(args, "-o", outputPath)
	args = append(args, o.ExtraFlags...)
	return args
}

// LinkDriver returns the link-step driver: g++ if any translation unit is
// C++, otherwise gcc.
func LinkDriver(o Options, units []discover.TranslationUnit) string {
	for _, u := range units {
		if u.Language == discover.CPP {
			return o.Driver(discover.CPP)
		}
	}
	return o.Driver(discover.C)
}

// Fingerprint renders a command line into the exact text stored in a
// build artifact's `.cmd` sibling file: the driver followed by one argv
// token per line, used by the staleness oracle to detect flag changes
// between builds (component E, rule 6) via byte-exact comparison.
func Fingerprint(driver string, args []string) string {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, driver)
	tokens = append(tokens, args...)
	return strings.Join(tokens, "\n")
}
