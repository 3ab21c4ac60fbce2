// drakkar [build|run] [release] [flags]
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeozeozeo/drakkar/internal/build"
	"github.com/zeozeozeo/drakkar/internal/compiler"
	"github.com/zeozeozeo/drakkar/internal/msg"
	"github.com/zeozeozeo/drakkar/internal/schedule"
)

var (
	flagVerbose   bool
	flagParallel  int
	flagAggregate bool
)

// usageError marks a CLI-level mistake (unexpected positional argument,
// unknown profile token, config.txt that cannot be read or parsed) as
// distinct from a build/link failure, so exitForBuildError can exit 2
// instead of 1.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

var rootCmd = &cobra.Command{
	Use:   "drakkar",
	Short: "A parallel, incremental build driver for C and C++ projects",
	Long:  `drakkar discovers sources, recompiles what's stale, links, and runs.`,
}

// addBuildFlags wires the flag set shared by build and run: everything
// after the profile token is part of either drakkar's own flags or, past
// "--", the extra flags forwarded verbatim to the compiler.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print the exact compiler and linker command lines")
	cmd.Flags().IntVarP(&flagParallel, "parallel", "j", 0, "Override parallel_jobs from config.txt")
	cmd.Flags().BoolVar(&flagAggregate, "aggregate-errors", false, "Keep compiling after a failure instead of stopping at the first one")
}

// parseProfile reads an optional leading "release"/"debug" positional
// argument, defaulting to debug when absent.
func parseProfile(args []string) (compiler.Profile, []string, error) {
	if len(args) == 0 {
		return compiler.Debug, args, nil
	}
	switch args[0] {
	case "release":
		return compiler.Release, args[1:], nil
	case "debug":
		return compiler.Debug, args[1:], nil
	default:
		return compiler.Debug, args, usageErrorf("unknown profile %q, expected \"release\" or \"debug\"", args[0])
	}
}

// buildOptions loads the project rooted at the working directory and
// resolves the shared CLI flags plus positional profile/extra-flags split
// at "--" into a build.Options ready for Build or BuildAndRun.
func buildOptions(cmd *cobra.Command, args []string) (*build.Project, build.Options, error) {
	proj, err := build.LoadProject(".")
	if err != nil {
		return nil, build.Options{}, &usageError{err: err}
	}

	dash := cmd.Flags().ArgsLenAtDash()
	var profileArgs, extraFlags []string
	if dash >= 0 {
		profileArgs, extraFlags = args[:dash], args[dash:]
	} else {
		profileArgs = args
	}

	profile, rest, err := parseProfile(profileArgs)
	if err != nil {
		return nil, build.Options{}, err
	}
	if len(rest) > 0 {
		return nil, build.Options{}, usageErrorf("unexpected argument %q", rest[0])
	}

	opts := build.Options{
		Profile:    profile,
		Parallel:   flagParallel,
		Aggregate:  flagAggregate,
		Verbose:    flagVerbose,
		ExtraFlags: extraFlags,
	}
	return proj, opts, nil
}

// exitForBuildError maps a build/run failure to the process exit code: 130
// for a cancelled build with no failed job (e.g. SIGINT), 2 for a usage
// error (unexpected argument, unknown profile, config.txt that cannot be
// read or parsed), 1 for anything else, including fail-fast compile failures.
func exitForBuildError(err error) {
	if errors.Is(err, schedule.ErrCancelled) {
		os.Exit(130)
	}
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, uerr)
		os.Exit(2)
	}
	msg.Fatal("%v", err)
}

// Execute runs the root command. Any error returned here comes from
// cobra's own argument/flag parsing (RunE is never used, so every
// command handles its own build/run errors via exitForBuildError before
// returning) and is therefore always a usage error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
