// Package build orchestrates the config loader, source discovery, staleness
// oracle, command builder, parallel scheduler, and linker into the
// `build`/`run` operations exposed to the CLI frame.
package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/zeozeozeo/drakkar/internal/cache"
	"github.com/zeozeozeo/drakkar/internal/compiler"
	"github.com/zeozeozeo/drakkar/internal/config"
	"github.com/zeozeozeo/drakkar/internal/discover"
	"github.com/zeozeozeo/drakkar/internal/msg"
	"github.com/zeozeozeo/drakkar/internal/plan"
	"github.com/zeozeozeo/drakkar/internal/schedule"
)

// Project is a loaded, ready-to-build config.txt rooted at Root.
type Project struct {
	Root   string
	Config *config.Config
}

// LoadProject reads config.txt from root and validates it.
func LoadProject(root string) (*Project, error) {
	cfg, err := config.Load(filepath.Join(root, "config.txt"))
	if err != nil {
		return nil, err
	}
	return &Project{Root: root, Config: cfg}, nil
}

// Options carries the CLI-level overrides layered on top of config.txt for
// one build/run invocation.
type Options struct {
	Profile    compiler.Profile
	Parallel   int // 0 => use config.txt's parallel_jobs
	Aggregate  bool
	Verbose    bool
	ExtraFlags []string
}

// Result reports what a Build call did, for the CLI to summarize and for
// `run` to locate the produced executable.
type Result struct {
	Plan     plan.BuildPlan
	Outcomes []schedule.Outcome
	Linked   bool
	ExePath  string
}

func (p *Project) path(rel string) string {
	return filepath.Join(p.Root, rel)
}

func (p *Project) exePath() string {
	return p.path(filepath.Join(p.Config.OutputDir, p.Config.AppName))
}

func (p *Project) compilerOptions(opts Options) compiler.Options {
	return compiler.Options{
		Profile:     opts.Profile,
		CStandard:   p.Config.CStandard,
		CxxStandard: p.Config.CxxStandard,
		CFlags:      p.Config.CFlags,
		CxxFlags:    p.Config.CxxFlags,
		LdFlags:     p.Config.LdFlags,
		IncludeDirs: p.Config.IncludeDirs,
		LinkLibs:    p.Config.LinkLibs,
		GCCPath:     p.Config.GCCPath,
		GPPPath:     p.Config.GPPPath,
		ExtraFlags:  opts.ExtraFlags,
	}
}

// Build discovers sources, computes the staleness plan, compiles whatever
// is stale, and links when required. Returns a non-nil error whenever the
// caller must exit non-zero and skip running the resulting binary.
func (p *Project) Build(opts Options) (*Result, error) {
	start := time.Now()
	sourceDir := p.path(p.Config.SourceDir)
	tempDir := p.path(p.Config.TempDir)
	outputDir := p.path(p.Config.OutputDir)
	exe := p.exePath()

	if _, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source_dir %q: %w", p.Config.SourceDir, err)
	}

	units, err := discover.Discover(sourceDir, tempDir)
	if err != nil {
		return nil, fmt.Errorf("discovering sources: %w", err)
	}

	copts := p.compilerOptions(opts)
	bp := plan.Compute(units, p.Config.Incremental, copts, exe)

	result := &Result{Plan: bp, ExePath: exe}

	if len(bp.Stale) == 0 {
		fmt.Println("up-to-date")
		if !bp.NeedLink {
			p.writeCache(opts, result, start)
			return result, nil
		}
	} else {
		if err := os.MkdirAll(tempDir, 0o755); err != nil {
			return nil, fmt.Errorf("preparing temp_dir: %w", err)
		}
		for _, tu := range bp.Stale {
			if err := os.MkdirAll(filepath.Dir(tu.ObjectPath), 0o755); err != nil {
				return nil, fmt.Errorf("preparing temp_dir: %w", err)
			}
		}

		jobs := make([]schedule.Job, len(bp.Stale))
		for i, tu := range bp.Stale {
			driver := copts.Driver(tu.Language)
			args := compiler.CompileArgs(copts, tu)
			jobs[i] = schedule.Job{TU: tu, Driver: driver, Args: args}
		}

		workers := opts.Parallel
		if workers <= 0 {
			workers = p.Config.ParallelJobs
		}

		cancel := &atomic.Bool{}
		registry := schedule.NewRegistry()
		stopWatch := schedule.WatchInterrupts(cancel, registry)
		defer stopWatch()

		sched := schedule.NewScheduler(workers, opts.Aggregate, opts.Verbose, p.Config.UseProcessGroups, registry, cancel)
		outcomes, runErr := sched.Run(jobs)
		result.Outcomes = outcomes

		for _, o := range outcomes {
			if o.Status != schedule.Succeeded {
				continue
			}
			driver := copts.Driver(o.TU.Language)
			args := compiler.CompileArgs(copts, o.TU)
			if err := plan.WriteFingerprint(o.TU.ObjectPath, compiler.Fingerprint(driver, args)); err != nil {
				return result, fmt.Errorf("recording build state for %s: %w", o.TU.SourcePath, err)
			}
		}

		if runErr != nil {
			return result, runErr
		}
	}

	if !bp.NeedLink || len(bp.All) == 0 {
		p.writeCache(opts, result, start)
		return result, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("preparing output_dir: %w", err)
	}

	objectPaths := make([]string, len(bp.All))
	for i, tu := range bp.All {
		objectPaths[i] = tu.ObjectPath
	}
	linkDriver := compiler.LinkDriver(copts, bp.All)
	linkArgs := compiler.LinkArgs(copts, objectPaths, exe)

	if opts.Verbose {
		msg.Cmdline(linkDriver, linkArgs)
	}
	msg.Info("linking %s", exe)

	cmd := exec.Command(linkDriver, linkArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return result, fmt.Errorf("link failed: %w", err)
	}

	if err := plan.WriteFingerprint(exe, compiler.Fingerprint(linkDriver, linkArgs)); err != nil {
		return result, fmt.Errorf("recording link build state: %w", err)
	}
	result.Linked = true

	if !p.Config.PreserveTemp {
		os.RemoveAll(tempDir)
	}
	p.writeCache(opts, result, start)

	return result, nil
}

// writeCache records a .drakkar-cache.toml summary of this build for the
// `drakkar stats` subcommand. Failures are logged, not fatal: the build
// itself already succeeded by the time this runs.
func (p *Project) writeCache(opts Options, result *Result, start time.Time) {
	compiled := 0
	for _, o := range result.Outcomes {
		if o.Status == schedule.Succeeded {
			compiled++
		}
	}
	summary := cache.Summary{
		Profile:      opts.Profile.String(),
		JobsCompiled: compiled,
		Linked:       result.Linked,
		DurationSecs: time.Since(start).Seconds(),
	}
	if err := cache.Write(p.path(p.Config.TempDir), summary); err != nil {
		msg.Warn("could not write build cache: %v", err)
	}
}

// BuildAndRun builds the project and, on success, execs the produced
// binary with runArgs, streaming its stdout/stderr and returning its exit
// code.
func (p *Project) BuildAndRun(opts Options, runArgs []string) (*Result, int, error) {
	result, err := p.Build(opts)
	if err != nil {
		return result, 1, err
	}

	cmd := exec.Command(result.ExePath, runArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return result, exitErr.ExitCode(), nil
		}
		return result, 1, fmt.Errorf("running %s: %w", result.ExePath, err)
	}
	return result, 0, nil
}
