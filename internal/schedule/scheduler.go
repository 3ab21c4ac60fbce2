package schedule

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zeozeozeo/drakkar/internal/msg"
)

// ErrCancelled is returned by Run when the build was cancelled (for example
// by SIGINT) and no job actually failed outright. A fail-fast cancellation
// always follows a failed job, so Run reports that failure instead. The CLI
// frame maps this to the conventional 128+SIGINT exit code.
var ErrCancelled = errors.New("build cancelled")

// outputMu serializes the scheduler's console output so that lines from
// concurrently running jobs never interleave.
var outputMu sync.Mutex

// Scheduler drives a bounded worker pool over a list of compile Jobs,
// following the fail-fast/aggregate error policy (component G).
type Scheduler struct {
	Workers          int
	Aggregate        bool
	Verbose          bool
	UseProcessGroups bool
	Registry         *Registry
	Cancel           *atomic.Bool

	onStart func(n, total int, driver, source string)
}

// NewScheduler returns a Scheduler ready to run jobs, sharing registry and
// cancel with the interrupt handler wired up by the caller.
func NewScheduler(workers int, aggregate, verbose, useProcessGroups bool, registry *Registry, cancel *atomic.Bool) *Scheduler {
	return &Scheduler{
		Workers:          workers,
		Aggregate:        aggregate,
		Verbose:          verbose,
		UseProcessGroups: useProcessGroups,
		Registry:         registry,
		Cancel:           cancel,
		onStart:          msg.Step,
	}
}

// Run executes jobs across the worker pool and returns every Outcome
// (including Cancelled ones for jobs skipped after cancellation) together
// with a non-nil error iff the build must not proceed to the link stage.
func (s *Scheduler) Run(jobs []Job) ([]Outcome, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	total := len(jobs)
	var counter int32
	var mu sync.Mutex
	var outcomes []Outcome
	var failures []Outcome

	limit := s.Workers
	if limit <= 0 {
		limit = 1
	}

	eg := &errgroup.Group{}
	eg.SetLimit(limit)

	for _, job := range jobs {
		job := job
		eg.Go(func() error {
			outcome := s.runOne(job, total, &counter)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			if outcome.Status == Failed {
				failures = append(failures, outcome)
			}
			mu.Unlock()

			if outcome.Status == Failed && !s.Aggregate {
				s.Cancel.Store(true)
				s.Registry.KillAll()
			}
			return nil
		})
	}
	eg.Wait()

	if len(failures) > 0 {
		return outcomes, fmt.Errorf("%d of %d compile job(s) failed", len(failures), total)
	}
	if s.Cancel.Load() {
		return outcomes, ErrCancelled
	}
	return outcomes, nil
}

// runOne spawns and waits for a single job's compiler child, or produces a
// Cancelled outcome without spawning if cancellation was already requested.
func (s *Scheduler) runOne(job Job, total int, counter *int32) Outcome {
	if s.Cancel.Load() {
		return Outcome{TU: job.TU, Status: Cancelled}
	}

	n := int(atomic.AddInt32(counter, 1))
	onStart := s.onStart
	if onStart == nil {
		onStart = msg.Step
	}
	outputMu.Lock()
	onStart(n, total, job.Driver, job.TU.SourcePath)
	if s.Verbose {
		msg.Cmdline(job.Driver, job.Args)
	}
	outputMu.Unlock()

	cmd := exec.Command(job.Driver, job.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if s.UseProcessGroups {
		setProcessGroup(cmd)
	}

	if err := cmd.Start(); err != nil {
		return s.printAndReturn(Outcome{TU: job.TU, Status: Failed, Err: fmt.Errorf("failed to spawn %s: %w", job.Driver, err)})
	}

	key := job.TU.SourcePath
	s.Registry.Add(key, cmd)
	err := cmd.Wait()
	s.Registry.Remove(key)

	outcome := Outcome{TU: job.TU, Stdout: stdout.String(), Stderr: stderr.String()}
	switch {
	case err == nil:
		outcome.Status = Succeeded
	case s.Cancel.Load():
		outcome.Status = Cancelled
		outcome.Err = err
	default:
		outcome.Status = Failed
		outcome.Err = err
		if exitErr, ok := err.(*exec.ExitError); ok {
			outcome.ExitCode = exitErr.ExitCode()
		}
	}

	return s.printAndReturn(outcome)
}

// printAndReturn applies the output discipline: a one-line status plus
// captured stderr, printed atomically so distinct TUs never interleave.
func (s *Scheduler) printAndReturn(o Outcome) Outcome {
	outputMu.Lock()
	defer outputMu.Unlock()
	switch o.Status {
	case Succeeded:
		if o.Stderr == "" && !s.Verbose {
			return o
		}
		msg.Info("%s", o.TU.SourcePath)
	case Failed:
		msg.Error("%s: %v", o.TU.SourcePath, o.Err)
	case Cancelled:
		msg.Warn("%s: cancelled", o.TU.SourcePath)
	}
	if o.Stderr != "" {
		iw := &msg.IndentWriter{Indent: "  ", W: os.Stdout}
		io.WriteString(iw, o.Stderr)
	}
	return o
}
