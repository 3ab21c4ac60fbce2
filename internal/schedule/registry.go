package schedule

import (
	"os/exec"
	"sync"
)

// Registry is a mutex-protected map from translation-unit identity to the
// in-flight compiler child spawned for it. The interrupt handler walks it
// to terminate active children on cancellation; workers add an entry right
// after spawning and remove it as soon as the child is reaped.
type Registry struct {
	mu    sync.Mutex
	procs map[string]*exec.Cmd
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*exec.Cmd)}
}

// Add records cmd as the active child for key (typically a TU's source
// path). Must be called after cmd.Start succeeds.
func (r *Registry) Add(key string, cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs[key] = cmd
}

// Remove clears the entry for key once its child has been reaped.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.procs, key)
}

// KillAll best-effort terminates every currently active child. Errors are
// ignored: a child that already exited between the registry snapshot and
// the kill attempt is not a failure.
func (r *Registry) KillAll() {
	r.mu.Lock()
	cmds := make([]*exec.Cmd, 0, len(r.procs))
	for _, cmd := range r.procs {
		cmds = append(cmds, cmd)
	}
	r.mu.Unlock()

	for _, cmd := range cmds {
		killCmd(cmd)
	}
}

// Len reports how many children are currently tracked, for tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}
