package schedule

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/zeozeozeo/drakkar/internal/msg"
)

// WatchInterrupts installs the platform's interactive-interrupt handling
// (component I). On the first SIGINT/SIGTERM it sets cancel and kills every
// child tracked in registry; on a second signal it force-exits the process
// with the conventional 128+SIGINT exit code. Call the returned stop
// function once the scheduler has finished draining to release the signal
// channel.
func WatchInterrupts(cancel *atomic.Bool, registry *Registry) (stop func()) {
	ctx, stopNotify := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		cancel.Store(true)
		registry.KillAll()
		msg.Warn("interrupted, waiting for in-flight jobs to stop")

		// A second signal forces immediate termination; a fresh
		// context/channel catches it since the first one is already done.
		ctx2, stopNotify2 := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stopNotify2()
		select {
		case <-ctx2.Done():
			os.Exit(130)
		case <-done:
		}
	}()

	return func() {
		close(done)
		stopNotify()
	}
}
