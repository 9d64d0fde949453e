package launcher

import (
	"sync"

	"go.uber.org/zap"
)

// Lifecycle coordinates application shutdown. Quit runs registered hooks in
// reverse registration order exactly once and then closes Done.
type Lifecycle struct {
	logger *zap.SugaredLogger

	mu    sync.Mutex
	hooks []func()
	once  sync.Once
	done  chan struct{}
}

// NewLifecycle creates a lifecycle.
func NewLifecycle(logger *zap.SugaredLogger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
		done:   make(chan struct{}),
	}
}

// OnQuit registers fn to run during Quit.
func (l *Lifecycle) OnQuit(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, fn)
}

// Quit terminates the application. Later calls are no-ops.
func (l *Lifecycle) Quit() {
	l.once.Do(func() {
		l.logger.Info("Quitting")
		l.mu.Lock()
		hooks := make([]func(), len(l.hooks))
		copy(hooks, l.hooks)
		l.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
		close(l.done)
	})
}

// Done is closed after Quit has run all hooks.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}
