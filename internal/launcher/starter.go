package launcher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cryptomator/cryptomator-tray/internal/app"
)

// StartFunc creates the application. It may take a while.
type StartFunc func(ctx context.Context) (app.Application, error)

// Starter starts the application at most once, on first request.
type Starter struct {
	ctx    context.Context
	start  StartFunc
	logger *zap.SugaredLogger

	once   sync.Once
	future *Future[app.Application]
}

// NewStarter creates a starter. The application is not started until Get.
func NewStarter(ctx context.Context, start StartFunc, logger *zap.SugaredLogger) *Starter {
	return &Starter{
		ctx:    ctx,
		start:  start,
		logger: logger,
		future: NewFuture[app.Application](),
	}
}

// Get returns the future of the started application, starting it in the
// background on the first call.
func (s *Starter) Get() *Future[app.Application] {
	s.once.Do(func() {
		go s.run()
	})
	return s.future
}

func (s *Starter) run() {
	s.logger.Debug("Starting application")
	a, err := s.start(s.ctx)
	if err != nil {
		s.logger.Errorw("Failed to start application", "error", err)
		s.future.Fail(err)
		return
	}
	s.future.Complete(a)
	s.logger.Debug("Application started")
}
