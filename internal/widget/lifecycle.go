package widget

import (
	"context"
	"errors"
	"sync"
)

var errNotStarted = errors.New("controller not started")

// lifecycle ties in-flight requests to the Start/Stop window of a controller
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx, l.cancel = context.WithCancel(context.WithoutCancel(ctx))
}

func (l *lifecycle) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// bind returns a context cancelled by either ctx or stop
func (l *lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	l.mu.Lock()
	run := l.ctx
	l.mu.Unlock()

	if run == nil {
		return nil, nil, errNotStarted
	}
	if run.Err() != nil {
		return nil, nil, run.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	release := context.AfterFunc(run, cancel)
	return ctx, func() {
		release()
		cancel()
	}, nil
}
