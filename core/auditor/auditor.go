package auditor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/pkg/logger"
)

const defaultInterval = 60 * time.Second

// Checker verifies one round of module invariants.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Auditor periodically runs a Checker until it is shut down. A failed check
// stops the worker: an inconsistent ledger must not keep serving.
type Auditor struct {
	Checker  Checker
	Interval time.Duration

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New(checker Checker, interval time.Duration) *Auditor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Auditor{
		Checker:  checker,
		Interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (a *Auditor) Shutdown() error {
	return a.ShutdownWithContext(context.Background())
}

func (a *Auditor) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.ShutdownWithContext(ctx)
}

func (a *Auditor) ShutdownWithContext(ctx context.Context) (err error) {
	a.quitOnce.Do(func() {
		close(a.quit)
		select {
		case <-a.done:
		case <-ctx.Done():
			err = errors.Wrap(errs.Timeout, "auditor shutdown timeout")
		}
	})
	return
}

func (a *Auditor) Run(ctx context.Context) error {
	defer close(a.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "auditor"),
		slog.String("checker", a.Checker.Name()),
	)

	// run one check at startup before settling into the interval
	if err := a.Checker.Check(ctx); err != nil {
		return errors.Wrap(err, "initial check failed")
	}

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping auditor")
			if err := a.Checker.Shutdown(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown checker", err)
				return errors.Wrap(err, "checker shutdown failed")
			}
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.Checker.Check(ctx); err != nil {
				logger.ErrorContext(ctx, "Audit check failed", err)
				return errors.Wrap(err, "check failed")
			}
			logger.DebugContext(ctx, "Audit check passed, waiting for next interval")
		}
	}
}
