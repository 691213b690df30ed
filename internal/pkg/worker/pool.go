// Package worker provides goroutine pool management.
//
// Naked goroutines are not used outside cmd/ and the websocket writer: fan-out
// work (per-field spell checks) goes through a Pool with context propagation.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Pools is the worker pool collection.
type Pools struct {
	// General runs CPU-bound fan-out (local rule checks).
	General *Pool
	// Backend runs calls to the spell-check and AI backends.
	Backend *Pool

	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// PoolConfig contains worker pool configuration.
type PoolConfig struct {
	GeneralPoolSize int
	BackendPoolSize int
}

// DefaultPoolConfig returns default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		GeneralPoolSize: 32,
		BackendPoolSize: 8,
	}
}

// NewPool creates a single named pool. Blocking submission, idle workers are
// purged after expiry.
func NewPool(name string, size int, expiry time.Duration) (*Pool, error) {
	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.String("pool", name),
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}
	p, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(expiry),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, name: name}, nil
}

// NewPools creates the worker pool collection.
func NewPools(ctx context.Context, cfg PoolConfig) (*Pools, error) {
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	general, err := NewPool("general", cfg.GeneralPoolSize, 10*time.Second)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	backend, err := NewPool("backend", cfg.BackendPoolSize, 30*time.Second)
	if err != nil {
		general.pool.Release()
		serviceCancel()
		return nil, err
	}

	return &Pools{
		General:       general,
		Backend:       backend,
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}, nil
}

// Name returns the pool name used in logs.
func (p *Pool) Name() string { return p.name }

// Submit submits a context-aware task.
// If ctx is already cancelled it returns ctx.Err() without submitting. A task
// whose context is cancelled while queued is skipped.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			logger.Debug("Task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Release closes the pool, waiting at most timeout for running tasks.
func (p *Pool) Release(timeout time.Duration) {
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		logger.Warn("Pool shutdown timeout", zap.String("pool", p.name), zap.Error(err))
	}
}

// SubmitDetached runs a task on the service lifecycle context instead of a
// request context, so it survives request cancellation but stops on shutdown.
func (p *Pools) SubmitDetached(poolName string, task Task) error {
	pool := p.General
	if poolName == "backend" {
		pool = p.Backend
	}

	return pool.pool.Submit(func() {
		select {
		case <-p.serviceCtx.Done():
			logger.Debug("Detached task skipped: service shutting down",
				zap.String("pool", poolName),
			)
			return
		default:
		}
		task(p.serviceCtx)
	})
}

// Shutdown cancels detached tasks and releases all pools.
func (p *Pools) Shutdown() {
	p.serviceCancel()

	const shutdownTimeout = 30 * time.Second
	p.General.Release(shutdownTimeout)
	p.Backend.Release(shutdownTimeout)
}

// Metrics returns pool metrics for the readiness endpoint.
func (p *Pools) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"general": map[string]int{
			"running": p.General.pool.Running(),
			"free":    p.General.pool.Free(),
			"cap":     p.General.pool.Cap(),
		},
		"backend": map[string]int{
			"running": p.Backend.pool.Running(),
			"free":    p.Backend.pool.Free(),
			"cap":     p.Backend.pool.Cap(),
		},
	}
}
