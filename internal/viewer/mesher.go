package viewer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/surfview/internal/logger"
	"github.com/Faultbox/surfview/pkg/surface"
)

type meshResult struct {
	generation int
	mesh       *surface.Mesh
	err        error
	elapsed    time.Duration
}

// mesher runs mesh generation off the main thread. Each Request cancels the
// one before it, so at most one superseded mesh is still being built.
type mesher struct {
	results    chan meshResult
	generation int
	cancel     context.CancelFunc
}

func newMesher() *mesher {
	return &mesher{results: make(chan meshResult, 1)}
}

// Request starts generating p and returns its generation number.
func (m *mesher) Request(p surface.Params) int {
	m.Stop()
	m.generation++
	gen := m.generation

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go func() {
		start := time.Now()
		mesh, err := surface.GenerateContext(ctx, p)
		if ctx.Err() != nil {
			return
		}
		res := meshResult{generation: gen, mesh: mesh, err: err, elapsed: time.Since(start)}
		select {
		case m.results <- res:
		case <-ctx.Done():
		}
	}()
	return gen
}

// Poll returns the result of the newest request once it is ready. Results
// of older requests are discarded.
func (m *mesher) Poll() (meshResult, bool) {
	for {
		select {
		case res := <-m.results:
			if res.generation != m.generation {
				logger.Debug("dropping stale mesh", zap.Int("generation", res.generation))
				continue
			}
			return res, true
		default:
			return meshResult{}, false
		}
	}
}

// Stop cancels the pending request, if any.
func (m *mesher) Stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
