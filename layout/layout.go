// Package layout is the engine's public surface. A Layout owns one graph
// instance: it builds the simulation buffer and link table from raw input,
// drives the per-frame transfer protocol against a compute host, and
// republishes positions, metadata and the stability signal to the caller.
//
// The position buffer has exactly one owner at any instant. Tick transfers
// it to the compute host; it comes back with the completed frame. Between
// frames the caller may read it through Positions. While a frame is in
// flight Positions reports no buffer, never a stale or shared one.
package layout

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/compute"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/config"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/physics"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/telemetry"
)

// ErrClosed means the layout instance has been destroyed.
var ErrClosed = errors.New("layout: closed")

// Layout is one live layout instance.
type Layout struct {
	id        string
	log       *log.Logger
	cfg       *config.Config
	meta      []models.NodeMeta
	host      compute.Host
	collector *telemetry.Collector
	static    bool

	mu            sync.Mutex
	buf           []float32 // nil while transferred to the host
	alpha         float32
	pendingReheat bool // reheat arrived while a frame was in flight
	closed        bool

	stable atomic.Bool
	framec chan struct{}
	closec chan struct{}
}

// Option configures a Layout at construction.
type Option func(*settings)

type settings struct {
	logger *log.Logger
	seed   int64
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithSeed fixes the initial-placement seed, making layouts reproducible.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.WarnLevel,
	})
}

// New builds a layout instance from raw nodes and links. Links whose
// endpoints are not in the node list are dropped silently. A zero
// viewport falls back to the configured default. The compute strategy
// comes from cfg.Compute.Mode; in static mode the initial placement is
// published as final and the layout reports stable immediately.
func New(cfg *config.Config, nodes []models.NodeSpec, links []models.LinkSpec, vp models.Viewport, opts ...Option) (*Layout, error) {
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = models.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	}

	s := settings{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}

	st := store.New(nodes, vp, s.seed)
	resolved := st.ResolveLinks(links)
	sim := physics.NewSimulation(resolved, vp, cfg.Spatial.CellSize, cfg.Spatial.Rings, paramsFromConfig(cfg))

	l := &Layout{
		id:     models.NewInstanceID(),
		log:    s.logger,
		cfg:    cfg,
		meta:   st.Meta(),
		buf:    st.TakeBuffer(),
		alpha:  cfg.Cooling.InitialAlpha,
		framec: make(chan struct{}, 1),
		closec: make(chan struct{}),
	}
	if cfg.Telemetry.Enabled {
		l.collector = telemetry.NewCollector(cfg.Telemetry.Window)
	}

	switch cfg.Compute.Mode {
	case config.ModeWorker:
		l.host = compute.NewWorkerHost(sim.Step)
	case config.ModeInline:
		l.host = compute.NewInlineHost(sim.Step)
		l.log.Debug("running frames inline in the caller's goroutine", "layout", l.id)
	case config.ModeStatic:
		// Degraded environment: no frame computation at all. The initial
		// placement is the final layout.
		l.static = true
		l.stable.Store(true)
		l.log.Warn("frame compute unavailable; publishing static layout", "layout", l.id)
	}
	if l.host != nil {
		go l.collect()
	}

	l.log.Info("layout initialized",
		"layout", l.id,
		"nodes", st.Len(),
		"links", len(resolved),
		"dropped_links", len(links)-len(resolved),
		"mode", cfg.Compute.Mode,
	)
	return l, nil
}

// paramsFromConfig flattens the config into the physics constants.
func paramsFromConfig(cfg *config.Config) physics.Params {
	cutoff := cfg.Spatial.CellSize * float32(cfg.Spatial.Rings)
	return physics.Params{
		Repulsion:  cfg.Forces.Repulsion,
		Spring:     cfg.Forces.Spring,
		RestLength: cfg.Forces.RestLength,
		Gravity:    cfg.Forces.Gravity,
		Damping:    cfg.Forces.Damping,
		Bounce:     cfg.Forces.Bounce,
		EpsilonSq:  cfg.Forces.Epsilon * cfg.Forces.Epsilon,
		CutoffSq:   cutoff * cutoff,
		Cooling: physics.Cooling{
			DecayRate:   cfg.Cooling.DecayRate,
			Floor:       cfg.Cooling.Floor,
			ReheatAlpha: cfg.Cooling.ReheatAlpha,
		},
	}
}

// collect receives completed frames from the host, restores buffer
// ownership and republishes alpha and the stability flag.
func (l *Layout) collect() {
	for {
		select {
		case f := <-l.host.Results():
			if l.collector != nil {
				l.collector.Record(f.Buf, f.Elapsed)
			}
			l.mu.Lock()
			if l.closed {
				l.mu.Unlock()
				return
			}
			l.buf = f.Buf
			if l.pendingReheat {
				// A reheat landed while this frame was in flight; its
				// alpha is already stale. Keep the reheated value.
				l.pendingReheat = false
			} else {
				l.alpha = f.Alpha
				l.stable.Store(f.Stable)
			}
			l.mu.Unlock()
			select {
			case l.framec <- struct{}{}:
			default:
			}
		case <-l.closec:
			return
		}
	}
}

// Tick requests computation of the next frame, transferring the buffer to
// the compute host. It returns immediately: the frame completes
// asynchronously (with the inline strategy, during this call). Ticking a
// stable or static layout is a no-op; ticking while a frame is in flight
// returns compute.ErrFrameInFlight.
func (l *Layout) Tick() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if l.static || l.stable.Load() {
		return nil
	}
	if l.buf == nil {
		return compute.ErrFrameInFlight
	}

	f := compute.Frame{Buf: l.buf, Alpha: l.alpha}
	l.buf = nil
	if err := l.host.Submit(f); err != nil {
		l.buf = f.Buf
		return err
	}
	return nil
}

// Positions returns the live position buffer and true when the layout
// currently owns it, or nil and false while a frame is in flight. The
// slice is a read-only view: positions of slot i sit at i*store.Stride
// plus store.OffX / store.OffY. Callers must not retain it across Tick.
func (l *Layout) Positions() ([]float32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, false
	}
	return l.buf, l.buf != nil
}

// Meta returns the immutable per-slot node metadata. Its order matches
// buffer slots and never changes for the lifetime of the instance.
func (l *Layout) Meta() []models.NodeMeta {
	return l.meta
}

// Stable reports whether the layout has converged.
func (l *Layout) Stable() bool {
	return l.stable.Load()
}

// Alpha returns the temperature the next frame will observe.
func (l *Layout) Alpha() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alpha
}

// Reheat raises alpha to the configured restart value and clears the
// stable flag, resuming motion without rebuilding the graph. It may be
// called at any time; it does not need buffer ownership.
func (l *Layout) Reheat() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.static {
		return
	}
	l.alpha = l.cfg.Cooling.ReheatAlpha
	l.stable.Store(false)
	if l.buf == nil {
		l.pendingReheat = true
	}
}

// Stats returns the telemetry snapshot, zero when telemetry is disabled.
func (l *Layout) Stats() telemetry.Stats {
	if l.collector == nil {
		return telemetry.Stats{}
	}
	return l.collector.Snapshot()
}

// Run drives the layout until it stabilizes, maxFrames is exhausted
// (0 means no cap), or ctx is canceled. It is a convenience for callers
// without their own frame scheduler.
func (l *Layout) Run(ctx context.Context, maxFrames int) error {
	frames := 0
	for !l.Stable() {
		if maxFrames > 0 && frames >= maxFrames {
			return nil
		}
		if err := l.Tick(); err != nil {
			return err
		}
		select {
		case <-l.framec:
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closec:
			return ErrClosed
		}
		frames++
	}
	return nil
}

// Close destroys the instance: the compute host is terminated immediately
// with no drain, and a frame in flight is abandoned.
func (l *Layout) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.buf = nil
	l.mu.Unlock()

	close(l.closec)
	if l.host != nil {
		l.host.Close()
	}
	l.log.Debug("layout destroyed", "layout", l.id)
}
