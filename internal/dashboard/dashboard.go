// Package dashboard wires the chart registry to live data: it bootstraps the
// charts from the sample snapshot, reconciles loaded snapshots into them and
// serves the page, the JSON views and the live redraw stream.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

// ErrNoRenderer is returned by Bootstrap when no charting capability is
// available.
var ErrNoRenderer = errors.New("charting capability not available")

// DefaultAssetsHost serves echarts.min.js when no host is configured.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Options configures Bootstrap.
type Options struct {
	Renderer charts.Renderer
	Layout   charts.Layout
	// Load fetches live snapshots. Nil leaves the sample on display.
	Load LoadFunc

	RefreshEnabled  bool
	RefreshInterval time.Duration
	// WatchPath, when set, refreshes whenever that file changes.
	WatchPath string

	Title      string
	Notes      template.HTML
	AssetsHost string

	Logger  *zap.Logger
	Metrics *telemetry.Metrics
}

// Dashboard owns the charts and the background work that keeps them current.
type Dashboard struct {
	coord     *Coordinator
	refresher *Refresher
	hub       *Hub

	title      string
	notes      template.HTML
	assetsHost string
	logger     *zap.Logger

	cancel context.CancelFunc
	group  *errgroup.Group
}

// Bootstrap creates the charts from the sample snapshot, runs one refresh
// cycle and, when enabled, starts the periodic loop and the file watcher.
// Background work stops when ctx is done or Close is called.
func Bootstrap(ctx context.Context, opts Options) (*Dashboard, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Renderer == nil {
		logger.Error("no charting capability available, charts not created")
		return nil, ErrNoRenderer
	}

	reg := charts.NewRegistry(opts.Renderer, logger.Named("charts"))
	sample := metrics.Sample()
	handles, err := reg.CreateAll(opts.Layout, sample)
	if err != nil {
		return nil, fmt.Errorf("creating charts: %w", err)
	}
	logger.Info("charts created",
		zap.String("renderer", opts.Renderer.Name()), zap.Int("charts", len(handles)))

	hub := NewHub(logger.Named("hub"), opts.Metrics)
	coord := NewCoordinator(reg, sample, hub, logger.Named("coordinator"), opts.Metrics)

	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	refresher := NewRefresher(opts.Load, coord, interval, logger.Named("refresher"), opts.Metrics)

	assetsHost := opts.AssetsHost
	if assetsHost == "" {
		assetsHost = DefaultAssetsHost
	}
	d := &Dashboard{
		coord:      coord,
		refresher:  refresher,
		hub:        hub,
		title:      opts.Title,
		notes:      opts.Notes,
		assetsHost: assetsHost,
		logger:     logger,
	}

	if opts.Load != nil {
		refresher.Trigger(ctx)
	}

	bgCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(bgCtx)
	d.cancel = cancel
	d.group = g

	if opts.RefreshEnabled && opts.Load != nil {
		g.Go(func() error { return refresher.Run(gctx) })
	}
	if opts.WatchPath != "" && opts.Load != nil {
		w, err := NewWatcher(opts.WatchPath, refresher.Trigger, logger.Named("watcher"))
		if err != nil {
			// A missing directory only costs the watcher.
			logger.Warn("file watcher disabled", zap.Error(err))
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}
	return d, nil
}

// Close stops background work and disconnects live clients.
func (d *Dashboard) Close() error {
	d.cancel()
	err := d.group.Wait()
	d.hub.Close()
	return err
}

// Coordinator returns the update coordinator.
func (d *Dashboard) Coordinator() *Coordinator { return d.coord }

// Refresher returns the refresh gate shared by every trigger.
func (d *Dashboard) Refresher() *Refresher { return d.refresher }

// Hub returns the live redraw hub.
func (d *Dashboard) Hub() *Hub { return d.hub }

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", d.ServeIndex)
		r.Get("/charts/{name}", d.handleChart)
		r.Get("/api/metrics", d.handleMetrics)
		r.Get("/api/charts", d.handleCharts)
		r.Post("/api/refresh", d.handleRefresh)
	})
	// The live stream outlives any request timeout.
	r.Get("/ws/charts", d.handleWebSocket)
}
