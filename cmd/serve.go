package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/paradoxdash/internal/dashboard"
	"github.com/ziadkadry99/paradoxdash/internal/server"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Starts the dashboard HTTP server. Charts are drawn from the bundled sample,
then updated from the configured metrics source once at startup, on the
refresh interval when enabled, when a watched file changes, and on
POST /api/refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		tm := telemetry.New()
		l := newLoader(cfg, logger, tm)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := dashboardOptions(cfg, logger, tm)
		opts.Load = l.Load
		opts.RefreshEnabled = cfg.Refresh.Enabled
		opts.RefreshInterval = cfg.Refresh.Interval
		if cfg.Metrics.Watch {
			if path, ok := l.FilePath(); ok {
				opts.WatchPath = path
			} else {
				logger.Warn("metrics.watch ignored for non-file source", zap.String("source", l.Source()))
			}
		}

		dash, err := dashboard.Bootstrap(ctx, opts)
		if err != nil {
			return bootstrapError(cfg, err)
		}
		defer dash.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, logger.Named("server"), tm.Registry)
		dash.RegisterRoutes(srv.Router())

		logger.Info("paradoxdash starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("source", l.Source()),
			zap.Bool("refresh", cfg.Refresh.Enabled))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
