package main

import (
	"net/http"
	"time"

	"github.com/maemo32/v4rtos/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler continuously, exposing Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			r, cfg, err := buildSimulator(cfgFile, log)
			if err != nil {
				return err
			}
			defer r.Destroy()

			reg := metrics.NewRegistry(r.Scheduler(), r)

			mux := http.NewServeMux()
			mux.Handle("/metrics", reg.Handler())

			server := &http.Server{Addr: cfg.MetricsListen, Handler: mux}
			go func() {
				log.Info("serving metrics", zap.String("addr", cfg.MetricsListen))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("metrics server stopped", zap.Error(err))
				}
			}()

			ticker := time.NewTicker(cfg.TickInterval)
			defer ticker.Stop()
			for range ticker.C {
				if err := r.Tick(uint32(cfg.TickInterval.Milliseconds())); err != nil {
					log.Error("tick error", zap.Error(err))
				}
			}
			return nil
		},
	}
	return cmd
}
