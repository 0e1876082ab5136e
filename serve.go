package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mcc-sewer-dashboard/handlers"
	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/services"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	var addr string
	var warm bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API and the admin listener",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, warm)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	cmd.Flags().BoolVar(&warm, "warm", true, "Load the dataset before accepting requests")
	return cmd
}

func runServe(ctx context.Context, a *app, warm bool) error {
	log := a.logger
	reg := metrics.NewRegistry()
	cache := services.NewDatasetCache(a.cfg.DatasetOptions(), reg, log.Named("cache"))
	svc := services.NewDashboardService(cache, log)

	if warm {
		if _, err := cache.Get(ctx); err != nil {
			return err
		}
	}

	servers := []*http.Server{{
		Addr:              a.cfg.Server.Addr,
		Handler:           handlers.NewRouter(svc, reg, log.Named("http"), a.cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if a.cfg.Server.AdminAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              a.cfg.Server.AdminAddr,
			Handler:           handlers.NewAdminRouter(svc, reg, log.Named("admin")),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
