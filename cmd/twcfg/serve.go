package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/di"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pages site",
	Long: `Start the HTTP site that serves documentation pages and the live
descriptor API. The descriptor is reloaded when its file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, flagString(cmd, configFlag), flagString(cmd, descriptorFlag))
}

// serve runs the site until ctx is canceled, then shuts down every service.
func serve(ctx context.Context, configPath, descriptorPath string) error {
	container, err := di.NewContainer(configPath, descriptorPath)
	if err != nil {
		return err
	}

	if err := container.HealthCheck(); err != nil {
		log.Error().Err(err).Msg("failed to initialize services")
		shutdown(container)
		return err
	}

	logger := di.MustInvoke[*di.LoggerService](container).Logger
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger

	descSvc := di.MustInvoke[*di.DescriptorService](container)
	descSvc.StartWatching(ctx)

	srvSvc, err := di.Invoke[*di.ServerService](container)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create server")
		shutdown(container)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", srvSvc.Server.Addr()).Msg("starting twcfg")
		errCh <- srvSvc.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
		shutdown(container)
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down...")
	}

	shutdown(container)
	logger.Info().Msg("server stopped")
	return nil
}

func shutdown(container *di.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := container.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
