package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotforge/pkg/server"
)

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over the graph store",
		Long: `Serve exposes graph storage and rendering over HTTP. Graphs are persisted
in the configured store (file directory or MongoDB) and rendered artifacts
are cached in the configured cache (file directory or Redis).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, listen string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Listen
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	c, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := server.New(st, c, logger, cfg.CacheTTL.Duration)
	httpSrv := &http.Server{
		Addr:    listen,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", listen, "store", cfg.StoreBackend, "cache", cfg.CacheBackend)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
