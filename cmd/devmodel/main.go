package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"digitpad/adapters/devmodel"
	"digitpad/internal"
)

func main() {
	_ = godotenv.Load()

	var addr, tag string
	var classes int

	rootCmd := &cobra.Command{
		Use:   "devmodel",
		Short: "Stand-in model server for local digitpad runs",
		Long: `Serve /api/predict, /api/health and /api/models/current with scores
derived from the ink distribution of the uploaded drawing.

Example: devmodel --addr :8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.NewDefaultLogger()
			server := devmodel.NewServer(devmodel.Config{Tag: tag, Classes: classes}, logger)
			return serve(cmd.Context(), addr, server.Handler())
		},
	}

	rootCmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	rootCmd.Flags().StringVar(&tag, "tag", "devmodel", "Model tag reported by /api/models/current")
	rootCmd.Flags().IntVar(&classes, "classes", devmodel.DefaultClasses, "Number of scores per prediction")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("devmodel listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
