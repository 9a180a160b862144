package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"braid"
	httpAdapter "braid/pkg/adapters/http"
	"braid/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a pipeline over HTTP",
	Long:  `Builds the model from the pipeline definition and exposes it as a JSON API, with Prometheus metrics at /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		verbose, _ := cmd.Flags().GetBool("verbose")
		port, _ := cmd.Flags().GetString("port")
		strategy, _ := cmd.Flags().GetString("handler")
		storePath, _ := cmd.Flags().GetString("store")

		logger := newLogger(verbose)
		promRegistry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(promRegistry)

		pipeline, err := loadPipeline(file)
		if err != nil {
			fmt.Printf("Error loading pipeline: %v\n", err)
			os.Exit(1)
		}

		hooks := braid.WithLifecycleHooks(metrics.Hooks(pipelineName(pipeline)))
		model, err := buildModel(pipeline, strategy, storePath, verbose, hooks)
		if err != nil {
			fmt.Printf("Error building model: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(
			map[string]*braid.Model{model.Name(): model},
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(promRegistry),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting braid server on %s\n", srv.Addr)
			fmt.Printf("Serving pipeline from: %s\n", file)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("braid server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("handler", "counted", "Execution strategy: counted, plain, or durable")
	serveCmd.Flags().String("store", "braid.db", "Store file for the durable strategy")
}
