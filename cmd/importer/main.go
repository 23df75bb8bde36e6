package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/mollie-import/internal/application/billing"
	"github.com/mohammadpnp/mollie-import/internal/bootstrap"
	"github.com/mohammadpnp/mollie-import/internal/infrastructure/config"
	"github.com/mohammadpnp/mollie-import/internal/infrastructure/csvfile"
	"github.com/mohammadpnp/mollie-import/internal/infrastructure/logging"
	"github.com/mohammadpnp/mollie-import/internal/infrastructure/mollie"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "mollie-import",
		Short:         "Import customers, mandates and subscriptions into Mollie from a CSV export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.ini", "path to config file")

	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newSubscriptionsCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))

	return root
}

type services struct {
	importer app.ImportFromCSV
	lister   app.ListSubscriptions
}

func buildServices(configPath string, dryRun bool) (*services, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(cfg.LogFile)

	client := mollie.NewClient(mollie.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		DryRun:  dryRun,
		Logger:  logger,
	})

	retrier := app.NewRetrier(5, app.DoublingBackoff(time.Second), app.TransientClassifier(mollie.IsTransient))
	pipeline := app.NewPipeline(client, retrier, logger)

	source := csvfile.NewLocalSource(cfg.ImportBaseDir)
	importer := app.NewImportFromCSV(csvfile.NewReader(source), pipeline, csvfile.NewWriter(source), nil, logger)
	lister := app.NewListSubscriptions(client, logger)

	return &services{importer: importer, lister: lister}, nil
}

func newImportCmd(configPath *string) *cobra.Command {
	var exportPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run the import against the export CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildServices(*configPath, dryRun)
			if err != nil {
				return err
			}

			out, err := svc.importer.Execute(cmd.Context(), app.ImportFromCSVInput{SourcePath: exportPath})
			if err != nil {
				return err
			}

			cmd.Printf("Import finished. Processed: %d, Succeeded: %d, Failed: %d\n", out.Processed, out.Succeeded, out.Failed)
			cmd.Printf("Results written to %s\n", out.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "e", "export.csv", "path to the export CSV file")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "t", false, "do not POST to Mollie; produce deterministic fake ids")

	return cmd
}

func newSubscriptionsCmd(configPath *string) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Fetch all subscriptions from Mollie and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildServices(*configPath, false)
			if err != nil {
				return err
			}

			out, err := svc.lister.Execute(cmd.Context())
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode subscriptions: %w", err)
			}

			if outputPath == "" {
				cmd.Println(string(encoded))
				return nil
			}
			if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", outputPath, err)
			}
			cmd.Printf("Wrote %d subscriptions to %s\n", out.Count, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the importer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildServices(*configPath, false)
			if err != nil {
				return err
			}

			server := bootstrap.NewHTTPServer(svc.importer, svc.lister)

			errCh := make(chan error, 1)
			go func() {
				if err := server.Start(":" + port); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "listen port")

	return cmd
}
