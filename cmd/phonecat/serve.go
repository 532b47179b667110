package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/phonecat/internal/db"
	"github.com/vbonduro/phonecat/internal/imagestore/local"
	"github.com/vbonduro/phonecat/internal/service"
	"github.com/vbonduro/phonecat/internal/store"
	"github.com/vbonduro/phonecat/internal/upload"
	"github.com/vbonduro/phonecat/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Open the catalog database, create the schema if needed and serve the REST API until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddrArg != "" {
			cfg.ListenAddr = listenAddrArg
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()

		images, err := local.NewLocalImageStore(cfg.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to initialize upload directory: %w", err)
		}

		svc := service.NewCatalogService(
			store.NewSmartphoneStore(database),
			upload.NewHelper(images, cfg.AllowedExtensions, logger),
			images,
			logger,
		)
		server := web.NewServer(svc, cfg, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.ListenAndServe(ctx, cfg.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddrArg, "addr", "", "listen address, overrides LISTEN_ADDR")
	rootCmd.AddCommand(serveCmd)
}
