package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/oxidgene/oxidgene/internal/config"
	"github.com/oxidgene/oxidgene/internal/database"
	"github.com/oxidgene/oxidgene/internal/logging"
	"github.com/oxidgene/oxidgene/internal/server"
	"github.com/oxidgene/oxidgene/internal/store"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "oxidgene-api",
		Short: "OxidGene genealogy API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("host", defaults.GetString("host"), "HTTP listen host")
	cmd.PersistentFlags().Int("port", defaults.GetInt("port"), "HTTP listen port")
	cmd.PersistentFlags().String("database-url", defaults.GetString("database_url"), "SQLite path or postgres:// URL")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log_level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("cors-origin", defaults.GetString("cors_origin"), "Allowed CORS origin")

	bindFlag(cmd, "host", "host")
	bindFlag(cmd, "port", "port")
	bindFlag(cmd, "database_url", "database-url")
	bindFlag(cmd, "log_level", "log-level")
	bindFlag(cmd, "cors_origin", "cors-origin")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	return config.ReadConfigFile(viper.GetViper(), cfgFile)
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig.DatabaseURL, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	dataStore, err := store.NewStore(store.StoreConfig{
		Database: db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Store:      dataStore,
		Logger:     logger,
		CORSOrigin: appConfig.CORSOrigin,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.Address(),
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.Address()))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
