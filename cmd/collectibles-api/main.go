package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mindtreelog/collectibles/internal/collections"
	"github.com/mindtreelog/collectibles/internal/config"
	"github.com/mindtreelog/collectibles/internal/database"
	"github.com/mindtreelog/collectibles/internal/logging"
	"github.com/mindtreelog/collectibles/internal/metadata"
	"github.com/mindtreelog/collectibles/internal/server"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "collectibles-api",
		Short: "Collectibles bookmarking backend service",
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
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("twitter-bearer-token", "", "Twitter API bearer token (overrides env)")
	cmd.PersistentFlags().String("github-token", "", "GitHub API token (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "twitter.bearer_token", "twitter-bearer-token")
	bindFlag(cmd, "github.token", "github-token")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	// A local .env carries API credentials in development.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
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

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	collectionsService, err := collections.NewService(collections.ServiceConfig{
		Database: db,
		Videos: metadata.NewYouTubeClient(metadata.YouTubeConfig{
			InsecureSkipVerify: !appConfig.YouTubeVerifyTLS,
			Logger:             logger,
		}),
		Posts: metadata.NewTwitterClient(metadata.TwitterConfig{
			BearerToken:        appConfig.TwitterBearerToken,
			InsecureSkipVerify: !appConfig.TwitterVerifyTLS,
			Logger:             logger,
		}),
		Papers: metadata.NewArxivClient(metadata.ArxivConfig{
			InsecureSkipVerify: !appConfig.ArxivVerifyTLS,
			Logger:             logger,
		}),
		Repos: metadata.NewGitHubClient(metadata.GitHubConfig{
			Token:              appConfig.GitHubToken,
			InsecureSkipVerify: !appConfig.GitHubVerifyTLS,
			Logger:             logger,
		}),
		Clock:      time.Now,
		IDProvider: collections.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Collections: collectionsService,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
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
