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

	"bluecarbon/internal/api"
	"bluecarbon/internal/clipboard"
	"bluecarbon/internal/config"
	"bluecarbon/internal/db"
	"bluecarbon/internal/logger"
	"bluecarbon/internal/provider"
	"bluecarbon/internal/service"
	"bluecarbon/pkg"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bluecarbon",
	Short: "Blue Carbon Registry wallet service",
	Long:  `Serves the registry's demo login, wallet connection and carbon credit transfer API.`,
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(zapLogger)
	logger := pkg.NewZapLogger(zapLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewDefaultClock()
	walletProvider, closeProvider, err := newProvider(ctx, cfg, clk)
	if err != nil {
		logger.Error("Failed to set up wallet provider", zap.String("provider", cfg.WalletProvider), zap.Error(err))
		return err
	}
	defer closeProvider()

	cb, err := clipboard.New(cfg.Clipboard)
	if err != nil {
		logger.Error("Failed to set up clipboard", zap.String("clipboard", cfg.Clipboard), zap.Error(err))
		return err
	}

	sessions := db.NewMemorySessionDB()
	authService := service.NewAuthService(sessions, logger, clk, cfg.JWTSecret, cfg.SessionTTL, service.Credentials{
		Email:    cfg.DemoEmail,
		Password: cfg.DemoPassword,
	})
	walletService := service.NewWalletService(sessions, service.WalletDeps{
		Provider:  walletProvider,
		Clipboard: cb,
		Clock:     clk,
		Log:       logger,
		Options: service.WalletOptions{
			ConfirmDelay:    cfg.ConfirmDelay,
			CopiedReset:     cfg.CopiedReset,
			DebitOnTransfer: cfg.DebitOnTransfer,
		},
	})
	defer walletService.Close()

	e := api.NewServer(&api.Handlers{
		AuthService:   authService,
		WalletService: walletService,
		Logger:        logger,
	}, cfg.AllowedOrigin)

	errCh := make(chan error, 1)
	go func() {
		port := fmt.Sprintf(":%s", cfg.ServerPort)
		logger.Info("Starting server", zap.String("port", cfg.ServerPort), zap.String("provider", cfg.WalletProvider))
		errCh <- e.Start(port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to run server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
		return err
	}
	return nil
}

func newProvider(ctx context.Context, cfg *config.Config, clk clock.Clock) (provider.WalletProvider, func(), error) {
	switch cfg.WalletProvider {
	case "rpc":
		p, err := provider.DialRPCProvider(ctx, cfg.RPCURL)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return provider.NewDemoProvider(clk, cfg.ConnectDelay), func() {}, nil
	}
}
