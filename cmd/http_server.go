package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/auth"
	"github.com/frahmantamala/employee-api/internal/employee"
	"github.com/frahmantamala/employee-api/internal/store"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/frahmantamala/employee-api/internal/transport/rest"
	"github.com/frahmantamala/employee-api/internal/transport/swagger"
	"github.com/frahmantamala/employee-api/internal/user"
	"github.com/frahmantamala/employee-api/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config          *internal.Config
	Store           *store.Store
	Router          *chi.Mux
	Logger          *slog.Logger
	AuthService     *auth.Service
	UserService     *user.Service
	EmployeeService *employee.Service
}

func startHTTPServer() {
	ctx := context.Background()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Store.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Store.Close(shutdownCtx); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close(context.Background())
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	handlers := rest.Handlers{
		Health:   rest.NewHealthHandler(deps.Store, deps.Store.Driver),
		Auth:     auth.NewHandler(base, deps.AuthService),
		User:     user.NewHandler(base, deps.UserService),
		Employee: employee.NewHandler(base, deps.EmployeeService),
	}

	rest.RegisterAllRoutes(deps.Router, handlers, rest.RouterOptions{
		AllowedOrigins: deps.Config.Server.Origins(),
		RequestLogging: true,
	}, deps.Logger)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	if _, err := swagger.LoadSpec(ctx); err != nil {
		return nil, err
	}

	secret, err := signingSecret(config, lg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(secret, auth.AccessTokenTTL)

	return &Dependencies{
		Config:          config,
		Store:           st,
		Router:          chi.NewRouter(),
		Logger:          lg,
		AuthService:     auth.NewService(st.Users, tokenGen, config.Security.BCryptCost, lg),
		UserService:     user.NewService(st.Users, lg),
		EmployeeService: employee.NewService(st.Employees, lg),
	}, nil
}

// signingSecret returns the configured JWT secret. Outside production an
// empty setting yields a random per-process secret.
func signingSecret(cfg *internal.Config, lg *slog.Logger) (string, error) {
	if cfg.Security.JWTSecret != "" {
		return cfg.Security.JWTSecret, nil
	}
	if cfg.IsProduction() {
		return "", errors.New("JWT_SECRET is required in production")
	}

	secret, err := auth.GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	lg.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	return secret, nil
}
