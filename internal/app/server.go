package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aph138/phoneuser/docs"
	"github.com/aph138/phoneuser/internal/cache"
	"github.com/aph138/phoneuser/internal/db"
	"github.com/aph138/phoneuser/pkg/authentication"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Application struct {
	logger   *slog.Logger
	jwt      *authentication.JWT
	cache    cache.Cache
	db       db.Database
	tokenTTL time.Duration
}

func NewApplication(logger *slog.Logger, jwt *authentication.JWT, cache cache.Cache, db db.Database, tokenTTL time.Duration) *Application {
	return &Application{
		logger:   logger,
		jwt:      jwt,
		cache:    cache,
		db:       db,
		tokenTTL: tokenTTL,
	}
}

// Routes returns the handler serving every endpoint.
func (a *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", a.CreateUserHandler)
	mux.HandleFunc("GET /users/{phone}", a.GetUserHandler)
	mux.HandleFunc("POST /login", a.LoginHandler)
	mux.HandleFunc("POST /check", a.CheckHandler)
	mux.Handle("GET /search", a.AuthMiddleware(http.HandlerFunc(a.SearchUserHandler)))
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Run serves on address until SIGINT or SIGTERM, then shuts down within shutdownTimeout
// and closes the cache and the database.
func (a *Application) Run(address string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              address,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info(fmt.Sprintf("starting server at %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("err when ListenAndServe %w", err)
		}
		close(serveErr)
	}()

	// handling any interruption gracefully
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-serveErr:
		a.release(context.Background())
		return err
	case <-sig:
	}

	a.logger.Info("starting graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	var err error
	if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
		err = fmt.Errorf("err when shutting down the server %w", shutdownErr)
	}
	a.release(ctx)
	if err == nil {
		a.logger.Info("server is successfully shut down")
	}
	return err
}

func (a *Application) release(ctx context.Context) {
	if err := a.cache.Close(ctx); err != nil {
		a.logger.Error(fmt.Sprintf("err when closing cache: %s", err.Error()))
	}
	if err := a.db.Close(ctx); err != nil {
		a.logger.Error(fmt.Sprintf("err when closing db: %s", err.Error()))
	}
}
