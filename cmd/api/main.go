package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jtallman/projtrack/internal/auth"
	"github.com/jtallman/projtrack/internal/config"
	"github.com/jtallman/projtrack/internal/db"
	"github.com/jtallman/projtrack/internal/handlers"
	"github.com/jtallman/projtrack/internal/middleware"
	"github.com/jtallman/projtrack/internal/repo"
	"github.com/jtallman/projtrack/internal/stats"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogFormat)

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Run(databaseURL(cfg)); err != nil {
		slog.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	userRepo := repo.NewUserRepo(database)
	projectRepo := repo.NewProjectRepo(database)
	collector := stats.Run(userRepo, projectRepo)
	defer collector.Stop()

	r := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// newRouter builds the full HTTP surface. Kept separate from main so the
// integration tests can stand up the real router over a mock database.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	authHandler := &handlers.AuthHandler{
		UserRepo: repo.NewUserRepo(database),
		Tokens:   tokens,
	}
	projectHandler := &handlers.ProjectHandler{
		Repo: repo.NewProjectRepo(database),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "not found", http.StatusNotFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/", projectHandler.ListProjects)
		r.Post("/", projectHandler.CreateProject)
		r.Get("/{id}", projectHandler.GetProject)
		r.Put("/{id}", projectHandler.UpdateProject)
		r.Delete("/{id}", projectHandler.DeleteProject)
	})

	return r
}

func databaseURL(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPass),
		cfg.DBHost, cfg.DBPort, cfg.DBName)
}

func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
