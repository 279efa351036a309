// This is the main entry point of the feedback board application.
// It initializes configuration, the database connection pool, schema
// migrations, services, and handlers, sets up the HTTP router and middleware,
// and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// `chi` is a lightweight, idiomatic and composable router for building HTTP services in Go.
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	// `cors` provides CORS (Cross-Origin Resource Sharing) middleware.
	"github.com/go-chi/cors"
	// `godotenv` loads environment variables from a .env file, useful for development.
	"github.com/joho/godotenv"

	// Internal application packages (modules)
	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/config"
	"github.com/user/feedbackboard-go/db"
	"github.com/user/feedbackboard-go/feedback"
	"github.com/user/feedbackboard-go/users"
	"github.com/user/feedbackboard-go/web"
)

func main() {
	// Load .env file. In development this sets environment variables without
	// touching the system environment; in production the variables are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	// Load application configuration; every missing or malformed variable is
	// reported at once.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the database connection pool.
	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	// Run database migrations. The uniqueness and cascade-delete invariants of
	// the data model live in the schema, so this must succeed before serving.
	if err := db.RunMigrations(cfg.DB, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Parse all templates up front; a broken view fails the startup.
	views, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Services encapsulate business logic; dependencies are injected manually
	// via constructors, which is the common Go pattern.
	sessions := auth.NewSessionManager(*cfg.Session)
	authService := auth.NewService(pool)
	authHandlers := auth.NewHandlers(authService, sessions, views)

	feedbackService := feedback.NewService(pool)
	feedbackHandlers := feedback.NewHandler(feedbackService, views)

	userService := users.NewService(authService, feedbackService)
	userHandlers := users.NewHandlers(userService, views)

	// Create router and configure middleware.
	r := chi.NewRouter()

	// IMPORTANT: chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)                    // Log all requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.RequestID)                 // Add request ID to context
	r.Use(middleware.RealIP)                    // Get real IP from proxy headers
	r.Use(middleware.Timeout(60 * time.Second)) // Timeout long-running requests

	// CORS middleware. The site is same-origin form traffic, so the allowed
	// origin list stays tight; credentials must be allowed for the session cookie.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:" + cfg.Server.Port},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Error handling middleware: converts panics that slip past handlers into
	// the standard error page instead of a blank 500.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					views.Fail(ww, r, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	// Public routes: home, registration, login, logout.
	r.Get("/", authHandlers.HandleHome())
	r.Get("/register", authHandlers.HandleRegisterForm())
	r.Post("/register", authHandlers.HandleRegister())
	r.Get("/login", authHandlers.HandleLoginForm())
	r.Post("/login", authHandlers.HandleLogin())
	r.Get("/logout", authHandlers.HandleLogout())

	// Protected routes: everything about profiles and feedback requires an
	// established session. The middleware resolves the session cookie and puts
	// the username in the request context; anonymous requests are redirected
	// to the login page.
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireSession())

		r.Get("/users/{username}", userHandlers.HandleProfile())
		feedbackHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	// `http.Server` provides more control over server behavior than
	// `http.ListenAndServe`, including the timeouts and graceful shutdown below.
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so the main goroutine can wait for
	// shutdown signals.
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for SIGINT (Ctrl+C) or SIGTERM before shutting down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown: let in-flight requests finish, up to 30 seconds.
	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
