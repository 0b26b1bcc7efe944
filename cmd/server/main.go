package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authevents "github.com/abhisheknirogi/Pharmacy-ai/internal/auth/events"
	authhandler "github.com/abhisheknirogi/Pharmacy-ai/internal/auth/handler"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/jwt"
	authrepo "github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	authservice "github.com/abhisheknirogi/Pharmacy-ai/internal/auth/service"
	catalogevents "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/events"
	cataloghandler "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/handler"
	catalogrepo "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/repository"
	catalogservice "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/service"
	reorderhandler "github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/handler"
	reorderservice "github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/service"
	salesevents "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/events"
	saleshandler "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/handler"
	salesrepo "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/repository"
	salesservice "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/messaging"
)

const serviceName = "pharmarec-api"

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithLevel(serviceName, cfg.Server.Environment, cfg.Logging.Level)
	log.Info().Str("version", version).Msg("starting PharmaRec API")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Event publishing is optional; without RabbitMQ the API runs with
	// publishing disabled.
	var rmq *messaging.RabbitMQ
	userEvents := authevents.NewUserEventPublisher(nil, log)
	medicineEvents := catalogevents.NewMedicineEventPublisher(nil, log)
	saleEvents := salesevents.NewSaleEventPublisher(nil, log)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log.WithComponent("rabbitmq"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		pub, err := messaging.NewPublisher(rmq, messaging.ExchangeEvents, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		userEvents = authevents.NewUserEventPublisher(pub, log)
		medicineEvents = catalogevents.NewMedicineEventPublisher(pub, log)
		saleEvents = salesevents.NewSaleEventPublisher(pub, log)
	} else {
		log.Info().Msg("event publishing disabled")
	}

	// Initialize components
	jwtManager := jwt.NewManager(&cfg.JWT)
	authLog := log.WithComponent("auth")
	authService := authservice.NewAuthService(authrepo.NewUserRepository(db), jwtManager, userEvents, authLog)
	authHandler := authhandler.NewAuthHandler(authService, authLog)

	catalogLog := log.WithComponent("catalog")
	medicineRepo := catalogrepo.NewMedicineRepository(db)
	catalogService := catalogservice.NewCatalogService(medicineRepo, medicineEvents, catalogLog)
	medicineHandler := cataloghandler.NewMedicineHandler(catalogService, catalogLog)

	salesLog := log.WithComponent("sales")
	saleRepo := salesrepo.NewSaleRepository(db)
	salesService := salesservice.NewSalesService(saleRepo, saleEvents, salesLog)
	saleHandler := saleshandler.NewSaleHandler(salesService, salesLog)

	reorderLog := log.WithComponent("reorder")
	reorderService, err := reorderservice.NewReorderService(medicineRepo, saleRepo, cfg.Reorder, reorderLog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reorder engine")
	}
	reorderHandler := reorderhandler.NewReorderHandler(reorderService, reorderLog)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(correlateEvents)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httputil.SecurityHeaders)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.RateLimit.Enabled {
		rl := httputil.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, log)
		defer rl.Stop()
		r.Use(rl.Middleware)
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{
			"service": serviceName,
			"version": version,
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(authhandler.RequireAuth(jwtManager))
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authhandler.RequireAuth(jwtManager))

			// Medicine catalog routes
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", medicineHandler.List)
				r.Post("/", medicineHandler.Create)
				r.Get("/search", medicineHandler.Search)
				r.Get("/expiring", medicineHandler.Expiring)
				r.Get("/low-stock", medicineHandler.LowStock)
				r.Get("/{id}", medicineHandler.Get)
				r.Put("/{id}", medicineHandler.Update)
				r.Delete("/{id}", medicineHandler.Delete)
			})

			// Sales routes
			r.Route("/sales", func(r chi.Router) {
				r.Get("/", saleHandler.List)
				r.Post("/", saleHandler.Record)
				r.Get("/summary", saleHandler.Summary)
				r.Get("/{id}", saleHandler.Get)
			})

			// Reorder prediction routes
			r.Route("/reorder", func(r chi.Router) {
				r.Get("/suggestions", reorderHandler.Suggestions)
				r.Get("/analysis", reorderHandler.Analysis)
				r.Get("/predict/{id}", reorderHandler.Predict)
			})
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// correlateEvents carries the request ID into the messaging context, so
// events published while serving a request share its correlation ID
func correlateEvents(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := messaging.WithCorrelationID(r.Context(), httputil.GetRequestID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
