package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/cache"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/handler"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/metrics"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/middleware"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/repository"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/security"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/config"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := repository.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Printf("Database ready (%s)", cfg.DBDriver)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis")

	store := repository.NewSQLRepository(db)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokenStore := cache.NewRedisTokenStore(redisClient)
	promMetrics := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	identityService := services.NewIdentityService(store, store, hasher, nil)
	authService := services.NewAuthService(store, hasher, tokenStore, cfg.JWTPrivateKey, cfg.TokenTTL, nil)
	mealService := services.NewMealService(store, store, cfg.Cutoff, nil, promMetrics)
	reportService := services.NewReportService(store, services.NewPassGenerator(nil), cfg.Cutoff, nil, promMetrics)
	verificationService := services.NewVerificationService(store, promMetrics)
	billingService := services.NewBillingService(store, cfg.Cutoff, nil)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, tokenStore)

	mux := handler.NewRouter(handler.Handlers{
		Hostel:       handler.NewHostelHandler(identityService),
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(identityService),
		Meal:         handler.NewMealHandler(mealService),
		Report:       handler.NewReportHandler(reportService, mealService),
		Verification: handler.NewVerificationHandler(verificationService, mealService),
		Bill:         handler.NewBillHandler(billingService),
		Health:       handler.NewHealthHandler(db, redisClient),
		Metrics:      promhttp.Handler(),
	}, authMiddleware)

	var h http.Handler = mux
	h = middleware.CORSMiddleware(cfg.AllowedOrigins)(h)
	h = middleware.Metrics(promMetrics)(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("received signal %v, shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down server: %v", err)
	}
	log.Println("shutdown complete")
}
