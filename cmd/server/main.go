package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/motocred/financing-engine/internal/config"
	"github.com/motocred/financing-engine/internal/handler"
	"github.com/motocred/financing-engine/internal/repository"
	"github.com/motocred/financing-engine/internal/service"
	"github.com/motocred/financing-engine/pkg/response"
)

func main() {
	// Load .env before viper reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	contractRepo := repository.NewContractRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Initialize service and handlers
	financingService := service.NewFinancingService(contractRepo, vehicleRepo, customerRepo, redisClient, cfg)
	financingHandler := handler.NewFinancingHandler(financingService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(financingHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.LoggingMiddleware(router),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Refresh penalties once at startup so the first screen shows current
	// figures even before the scheduler ticks.
	if _, err := financingService.Recalculate(context.Background(), time.Now()); err != nil {
		log.Printf("Initial recalculation failed: %v", err)
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(financingHandler *handler.FinancingHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/financiamentos", financingHandler.CreateContract).Methods("POST")
	api.HandleFunc("/financiamentos", financingHandler.GetContracts).Methods("GET")
	api.HandleFunc("/financiamentos/recalcular", financingHandler.Recalculate).Methods("POST")
	api.HandleFunc("/financiamentos/{contractId}", financingHandler.GetContract).Methods("GET")
	api.HandleFunc("/financiamentos/{contractId}/pagamentos", financingHandler.RegisterPayment).Methods("POST")
	api.HandleFunc("/financiamentos/{contractId}/parcelas", financingHandler.EditInstallment).Methods("PUT")

	api.HandleFunc("/motos", financingHandler.CreateVehicle).Methods("POST")
	api.HandleFunc("/motos", financingHandler.GetVehicles).Methods("GET")
	api.HandleFunc("/motos/{motoId}", financingHandler.DeleteVehicle).Methods("DELETE")

	api.HandleFunc("/clientes", financingHandler.CreateCustomer).Methods("POST")

	api.HandleFunc("/dashboard", financingHandler.Dashboard).Methods("GET")

	return router
}
