package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/motocred/financing-engine/internal/config"
	"github.com/motocred/financing-engine/internal/repository"
	"github.com/motocred/financing-engine/internal/service"
)

func main() {
	log.Println("Starting penalty recalculation scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	financingService := service.NewFinancingService(
		repository.NewContractRepository(db),
		repository.NewVehicleRepository(db),
		repository.NewCustomerRepository(db),
		redisClient,
		cfg,
	)

	// First sweep at startup, then on the configured interval.
	runSweep(financingService)

	c := cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %s", cfg.GetSchedulerInterval())
	if _, err := c.AddFunc(spec, func() { runSweep(financingService) }); err != nil {
		log.Fatalf("Error scheduling recalculation sweep: %v", err)
	}

	c.Start()
	log.Printf("Scheduler started, sweeping every %s", cfg.GetSchedulerInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func runSweep(s *service.FinancingService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.Recalculate(ctx, time.Now())
	if err != nil {
		log.Printf("Recalculation sweep failed: %v", err)
		return
	}

	log.Printf("Recalculation sweep done: %d contracts changed, %d installments newly overdue, %d issues",
		len(result.ContratosAlterados), result.NovasAtrasadas, len(result.Issues))
}
