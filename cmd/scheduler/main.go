package main

import (
	"context"
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

	"github.com/pawnbook/ledger-engine/internal/config"
	"github.com/pawnbook/ledger-engine/internal/pricefeed"
	"github.com/pawnbook/ledger-engine/internal/repository"
	"github.com/pawnbook/ledger-engine/internal/service"
)

func main() {
	log.Println("Starting ledger scheduler...")

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

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	feed := pricefeed.NewRedisFeed(redisClient, cfg.GetPriceCacheTTL())
	ledgerService := service.NewLedgerService(loanRepo, paymentRepo, feed, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep: persist re-derived statuses (overdue transitions in
	// particular) so list views do not need read-time derivation.
	_, err = c.AddFunc(cfg.Scheduler.StatusSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		changed, err := ledgerService.SweepStatuses(ctx, time.Now())
		if err != nil {
			log.Printf("Status sweep failed: %v", err)
			return
		}
		log.Printf("Status sweep complete: %d loan(s) updated", changed)
	})
	if err != nil {
		log.Fatalf("Error scheduling status sweep job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}
