// Command daily-close closes one business day, or re-closes a range of days
// in order, against the configured database. With no flags it closes today.
//
//	daily-close -date 2024-03-01
//	daily-close -from 2024-02-01 -to 2024-02-29
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/sjperalta/ventas-api/internal/config"
	"github.com/sjperalta/ventas-api/internal/database"
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/services"
	"github.com/sjperalta/ventas-api/pkg/logger"
)

func main() {
	date := flag.String("date", "", "day to close (YYYY-MM-DD), defaults to today")
	from := flag.String("from", "", "first day of a range to re-close (YYYY-MM-DD)")
	to := flag.String("to", "", "last day of a range to re-close (YYYY-MM-DD)")
	actor := flag.Uint("actor", uint(jobs.SystemActorID), "actor id recorded in the audit log")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	if cfg.StorageDriver != config.StorageDriverPostgres {
		log.Fatalf("daily-close needs STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := repository.NewStore(db)
	defer store.Close()

	// Audit records are written synchronously; there is no worker to drain
	svc := services.NewServices(store, nil, services.Options{
		Calendar:         services.NewCalendar(cfg.Location),
		AutoApproveRoles: cfg.AutoApproveRoles,
	}).DailyBalance

	if err := run(ctx, svc, uint(*actor), *date, *from, *to, cfg.Location); err != nil {
		logger.Error("daily close failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.DailyBalanceService, actorID uint, date, from, to string, loc *time.Location) error {
	if from != "" || to != "" {
		if date != "" {
			return fmt.Errorf("-date cannot be combined with -from/-to")
		}
		if from == "" || to == "" {
			return fmt.Errorf("-from and -to must be given together")
		}
		start, err := models.ParseDay(from, loc)
		if err != nil {
			return fmt.Errorf("invalid -from: %w", err)
		}
		end, err := models.ParseDay(to, loc)
		if err != nil {
			return fmt.Errorf("invalid -to: %w", err)
		}
		balances, err := svc.CloseRange(ctx, actorID, start, end)
		if err != nil {
			return err
		}
		for _, b := range balances {
			printBalance(&b)
		}
		return nil
	}

	var day *time.Time
	if date != "" {
		d, err := models.ParseDay(date, loc)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		day = &d
	}
	balance, err := svc.CloseDay(ctx, actorID, day)
	if err != nil {
		return err
	}
	printBalance(balance)
	return nil
}

func printBalance(b *models.DailyBalance) {
	fmt.Printf("%s  opening %12s  closing %12s\n",
		b.Date.Format(models.DateLayout), b.OpeningBalance.StringFixed(2), b.ClosingBalance.StringFixed(2))
}
