// Command seed provisions demo users for local development. The identity
// service owns user rows in production; this tool stands in for it so the
// API can be exercised end to end.
//
// Flags:
//
//	--count    number of demo users to create (default: 3)
//	--premium  also create one premium user
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lumis-app/lumis-backend/internal/adapter/postgres"
	userrepo "github.com/lumis-app/lumis-backend/internal/adapter/postgres/user"
	"github.com/lumis-app/lumis-backend/internal/app"
	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/domain"
)

func main() {
	count := flag.Int("count", 3, "number of demo users to create")
	premium := flag.Bool("premium", false, "also create one premium user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	// All-or-nothing: a partially seeded database is worse than none. A
	// failed statement aborts the whole transaction, so duplicates cannot
	// be skipped mid-flight; they mean the database was already seeded.
	created := 0
	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		for i := 1; i <= *count; i++ {
			u := &domain.User{Email: fmt.Sprintf("demo%d@example.com", i)}
			if _, err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("create %s: %w", u.Email, err)
			}
			created++
		}

		if *premium {
			u := &domain.User{Email: "premium@example.com", IsPremium: true}
			if _, err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("create premium user: %w", err)
			}
			created++
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.Info("database already seeded, nothing to do")
			return
		}
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed", slog.Int("created", created))
}
