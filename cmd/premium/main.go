// Command premium flips a user's premium flag by email address. Premium
// users bypass the daily generation quotas. It stands in for the billing
// webhook in development environments.
//
// Usage:
//
//	premium --email=user@example.com [--off]
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	email := flag.String("email", "", "email of the user")
	off := flag.Bool("off", false, "revoke premium instead of granting it")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: premium --email=user@example.com [--off]")
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	premium := !*off
	tag, err := pool.Exec(ctx,
		"UPDATE users SET is_premium = $2, updated_at = now() WHERE email = $1 AND is_premium != $2",
		*email, premium,
	)
	if err != nil {
		log.Fatalf("update premium flag: %v", err)
	}

	if tag.RowsAffected() == 0 {
		fmt.Printf("No user found with email %q, or flag already set.\n", *email)
		os.Exit(1)
	}

	if premium {
		fmt.Printf("User %q is now premium.\n", *email)
	} else {
		fmt.Printf("User %q is no longer premium.\n", *email)
	}
}
