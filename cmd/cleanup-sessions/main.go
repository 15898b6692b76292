// Command cleanup-sessions deletes expired sessions.
//
// Usage:
//
//	cleanup-sessions
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	sessionrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/session"
)

func main() {
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

	n, err := sessionrepo.New(pool).DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("cleanup sessions: %v", err)
	}

	fmt.Printf("Deleted %d expired sessions.\n", n)
}
