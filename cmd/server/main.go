// Command server runs the QuillHub backend HTTP server.
//
// Configuration is read from CONFIG_PATH (fallback ./config.yaml) and
// environment variables; DATABASE_DSN is required.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/quillhub/quillhub-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
