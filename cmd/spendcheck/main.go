// Command spendcheck runs the spending tracker client core: it resolves the
// startup identity (stored session, local guest fallback, or a fresh
// anonymous sign-in), loads preferences, and serves the wired services
// until interrupted.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables;
// a .env file in the working directory is picked up automatically.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spendcheck/spendcheck-go/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
