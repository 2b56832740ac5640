package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokenvote/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ledger + outbox adapters + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM.
//
// @title Voting Ledger API
// @version 1.0
// @description Token balances, candidate registry and owner-authorized voting.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("voting-ledger api starting")
	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("voting-ledger api stopped with error: %v", err)
	}
}
