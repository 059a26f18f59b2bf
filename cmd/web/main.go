// Package main starts the browser-facing web service.
//
// This process serves the public marketing site, newsletter signup,
// and the admin newsroom console from one SQLite-backed binary.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	webcmd "github.com/dcorpo/intel/internal/cmd/web"
	"github.com/dcorpo/intel/internal/platform/config"
)

func main() {
	cfg, err := webcmd.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	log.SetPrefix("[WEB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
