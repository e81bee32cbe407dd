// Command shopd serves the storefront API.
package main

import (
	"context"
	"log"
	"os"

	"github.com/naazbookdepot/shopauth/internal/config"
	"github.com/naazbookdepot/shopauth/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
