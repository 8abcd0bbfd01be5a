package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/vadimbarashkov/shortly/internal/app"
	"github.com/vadimbarashkov/shortly/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	if err := app.Run(ctx, cfg); err != nil {
		panic(err)
	}
}
