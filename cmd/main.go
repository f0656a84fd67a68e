package main

import (
	"context"
	"flag"
	"log"

	"github.com/ArturZahn/OBBot/internal/app"
)

func main() {
	flag.Parse()

	ctx := context.Background()

	a, err := app.NewApp(ctx)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("failed to run app: %v", err)
	}
}
