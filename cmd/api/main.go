package main

import (
	"context"
	"log"

	"github.com/warelane/go-fulfillment-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("fulfillment API exited: %v", err)
	}
}
