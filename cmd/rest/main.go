package main

import (
	"context"
	"log"

	"amplified-be/internal/bootstrap"
	"amplified-be/internal/config"
	"amplified-be/internal/server"
	"amplified-be/internal/tracer"
	"amplified-be/pkg/database"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Background services
	go container.WebSocketHub.Run()

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.EventRelayService != nil {
		if err := container.EventRelayService.Start(); err != nil {
			log.Printf("Background Event Relay Error: %v", err)
		}
	}

	// 5. HTTP + WebSocket server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
