package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	trmsqlx "github.com/avito-tech/go-transaction-manager/sqlx"
	"github.com/avito-tech/go-transaction-manager/trm/manager"

	"github.com/velora-shop/cartserv/config"
	"github.com/velora-shop/cartserv/internal/backend"
	"github.com/velora-shop/cartserv/internal/httpserver"
	"github.com/velora-shop/cartserv/internal/repository"
	"github.com/velora-shop/cartserv/pkg/kafkaSender"
	"github.com/velora-shop/cartserv/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to the JSON config file")
	addr := flag.String("addr", ":8081", "listen address for the Cart API")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()

	db := postgres.NewDB(cfg.Postgres)
	if err := db.Start(ctx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Stop(ctx); err != nil {
			log.Printf("failed to close database connection: %v", err)
		}
	}()

	trManager := manager.Must(trmsqlx.NewDefaultFactory(db.DB))
	cartRepo := repository.NewCartRepository(db.DB, trManager)

	if err := cartRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	sender := kafkaSender.NewSender(cfg.Kafka, cartRepo)
	if err := sender.Start(ctx); err != nil {
		log.Printf("kafka sender not started, events stay queued: %v", err)
		sender = nil
	}
	defer func() {
		if sender == nil {
			return
		}
		if err := sender.Stop(ctx); err != nil {
			log.Printf("failed to stop kafka sender: %v", err)
		}
	}()

	server := backend.NewServer(cartRepo)
	httpServer := httpserver.NewServer(httpserver.Config{Host: *addr}, server.Router())

	if err := httpServer.Start(ctx); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	defer func() {
		if err := httpServer.Stop(ctx); err != nil {
			log.Printf("failed to stop server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
