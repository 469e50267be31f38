package main

import (
	"context"
	"log"
	"time"

	"knowbase/internal/activities"
	"knowbase/internal/config"
	"knowbase/internal/notify"
	"knowbase/internal/storage"
	"knowbase/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx, cfg.EmbedDim); err != nil {
		log.Fatal(err)
	}

	// Events reach the API process only through Redis; the in-memory hub is
	// the single-process fallback.
	var publisher notify.Publisher = notify.NewMemoryHub()
	if cfg.RedisAddr != "" {
		publisher = notify.NewRedisPublisher(cfg.RedisAddr)
	}

	a, err := activities.New(cfg, db, publisher)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	log.Printf("knowbase worker listening on %s queue=%s embed_providers=%q llm_providers=%q", cfg.TemporalAddress, cfg.TemporalTaskQueue, cfg.EmbedProviders, cfg.LLMProviders)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
