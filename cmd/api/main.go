package main

import (
	"log"
	"net/http"

	"knowbase/internal/api"
	"knowbase/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("knowbase api listening on %s embed_providers=%q llm_providers=%q", cfg.APIAddr, cfg.EmbedProviders, cfg.LLMProviders)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
