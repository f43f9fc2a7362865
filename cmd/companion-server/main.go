package main

import (
	"fmt"
	"log"
	"net/http"

	"event-companion-backend/internal/config"
	"event-companion-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	fmt.Printf("event companion listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
