package main

import (
	"log"
	"net/http"
	"os"

	"qforge/internal/app"
)

func main() {
	cfg := app.LoadConfig()

	r := app.NewRouter(cfg)

	log.Printf("qforge web listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
