// Command server runs the trademark search web application.
package main

import (
	"flag"
	"log"

	"github.com/simp-lee/tmsearch/internal/app"
	"github.com/simp-lee/tmsearch/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("tmsearch: load config %s: %v", *configPath, err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("tmsearch: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("tmsearch: %v", err)
	}
}
