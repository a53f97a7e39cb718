package main

import (
	"flag"
	"log"

	"pricewatch/internal/di"
	"pricewatch/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	debugMode := flag.Bool("debug", false, "enable debug mode")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debugMode,
	})
	if err != nil {
		log.Fatalf("failed to start application: %s", err)
	}
}
