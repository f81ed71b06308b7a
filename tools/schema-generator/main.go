package main

import (
	"log"
	"os"

	"github.com/grovetools/coverlay/config"
)

func main() {
	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// `go generate ./config` runs with the config package as the working
	// directory, so the default output lands next to the embed directive.
	outputPath := "coverlay.embedded.schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", outputPath)
}
