package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/naago/internal/app"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ naago failed to start: %v", err)
	}
}
