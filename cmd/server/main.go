package main

import (
	"log"

	appfx "github.com/amityadav/searchagg/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule, // Provides: config.Config
		appfx.SearchModule, // Provides: *search.Registry
		appfx.CoreModule,   // Provides: *core.SearchCore, server.Searcher
		appfx.ServerModule, // Starts the HTTP server (REST + WebSocket)

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
