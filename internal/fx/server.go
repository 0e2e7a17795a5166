package fx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/server"
	"go.uber.org/fx"
)

// ServerModule provides the HTTP server
var ServerModule = fx.Module("server",
	fx.Provide(NewHTTPServer),
	fx.Invoke(StartServer),
)

// NewHTTPServer creates the HTTP server with REST, WebSocket, CORS and recovery
func NewHTTPServer(searcher server.Searcher, cfg config.Config) *http.Server {
	restHandler := server.CreateRESTHandler(server.Services{Searcher: searcher}, cfg)
	corsHandler := server.CreateCORSHandler(restHandler, cfg.CORSOrigins)
	recoveryHandler := server.CreateRecoveryHandler(corsHandler)

	log.Printf("[FX] HTTP Server created (origins: %v)", cfg.CORSOrigins)
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: recoveryHandler,
	}
}

// ServerParams groups dependencies for starting the server
type ServerParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Server    *http.Server
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(p ServerParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", p.Server.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Printf("[FX] HTTP Server (REST + WebSocket) listening on %s", p.Server.Addr)
				if err := p.Server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return p.Server.Shutdown(ctx)
		},
	})
}
