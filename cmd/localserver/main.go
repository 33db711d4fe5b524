// Command localserver runs the whole backend as one plain HTTP server for
// local development, the way serverless-offline did for the deployed stack.
// A .env file is honored when present.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/flado/awareness/internal/server"
	"github.com/flado/awareness/internal/server/httpapi"
)

func main() {
	// best effort; absence of .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx)
	if err != nil {
		log.Fatalf("localserver init: %v", err)
	}

	handler := httpapi.NewHandler(app.Users, app.Authorizer, app.Logger)
	srv := &http.Server{Addr: app.Config.LocalAddr, Handler: handler}

	go func() {
		app.Logger.Info(ctx, "local server listening", "addr", app.Config.LocalAddr, "offline", app.Config.Offline)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	app.Logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
