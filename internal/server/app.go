// Package server wires the backend together: configuration, logging, the
// directory and notifier collaborators, the auth core and its adapters.
// Every Lambda entrypoint builds one App at cold start and reuses it
// read-only across invocations; construction is idempotent, so racing
// initializations are harmless.
package server

import (
	"context"
	"fmt"

	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/auth"
	"github.com/flado/awareness/internal/server/config"
	"github.com/flado/awareness/internal/server/directory"
	"github.com/flado/awareness/internal/server/lambdaapi"
	"github.com/flado/awareness/internal/server/notify"
	"github.com/flado/awareness/internal/server/services"
)

type App struct {
	Config     *config.Config
	Logger     logging.Logger
	Users      *services.Service
	Tokens     *auth.TokenService
	Authorizer *auth.Authorizer

	// Lambda-facing adapters.
	API           *lambdaapi.API
	APIAuthorizer *lambdaapi.Authorizer
}

func NewApp(ctx context.Context) (*App, error) {
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger()

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenValidity)
	authorizer := auth.NewAuthorizer(tokens)

	client, err := directory.NewDynamoClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("directory init error: %w", err)
	}
	repo := directory.NewDynamoRepository(client, cfg.UsersTable)

	var notifier notify.Notifier
	if cfg.Offline {
		notifier = notify.NewLogNotifier(logger)
	} else {
		sesClient, err := notify.NewSESClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("notifier init error: %w", err)
		}
		notifier = notify.NewSESNotifier(sesClient, cfg.MailFrom)
	}

	users := services.NewService(repo, notifier, tokens, cfg, logger)

	return &App{
		Config:        cfg,
		Logger:        logger,
		Users:         users,
		Tokens:        tokens,
		Authorizer:    authorizer,
		API:           lambdaapi.NewAPI(users, logger),
		APIAuthorizer: lambdaapi.NewAuthorizer(authorizer, logger),
	}, nil
}
