package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/flado/awareness/internal/server"
)

func main() {
	app, err := server.NewApp(context.Background())
	if err != nil {
		log.Fatalf("me init: %v", err)
	}
	lambda.Start(app.API.Me)
}
