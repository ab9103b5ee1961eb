// Lambda entry point for the webhook. The process is built once per cold
// start and then invoked per update through API Gateway.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"gastobot/internal/amqp"
	"gastobot/internal/backend"
	"gastobot/internal/bot"
	"gastobot/internal/config"
	gsheet "gastobot/internal/sheets/google"
	"gastobot/internal/telegram"
)

const ackBody = "Message processed successfully"

type app struct {
	handler *bot.Handler
}

func (a *app) handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var update telegram.Update
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		slog.ErrorContext(ctx, "Failed to decode webhook payload", "error", err)
		return ack(), nil
	}

	if err := a.handler.Handle(ctx, update); err != nil {
		slog.ErrorContext(ctx, "Webhook invocation aborted", "error", err)
	}
	return ack(), nil
}

// ack is the fixed 200 response: Telegram retries anything else.
func ack() events.APIGatewayProxyResponse {
	body, _ := json.Marshal(ackBody)
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Lambda deployments persist nothing locally, so the stores default to
	// DynamoDB rather than the in-process backend.
	if os.Getenv("DATA_BACKEND") == "" {
		os.Setenv("DATA_BACKEND", "dynamo")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	stores, err := backend.CreateStores(ctx, backend.FromAppConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize store backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	mirror, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	notifier := telegram.NewClient(cfg.BotToken)

	handler := bot.NewHandler(stores.Sessions, stores.Expenses, mirror, notifier, cfg.OperatorEmail)

	if cfg.AMQPURL != "" {
		stream, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event stream", "error", err)
		} else {
			handler.WithEvents(stream)
		}
	}

	lambda.Start((&app{handler: handler}).handleRequest)
}
