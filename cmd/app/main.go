package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/finanzasapp/ledger/pkg/events"
	"github.com/finanzasapp/ledger/pkg/handlers"
	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/sessions"
	"github.com/finanzasapp/ledger/pkg/storage"
	dynamostore "github.com/finanzasapp/ledger/pkg/storage/dynamodb"
	"github.com/finanzasapp/ledger/pkg/storage/memory"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var store storage.Storage
	var publisher events.Publisher = &events.NoOpPublisher{}

	if os.Getenv("STORAGE_BACKEND") == "memory" {
		logger.Warn("using in-memory storage, data will not survive a restart")
		store = memory.NewStore()
	} else {
		// AWS Session
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}

		usersTable := os.Getenv("DYNAMODB_USERS_TABLE_NAME")
		transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
		countersTable := os.Getenv("DYNAMODB_COUNTERS_TABLE_NAME")
		if usersTable == "" || transactionsTable == "" || countersTable == "" {
			log.Fatal("One or more DynamoDB table name environment variables are not set")
		}

		dbClient := awsdynamodb.NewFromConfig(cfg)
		store = dynamostore.New(dbClient, usersTable, transactionsTable, countersTable)

		// Event publishing is optional; without a queue URL the ledger stays silent.
		if queueURL := os.Getenv("SQS_QUEUE_URL"); queueURL != "" {
			publisher = events.NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
		}
	}

	ledgerService := ledger.NewService(store, publisher)
	sessionManager := sessions.NewManager()
	handler := handlers.New(ledgerService, sessionManager)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	logger.Info("starting server", slog.String("port", port))

	if err := http.ListenAndServe(":"+port, handler.Routes(logger)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
