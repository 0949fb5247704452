package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/config"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.RequireAuthSecret(); err != nil {
		log.Fatal(err)
	}

	clients, err := awsx.NewClients(context.Background(), cfg.AWS.Region)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	hcfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		Tables:           cfg.Tables,
		JWTSecret:        cfg.Auth.JWTSecret,
		JWTExpiry:        cfg.Auth.JWTExpiry,
		QueueURL:         cfg.Notify.QueueURL,
		FrontendURL:      cfg.Notify.FrontendURL,
		MetricsNamespace: cfg.Server.MetricsNamespace,
	}

	r := setupRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		log.Printf("[api] running local server on %s", cfg.Server.Addr)
		if err := r.Run(cfg.Server.Addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
