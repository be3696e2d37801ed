package main

import (
	"context"
	"log"
	"time"

	"github.com/coltranesx/Project-Area/infrastructure/config"
	"github.com/coltranesx/Project-Area/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
	coldStart = true
)

func init() {
	start := time.Now()
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.IsLambda = true

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router, ok := container.HTTPHandler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(router)

	container.Logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(start)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
	ctx, seg := container.Tracer.StartSubsegment(ctx, "request")
	if seg != nil {
		defer func() { seg.Close(err) }()
	}

	container.Tracer.AddAnnotation(ctx, "path", req.RequestContext.HTTP.Path)
	container.Tracer.AddAnnotation(ctx, "method", req.RequestContext.HTTP.Method)
	if coldStart {
		container.Tracer.AddAnnotation(ctx, "cold_start", "true")
		coldStart = false
	}

	resp, err = chiLambda.ProxyWithContextV2(ctx, req)

	container.Tracer.AddMetadata(ctx, "status", resp.StatusCode)
	container.FlushMetrics(ctx)

	container.Logger.Info("Lambda request handled",
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.RequestContext.RequestID),
	)
	return resp, err
}

func main() {
	lambda.Start(Handler)
}
