package main

import (
	"context"
	"log"
	"time"

	"comments-backend/infrastructure/config"
	"comments-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

func init() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiRouter, ok := container.Handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.Bool("ready", container.Session.Ready()),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	// A warm container whose seed failed gets another attempt per invocation
	if !container.Session.Ready() && container.SeedSource != nil {
		loadCtx, cancel := context.WithTimeout(ctx, container.Config.SeedTimeout)
		if err := container.Session.Load(loadCtx, container.SeedSource); err != nil {
			container.Logger.Warn("Seed reload failed", zap.Error(err))
		}
		cancel()
	}

	applyGatewayIdentity(&req)

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}

	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		resp.Headers["X-Cold-Start-Duration"] = time.Since(coldStartTime).String()
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}

	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}
	resp.Headers["X-Lambda-Stage"] = req.RequestContext.Stage

	if resp.StatusCode >= 500 {
		container.Logger.Error("Lambda error response",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("request_id", req.RequestContext.RequestID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", resp.Body),
		)
	}

	return resp, err
}

// applyGatewayIdentity forwards the subject of a JWT already validated by the
// API Gateway authorizer. Client-supplied gateway headers are always dropped.
func applyGatewayIdentity(req *events.APIGatewayV2HTTPRequest) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	for _, h := range []string{"x-api-gateway-authorized", "X-API-Gateway-Authorized", "x-user-id", "X-User-ID"} {
		delete(req.Headers, h)
	}

	authorizer := req.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return
	}

	sub := authorizer.JWT.Claims["sub"]
	if sub == "" {
		return
	}

	req.Headers["X-API-Gateway-Authorized"] = "true"
	req.Headers["X-User-ID"] = sub
}

func main() {
	lambda.Start(Handler)
}
