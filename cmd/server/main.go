package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	assistantapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/assistant"
	catalogapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/config"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/logger"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/persistence"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/remote"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/telemetry"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/interfaces/http/handler"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/interfaces/http/middleware"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront API
//	@version		1.0
//	@description	Product detail storefront with a product assistant chat
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	products, err := persistence.LoadCatalog(ctx, cfg.Catalog, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.Tracing.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.Tracing.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	observers := []assistant.Observer{telemetry.NewAssistantSpans()}
	assistantMetrics, err := telemetry.NewAssistantMetrics(meterProvider.Meter("storefront.assistant"))
	if err != nil {
		log.Warn("Assistant metrics disabled", zap.Error(err))
	} else {
		observers = append(observers, assistantMetrics)
	}
	sessionOpts := []assistantapp.Option{
		assistantapp.WithLogger(log),
		assistantapp.WithObserver(assistant.Observers(observers...)),
	}

	productService := catalogapp.NewProductService(products)
	sessionService := assistantapp.NewSessionService(
		products,
		telemetry.TraceRemote(newRemote(cfg.Assistant, log)),
		assistant.NewClassifier(nil),
		assistantapp.Config{
			RemoteTimeout: cfg.Assistant.Timeout,
			IdleTTL:       cfg.Assistant.SessionIdleTTL,
			MaxSessions:   cfg.Assistant.MaxSessions,
		},
		sessionOpts...,
	)
	sessionService.StartJanitor(janitorInterval(cfg.Assistant.SessionIdleTTL))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        tracerProvider.IsEnabled(),
			TracerProvider: tracerProvider.Provider(),
		}),
		middleware.SpanEnricher(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(meterProvider.Meter("storefront.http"), log),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		RegisterRoot(handler.NewHealthHandler(productService, sessionService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewChatHandler(sessionService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	_ = sessionService.Close()
	if limiter != nil {
		limiter.Stop()
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newRemote builds the configured assistant backend. A nil Remote makes
// every session answer from the keyword classifier.
func newRemote(cfg config.AssistantConfig, log *zap.Logger) assistant.Remote {
	switch cfg.Provider {
	case config.ProviderWebhook:
		log.Info("Assistant uses webhook", zap.String("url", cfg.WebhookURL))
		return remote.NewWebhookAssistant(cfg.WebhookURL, remote.WithResponsePath(cfg.WebhookResponsePath))
	case config.ProviderOpenAI:
		log.Info("Assistant uses OpenAI-compatible API",
			zap.String("base_url", cfg.OpenAIBaseURL),
			zap.String("model", cfg.OpenAIModel),
		)
		return remote.NewOpenAIAssistant(remote.OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		})
	default:
		log.Info("No remote assistant configured, replies come from the fallback classifier")
		return nil
	}
}

// janitorInterval sweeps idle sessions a few times per TTL
func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
