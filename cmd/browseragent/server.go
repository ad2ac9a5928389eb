package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/agent"
	"github.com/BaSui01/browser-agent/api/handlers"
	"github.com/BaSui01/browser-agent/config"
	"github.com/BaSui01/browser-agent/internal/metrics"
	"github.com/BaSui01/browser-agent/internal/server"
	"github.com/BaSui01/browser-agent/internal/telemetry"
	"github.com/BaSui01/browser-agent/llm"
)

// Server is the browser-agent main server.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	healthHandler *handlers.HealthHandler
	taskHandler   *handlers.TaskHandler

	metricsCollector *metrics.Collector
	otelProviders    *telemetry.Providers

	rateLimiterCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewServer creates a server instance.
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
	}
}

// Start brings up the HTTP surface and the metrics port.
func (s *Server) Start() error {
	s.metricsCollector = metrics.NewCollector("browseragent", s.logger)

	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)
	return nil
}

func (s *Server) initHandlers() error {
	s.healthHandler = handlers.NewHealthHandler(Version, s.logger)

	// The model client only serves readiness; tasks carry the
	// credentials to the runtime themselves.
	if s.cfg.LLM.APIKey != "" {
		llmClient, err := llm.NewClient(s.cfg.LLM, s.logger)
		if err != nil {
			return fmt.Errorf("create llm client: %w", err)
		}
		s.healthHandler.RegisterCheck(handlers.HealthCheckFunc{
			CheckName: "llm",
			Fn:        llmClient.HealthCheck,
		})
	} else {
		s.logger.Warn("LLM API key not configured, readiness skips the upstream probe")
	}

	factory := agent.NewFactory(s.cfg.Agent, s.cfg.LLM, s.logger)
	s.taskHandler = handlers.NewTaskHandler(factory, s.metricsCollector, s.logger)

	s.logger.Info("Handlers initialized",
		zap.String("runtime_url", s.cfg.Agent.RuntimeURL),
		zap.String("model", s.cfg.LLM.Model),
	)
	return nil
}

func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion)

	mux.HandleFunc("/browse", s.taskHandler.HandleBrowse)
	mux.HandleFunc("/scroll-app", s.taskHandler.HandleScrollApp)
	mux.HandleFunc("/search-document", s.taskHandler.HandleSearchDocument)

	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel
	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(rateLimiterCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
		MetricsMiddleware(s.metricsCollector),
		OTelTracing(),
	)

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		// Write timeout bounds the whole browser run.
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// WaitForShutdown blocks until a signal arrives, then shuts down.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown closes every component gracefully.
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
