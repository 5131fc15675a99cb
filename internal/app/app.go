// Package app собирает сервис заказов из конфигурации и управляет его жизненным циклом.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/contract/internal/health"
	"github.com/vladislavdragonenkov/contract/internal/metrics"
	"github.com/vladislavdragonenkov/contract/internal/service/orders"
	"github.com/vladislavdragonenkov/contract/internal/transport/grpcapi"
	"github.com/vladislavdragonenkov/contract/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/contract/internal/version"
)

// Run запускает HTTP API, gRPC API и сервер метрик и блокируется до отмены ctx
// или ошибки одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := NewLogger(cfg).WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger.WithField("layer", "storage"))
	if err != nil {
		return err
	}
	defer deps.close(logger)

	contractMetrics := metrics.NewContractMetrics()

	producer, _ := initKafkaProducer(cfg.Brokers(), logger.WithField("layer", "kafka"))
	defer closeKafkaProducer(producer, logger)

	service := orders.NewService(
		deps.orders,
		deps.history,
		newStatusPublisher(cfg, producer, logger),
		logger.WithField("layer", "service"),
		orders.WithMetrics(contractMetrics),
	)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", deps.storageChecker)

	grpcServer, grpcHealth := newGRPCServer(service, logger.WithField("layer", "grpc"), contractMetrics)
	httpServer := httpapi.New(service, logger.WithField("layer", "http"), contractMetrics, httpapi.DefaultConfig())

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = grpcLis.Close()
		return err
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("gRPC сервер слушает %s", grpcLis.Addr())
		errCh <- grpcServer.Serve(grpcLis)
	}()
	go func() {
		logger.Infof("HTTP API слушает %s", httpLis.Addr())
		errCh <- httpServer.Serve(httpLis)
	}()

	shutdown := func() {
		grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		stopGRPC(grpcServer, cfg.ShutdownTimeout, logger)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("http api shutdown with error")
		}
		shutdownHTTP(metricsSrv, logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		shutdown()
		return ctx.Err()
	case err := <-errCh:
		shutdown()
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// newGRPCServer регистрирует OrderLifecycle, health и reflection на сервере
// с метриками go-grpc-prometheus.
func newGRPCServer(service *orders.Service, logger *log.Entry, m *metrics.ContractMetrics) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcMetrics.UnaryServerInterceptor(),
		grpcapi.UnaryErrorInterceptor(logger, m),
	))
	grpcapi.RegisterOrderLifecycleServer(server, grpcapi.NewServer(service, logger))
	grpcMetrics.InitializeMetrics(server)

	reflection.Register(server)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server, healthServer
}

func stopGRPC(server *grpc.Server, timeout time.Duration, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

// startMetricsServer запускает служебный HTTP-сервер: /metrics, /healthz, /livez, /readyz.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
