// Команда contract-service запускает HTTP и gRPC API сервиса заказов.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/app"
	"github.com/vladislavdragonenkov/contract/internal/version"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("некорректная конфигурация")
	}

	logger := app.NewLogger(cfg).WithField("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"version":        version.GetVersion(),
		"http_addr":      cfg.HTTPAddr,
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
	}).Info("запускаем contract-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	logger.Info("contract-service остановлен")
}
