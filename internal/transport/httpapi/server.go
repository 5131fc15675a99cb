// Package httpapi публикует сервис заказов по HTTP (fiber). Все ответы, включая ошибки
// маршрутизации и разбора тела, имеют общий формат envelope.
package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/metrics"
	"github.com/vladislavdragonenkov/contract/internal/service/orders"
)

// Config — настройки HTTP-сервера.
type Config struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		AppName:      "contract-service",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	}
}

// Server — HTTP API сервиса заказов.
type Server struct {
	app     *fiber.App
	service *orders.Service
	metrics *metrics.ContractMetrics
	logger  *log.Entry
}

// New собирает fiber-приложение с middleware и маршрутами /api/v1.
func New(service *orders.Service, logger *log.Entry, m *metrics.ContractMetrics, cfg Config) *Server {
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	s := &Server{service: service, metrics: m, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, m),
	})

	s.app.Use(requestid.New())
	s.app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	s.app.Use(RequestLogger(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api/v1")
	api.Get("/version", s.getVersion)

	orderRoutes := api.Group("/orders", RequireCaller())
	orderRoutes.Post("/", s.createOrder)
	orderRoutes.Get("/", s.listOrders)
	orderRoutes.Get("/:id", s.getOrder)
	orderRoutes.Patch("/:id/status", s.changeStatus)
	orderRoutes.Post("/:id/cancel", s.cancelOrder)
	orderRoutes.Get("/:id/history", s.orderHistory)
}

// App возвращает fiber-приложение (используется в тестах через app.Test).
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve обслуживает запросы на переданном listener до остановки.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
