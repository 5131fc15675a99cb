// Package orders реализует сервис жизненного цикла заказов поверх контрактных пакетов:
// ошибки каталога, проверки валидации, переходы статусов и страницы результатов.
package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/contract/role"
	"github.com/vladislavdragonenkov/contract/contract/validation"
	"github.com/vladislavdragonenkov/contract/internal/domain"
	"github.com/vladislavdragonenkov/contract/internal/metrics"
)

// MaxReasonLength ограничивает длину причины смены статуса.
const MaxReasonLength = 500

// CreateOrderInput — данные для создания заказа.
type CreateOrderInput struct {
	CustomerID  string `json:"customerId" validate:"required,max=64"`
	Currency    string `json:"currency" validate:"required,len=3,alpha,uppercase"`
	AmountMinor int64  `json:"amountMinor" validate:"gt=0"`
}

// Service управляет заказами и их статусами.
type Service struct {
	orders    domain.OrderRepository
	history   domain.HistoryRepository
	publisher domain.StatusEventPublisher
	metrics   *metrics.ContractMetrics
	validator *validation.Validator
	logger    *log.Entry

	now   func() time.Time
	newID func() string
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов заказов и событий.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithMetrics включает запись метрик.
func WithMetrics(m *metrics.ContractMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService конструирует сервис. publisher может быть nil — события тогда не публикуются.
func NewService(
	orders domain.OrderRepository,
	history domain.HistoryRepository,
	publisher domain.StatusEventPublisher,
	logger *log.Entry,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	if publisher == nil {
		publisher = domain.NopPublisher{}
	}
	s := &Service{
		orders:    orders,
		history:   history,
		publisher: publisher,
		validator: validation.NewValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create создаёт заказ в начальном статусе. Пользователь создаёт заказы только для себя;
// пустой customerId заменяется его идентификатором.
func (s *Service) Create(ctx context.Context, caller role.Caller, input CreateOrderInput) (domain.Order, error) {
	defer s.observe("create", time.Now())

	if err := requireCaller(caller); err != nil {
		return domain.Order{}, err
	}

	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.Currency = strings.TrimSpace(input.Currency)
	if input.CustomerID == "" && !caller.Role.IsAdmin() {
		input.CustomerID = caller.UserID
	}
	if err := s.validator.Struct(input); err != nil {
		return domain.Order{}, err
	}
	if !caller.CanAccess(input.CustomerID) {
		return domain.Order{}, apperr.ResourceAccess("orders of customer " + input.CustomerID)
	}

	now := s.now()
	order := domain.Order{
		ID:          s.newID(),
		CustomerID:  input.CustomerID,
		Status:      lifecycle.Initial(),
		Currency:    input.Currency,
		AmountMinor: input.AmountMinor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, apperr.Internal("order invariants violated", errors.Join(errs...))
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return domain.Order{}, apperr.AlreadyExists("Order", "id", order.ID)
		}
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		return domain.Order{}, apperr.DatabaseError("create order", err)
	}

	s.recordChange(ctx, domain.StatusChange{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		To:         order.Status,
		ChangedBy:  caller.UserID,
		OccurredAt: now,
	})

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
	}).Info("order created")
	return order, nil
}

// Get возвращает заказ. Пользователь видит только свои заказы, администратор все.
func (s *Service) Get(ctx context.Context, caller role.Caller, id string) (domain.Order, error) {
	defer s.observe("get", time.Now())

	if err := requireCaller(caller); err != nil {
		return domain.Order{}, err
	}
	return s.loadAccessible(ctx, caller, id)
}

// List возвращает страницу заказов клиента, новые первыми.
func (s *Service) List(ctx context.Context, caller role.Caller, customerID string, req envelope.PageRequest) (envelope.Page[domain.Order], error) {
	defer s.observe("list", time.Now())

	if err := requireCaller(caller); err != nil {
		return envelope.Page[domain.Order]{}, err
	}

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		if caller.Role.IsAdmin() {
			return envelope.Page[domain.Order]{}, apperr.MissingParameter("customerId")
		}
		customerID = caller.UserID
	}
	if !caller.CanAccess(customerID) {
		return envelope.Page[domain.Order]{}, apperr.ResourceAccess("orders of customer " + customerID)
	}

	req = req.Normalize()
	orders, total, err := s.orders.ListByCustomer(ctx, customerID, req.Offset(), req.Size)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to list orders")
		return envelope.Page[domain.Order]{}, apperr.DatabaseError("list orders", err)
	}
	return envelope.NewPage(orders, req.Page, req.Size, total), nil
}

// ChangeStatus переводит заказ в статус target. Подтверждение, отгрузку и доставку
// выполняет только администратор; отмена делегируется Cancel.
func (s *Service) ChangeStatus(ctx context.Context, caller role.Caller, id, target, reason string) (domain.Order, error) {
	defer s.observe("change_status", time.Now())

	if err := requireCaller(caller); err != nil {
		return domain.Order{}, err
	}

	status, err := lifecycle.ParseStatus(target)
	if err != nil {
		return domain.Order{}, apperr.InvalidOrderStatus(target)
	}
	if status == lifecycle.Cancelled {
		return s.cancel(ctx, caller, id, reason)
	}
	if requiresAdmin(status) && !caller.Role.IsAdmin() {
		return domain.Order{}, apperr.AdminOnly()
	}
	if err := checkReason(reason); err != nil {
		return domain.Order{}, err
	}

	order, err := s.loadAccessible(ctx, caller, id)
	if err != nil {
		return domain.Order{}, err
	}

	from := order.Status
	change, ok := order.Transition(status, s.now())
	if !ok {
		s.metrics.RecordTransition(from.Code(), status.Code(), metrics.OutcomeRejected)
		return domain.Order{}, apperr.InvalidTransition(from, status)
	}
	change.Reason = reason
	change.ChangedBy = caller.UserID

	if err := s.persistTransition(ctx, &order, change); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Cancel отменяет заказ, если его статус допускает отмену.
func (s *Service) Cancel(ctx context.Context, caller role.Caller, id, reason string) (domain.Order, error) {
	defer s.observe("cancel", time.Now())

	if err := requireCaller(caller); err != nil {
		return domain.Order{}, err
	}
	return s.cancel(ctx, caller, id, reason)
}

// History возвращает историю смены статусов заказа в хронологическом порядке.
func (s *Service) History(ctx context.Context, caller role.Caller, id string) ([]domain.StatusChange, error) {
	defer s.observe("history", time.Now())

	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	order, err := s.loadAccessible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	changes, err := s.history.List(ctx, order.ID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to load status history")
		return nil, apperr.DatabaseError("load status history", err)
	}
	return changes, nil
}

func (s *Service) cancel(ctx context.Context, caller role.Caller, id, reason string) (domain.Order, error) {
	if err := checkReason(reason); err != nil {
		return domain.Order{}, err
	}

	order, err := s.loadAccessible(ctx, caller, id)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status == lifecycle.Cancelled {
		s.metrics.RecordTransition(order.Status.Code(), lifecycle.Cancelled.Code(), metrics.OutcomeRejected)
		return domain.Order{}, apperr.OrderAlreadyCancelled(order.ID)
	}
	if !order.Status.IsCancellable() {
		s.metrics.RecordTransition(order.Status.Code(), lifecycle.Cancelled.Code(), metrics.OutcomeRejected)
		return domain.Order{}, apperr.OrderCannotBeCancelled(order.ID, order.Status)
	}

	from := order.Status
	change, ok := order.Transition(lifecycle.Cancelled, s.now())
	if !ok {
		s.metrics.RecordTransition(from.Code(), lifecycle.Cancelled.Code(), metrics.OutcomeRejected)
		return domain.Order{}, apperr.InvalidTransition(from, lifecycle.Cancelled)
	}
	change.Reason = reason
	change.ChangedBy = caller.UserID

	if err := s.persistTransition(ctx, &order, change); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *Service) loadAccessible(ctx context.Context, caller role.Caller, id string) (domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, apperr.MissingParameter("id")
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Order{}, apperr.OrderNotFound(id)
		}
		s.logger.WithError(err).WithField("order_id", id).Error("failed to load order")
		return domain.Order{}, apperr.DatabaseError("get order", err)
	}
	if !caller.CanAccess(order.CustomerID) {
		return domain.Order{}, apperr.ResourceAccess("order " + id)
	}
	return order, nil
}

// persistTransition сохраняет заказ после перехода и фиксирует изменение.
// При успехе order.Version соответствует сохранённой версии.
func (s *Service) persistTransition(ctx context.Context, order *domain.Order, change domain.StatusChange) error {
	logger := s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"from":     change.From.Code(),
		"to":       change.To.Code(),
	})

	if err := s.orders.Save(ctx, *order); err != nil {
		switch {
		case domain.IsVersionConflict(err):
			s.metrics.RecordTransition(change.From.Code(), change.To.Code(), metrics.OutcomeConflict)
			logger.WithError(err).Warn("concurrent order update")
			return apperr.Wrap(errcode.ConstraintViolation, "Order was modified concurrently, reload and retry", err)
		case domain.IsNotFound(err):
			return apperr.OrderNotFound(order.ID)
		default:
			logger.WithError(err).Error("failed to save order")
			return apperr.DatabaseError("save order", err)
		}
	}
	order.Version++

	s.metrics.RecordTransition(change.From.Code(), change.To.Code(), metrics.OutcomeApplied)
	s.recordChange(ctx, change)
	logger.Info("order status changed")
	return nil
}

// recordChange пишет изменение в историю и публикует событие. Ошибки логируются:
// изменение заказа к этому моменту уже сохранено.
func (s *Service) recordChange(ctx context.Context, change domain.StatusChange) {
	if change.EventID == "" {
		change.EventID = s.newID()
	}
	logger := s.logger.WithFields(log.Fields{
		"order_id": change.OrderID,
		"event_id": change.EventID,
	})

	if s.history != nil {
		if err := s.history.Append(ctx, change); err != nil {
			logger.WithError(err).Error("failed to append status history")
		}
	}

	if err := s.publisher.PublishStatusChange(ctx, change); err != nil {
		s.metrics.RecordStatusEvent(metrics.ResultFailed)
		logger.WithError(err).Warn("failed to publish status change")
		return
	}
	s.metrics.RecordStatusEvent(metrics.ResultPublished)
}

func (s *Service) observe(operation string, started time.Time) {
	s.metrics.ObserveOperation(operation, time.Since(started))
}

func requireCaller(caller role.Caller) error {
	if caller.Anonymous() {
		return apperr.New(errcode.UnauthorizedAccess, "Caller identity is missing")
	}
	return nil
}

func requiresAdmin(status lifecycle.Status) bool {
	switch status {
	case lifecycle.Confirmed, lifecycle.Shipped, lifecycle.Delivered:
		return true
	default:
		return false
	}
}

func checkReason(reason string) error {
	if !validation.IsLengthBetween(reason, 0, MaxReasonLength) {
		return apperr.InvalidParameter("reason", "must be at most 500 characters")
	}
	return nil
}
