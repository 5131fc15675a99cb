package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/internal/domain"
	"github.com/vladislavdragonenkov/contract/internal/service/orders"
	"github.com/vladislavdragonenkov/contract/internal/version"
)

// OrderResponse — представление заказа в API.
type OrderResponse struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customerId"`
	Status             lifecycle.Status   `json:"status"`
	StatusLabel        string             `json:"statusLabel"`
	Final              bool               `json:"final"`
	Cancellable        bool               `json:"cancellable"`
	AllowedTransitions []lifecycle.Status `json:"allowedTransitions"`
	Currency           string             `json:"currency"`
	AmountMinor        int64              `json:"amountMinor"`
	Version            int64              `json:"version"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// StatusChangeResponse — запись истории статусов в API.
type StatusChangeResponse struct {
	EventID    string    `json:"eventId"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	ChangedBy  string    `json:"changedBy,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ChangeStatusRequest — тело PATCH /orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// CancelRequest — необязательное тело POST /orders/:id/cancel.
type CancelRequest struct {
	Reason string `json:"reason"`
}

func toOrderResponse(order domain.Order) OrderResponse {
	allowed := lifecycle.AllowedTargets(order.Status)
	if allowed == nil {
		allowed = []lifecycle.Status{}
	}
	return OrderResponse{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Status:             order.Status,
		StatusLabel:        order.Status.Label(),
		Final:              order.Status.IsFinal(),
		Cancellable:        order.Status.IsCancellable(),
		AllowedTransitions: allowed,
		Currency:           order.Currency,
		AmountMinor:        order.AmountMinor,
		Version:            order.Version,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

func toStatusChangeResponse(change domain.StatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		EventID:    change.EventID,
		From:       string(change.From),
		To:         string(change.To),
		Reason:     change.Reason,
		ChangedBy:  change.ChangedBy,
		OccurredAt: change.OccurredAt,
	}
}

func respond[T any](c *fiber.Ctx, status int, data T, message string) error {
	return c.Status(status).JSON(envelope.Success(data, message).WithPath(c.Path()))
}

func (s *Server) getVersion(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, version.Current(), "")
}

func (s *Server) createOrder(c *fiber.Ctx) error {
	var input orders.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(err)
	}

	order, err := s.service.Create(c.UserContext(), callerFrom(c), input)
	if err != nil {
		return err
	}
	c.Location("/api/v1/orders/" + order.ID)
	return respond(c, fiber.StatusCreated, toOrderResponse(order), "Order created")
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	order, err := s.service.Get(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, toOrderResponse(order), "")
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", envelope.DefaultPageSize)
	if err != nil {
		return err
	}

	result, err := s.service.List(c.UserContext(), callerFrom(c), c.Query("customerId"),
		envelope.PageRequest{Page: page, Size: size})
	if err != nil {
		return err
	}

	content := make([]OrderResponse, 0, len(result.Content))
	for _, order := range result.Content {
		content = append(content, toOrderResponse(order))
	}
	return respond(c, fiber.StatusOK,
		envelope.NewPage(content, result.PageNumber, result.PageSize, result.TotalElements), "")
}

func (s *Server) changeStatus(c *fiber.Ctx) error {
	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperr.MissingParameter("status")
	}

	order, err := s.service.ChangeStatus(c.UserContext(), callerFrom(c), c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, toOrderResponse(order), "Order status changed")
}

func (s *Server) cancelOrder(c *fiber.Ctx) error {
	var req CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(err)
		}
	}

	order, err := s.service.Cancel(c.UserContext(), callerFrom(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, toOrderResponse(order), "Order cancelled")
}

func (s *Server) orderHistory(c *fiber.Ctx) error {
	changes, err := s.service.History(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}

	history := make([]StatusChangeResponse, 0, len(changes))
	for _, change := range changes {
		history = append(history, toStatusChangeResponse(change))
	}
	return respond(c, fiber.StatusOK, history, "")
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidParameter(name, "must be an integer")
	}
	return v, nil
}
