package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/role"
)

const (
	callerKey = "caller"
	// requestIDKey совпадает с ContextKey по умолчанию у middleware requestid.
	requestIDKey = "requestid"
)

// RequestLogger логирует каждый запрос после того, как ответ (в том числе ошибочный) сформирован.
func RequestLogger(logger *log.Entry) fiber.Handler {
	skip := map[string]bool{"/healthz": true, "/livez": true, "/readyz": true}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		if err := c.Next(); err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := log.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status_code": c.Response().StatusCode(),
			"latency_ms":  time.Since(start).Milliseconds(),
		}
		if rid, ok := c.Locals(requestIDKey).(string); ok && rid != "" {
			fields["request_id"] = rid
		}
		logger.WithFields(fields).Debug("http request")
		return nil
	}
}

// RequireCaller читает личность вызывающего из заголовков шлюза X-User-Id и X-User-Role.
// Без X-User-Id запрос отклоняется с UNAUTHORIZED_ACCESS; пустая роль означает USER.
func RequireCaller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(role.HeaderUserID))
		if userID == "" {
			return apperr.New(errcode.UnauthorizedAccess, "Missing "+role.HeaderUserID+" header")
		}

		r := role.User
		if raw := strings.TrimSpace(c.Get(role.HeaderUserRole)); raw != "" {
			parsed, err := role.ParseRole(raw)
			if err != nil {
				return apperr.Wrap(errcode.UnauthorizedAccess, "Unknown role in "+role.HeaderUserRole+" header", err)
			}
			r = parsed
		}

		c.Locals(callerKey, role.Caller{UserID: userID, Role: r})
		return c.Next()
	}
}

func callerFrom(c *fiber.Ctx) role.Caller {
	caller, _ := c.Locals(callerKey).(role.Caller)
	return caller
}
