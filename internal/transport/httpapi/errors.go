package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/internal/metrics"
)

// ErrorHandler превращает любую ошибку обработчика в тело ErrorEnvelope или
// ValidationErrorEnvelope. Текст ошибок вне каталога клиенту не отдаётся.
func ErrorHandler(logger *log.Entry, m *metrics.ContractMetrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, opts := classify(c, err)

		status, body := apperr.Response(appErr, append(opts, apperr.WithPath(c.Path()))...)
		m.RecordError(appErr.Entry().Name, status)

		fields := log.Fields{
			"status_code": status,
			"error_code":  string(appErr.Code()),
			"path":        c.Path(),
			"method":      c.Method(),
		}
		if rid, ok := c.Locals(requestIDKey).(string); ok && rid != "" {
			fields["request_id"] = rid
		}
		entry := logger.WithFields(fields).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Warn("request rejected")
		}

		return c.Status(status).JSON(body)
	}
}

// classify сопоставляет ошибку записи каталога.
func classify(c *fiber.Ctx, err error) (*apperr.Error, []apperr.Option) {
	if appErr, ok := apperr.From(err); ok {
		return appErr, nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return apperr.Newf(errcode.ResourceNotFound, "No handler for %s %s", c.Method(), c.Path()), nil
		case fiberErr.Code >= http.StatusInternalServerError:
			return apperr.Internal("", err), nil
		default:
			return apperr.New(errcode.InvalidRequest, fiberErr.Message), []apperr.Option{apperr.WithStatus(fiberErr.Code)}
		}
	}

	return apperr.Internal("", err), nil
}

func invalidBody(err error) *apperr.Error {
	return apperr.Wrap(errcode.InvalidRequest, fmt.Sprintf("Malformed request body: %v", err), err)
}
