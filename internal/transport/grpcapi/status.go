// Package grpcapi публикует сервис заказов по gRPC. Сообщения передаются как
// google.protobuf.Struct, ошибки каталога едут в деталях статуса (ErrorInfo, BadRequest).
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/internal/metrics"
)

// ErrorDomain — значение ErrorInfo.Domain для ошибок каталога.
const ErrorDomain = "contract"

const (
	metaCode       = "code"
	metaHTTPStatus = "httpStatus"
	metaDetails    = "details"
)

var grpcCodes = map[int]codes.Code{
	http.StatusBadRequest:          codes.InvalidArgument,
	http.StatusUnauthorized:        codes.Unauthenticated,
	http.StatusForbidden:           codes.PermissionDenied,
	http.StatusNotFound:            codes.NotFound,
	http.StatusConflict:            codes.FailedPrecondition,
	http.StatusServiceUnavailable:  codes.Unavailable,
	http.StatusGatewayTimeout:      codes.DeadlineExceeded,
	http.StatusBadGateway:          codes.Unavailable,
	http.StatusInternalServerError: codes.Internal,
}

// CodeFor возвращает gRPC-код для записи каталога.
func CodeFor(entry errcode.Entry) codes.Code {
	if entry.Code == errcode.DuplicateEntry || entry.Code == errcode.UserAlreadyExists {
		return codes.AlreadyExists
	}
	if c, ok := grpcCodes[entry.HTTPStatus]; ok {
		return c
	}
	return codes.Unknown
}

// ToStatus превращает ошибку в gRPC-статус. Ошибка вне каталога становится
// INTERNAL_SERVER_ERROR, её текст наружу не попадает.
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return st
	}
	if errors.Is(err, context.Canceled) {
		return status.New(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.New(codes.DeadlineExceeded, err.Error())
	}

	appErr, ok := apperr.From(err)
	if !ok {
		appErr = apperr.New(errcode.InternalServerError, "")
	}
	entry := appErr.Entry()

	st := status.New(CodeFor(entry), appErr.Message())
	info := &errdetails.ErrorInfo{
		Reason: entry.Name,
		Domain: ErrorDomain,
		Metadata: map[string]string{
			metaCode:       string(entry.Code),
			metaHTTPStatus: strconv.Itoa(entry.HTTPStatus),
		},
	}
	if d := appErr.Details(); d != "" {
		info.Metadata[metaDetails] = d
	}

	details := []protoadapt.MessageV1{info}
	if fields := appErr.FieldErrors(); len(fields) > 0 {
		br := &errdetails.BadRequest{}
		for _, fe := range fields {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       fe.Field,
				Description: fe.Message,
			})
		}
		details = append(details, br)
	}

	withDetails, detailErr := st.WithDetails(details...)
	if detailErr != nil {
		return st
	}
	return withDetails
}

// FromStatus восстанавливает ошибку каталога из gRPC-статуса. Статус без ErrorInfo
// сопоставляется записи по gRPC-коду.
func FromStatus(st *status.Status) *apperr.Error {
	if st == nil || st.Code() == codes.OK {
		return nil
	}

	var (
		appErr *apperr.Error
		fields []*errdetails.BadRequest_FieldViolation
	)
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			if d.GetDomain() == ErrorDomain {
				appErr = fromErrorInfo(d, st.Message())
			}
		case *errdetails.BadRequest:
			fields = append(fields, d.GetFieldViolations()...)
		}
	}
	if appErr == nil {
		appErr = apperr.New(fallbackCode(st.Code()), st.Message())
	}
	for _, fv := range fields {
		appErr.AddFieldError(fv.GetField(), fv.GetDescription())
	}
	return appErr
}

func fromErrorInfo(info *errdetails.ErrorInfo, message string) *apperr.Error {
	meta := info.GetMetadata()
	entry, err := errcode.Lookup(meta[metaCode])
	if err != nil {
		httpStatus, _ := strconv.Atoi(meta[metaHTTPStatus])
		entry = errcode.Entry{
			Code:       errcode.Code(meta[metaCode]),
			Name:       info.GetReason(),
			HTTPStatus: httpStatus,
			Message:    message,
		}
	}
	appErr := apperr.FromEntry(entry, meta[metaDetails])
	if message != "" && message != entry.Message {
		appErr = appErr.WithMessage(message)
	}
	return appErr
}

func fallbackCode(c codes.Code) errcode.Code {
	switch c {
	case codes.InvalidArgument:
		return errcode.InvalidRequest
	case codes.NotFound:
		return errcode.ResourceNotFound
	case codes.Unauthenticated:
		return errcode.UnauthorizedAccess
	case codes.PermissionDenied:
		return errcode.AccessDenied
	case codes.Unavailable:
		return errcode.ServiceUnavailable
	case codes.DeadlineExceeded:
		return errcode.ServiceTimeout
	case codes.Internal, codes.Unknown:
		return errcode.InternalServerError
	default:
		return errcode.CommunicationError
	}
}

// UnaryErrorInterceptor переводит ошибки обработчиков в gRPC-статусы, логирует их
// и перехватывает панику.
func UnaryErrorInterceptor(logger *log.Entry, m *metrics.ContractMetrics) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = log.WithField("component", "grpc")
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("method", info.FullMethod).WithField("panic", r).Error("grpc handler panicked")
				err = ToStatus(apperr.Internal("", fmt.Errorf("panic: %v", r))).Err()
				resp = nil
			}
		}()

		resp, err = handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		st := ToStatus(err)
		entry := logger.WithFields(log.Fields{
			"method":    info.FullMethod,
			"grpc_code": st.Code().String(),
		}).WithError(err)
		if appErr, ok := apperr.From(err); ok {
			m.RecordError(appErr.Entry().Name, appErr.HTTPStatus())
			entry = entry.WithField("error_code", string(appErr.Code()))
		}
		if st.Code() == codes.Internal || st.Code() == codes.Unknown {
			entry.Error("grpc request failed")
		} else {
			entry.Warn("grpc request rejected")
		}
		return nil, st.Err()
	}
}
