package grpcapi

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/contract/role"
	"github.com/vladislavdragonenkov/contract/internal/domain"
	"github.com/vladislavdragonenkov/contract/internal/service/orders"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "contract.v1.OrderLifecycle"

const (
	MethodCreateOrder  = "/" + ServiceName + "/CreateOrder"
	MethodGetOrder     = "/" + ServiceName + "/GetOrder"
	MethodListOrders   = "/" + ServiceName + "/ListOrders"
	MethodChangeStatus = "/" + ServiceName + "/ChangeStatus"
	MethodCancelOrder  = "/" + ServiceName + "/CancelOrder"
	MethodGetHistory   = "/" + ServiceName + "/GetHistory"
)

// Ключи метаданных с личностью вызывающего, аналог заголовков X-User-Id и X-User-Role.
const (
	MetadataUserID   = "x-user-id"
	MetadataUserRole = "x-user-role"
)

// OrderLifecycleServer — серверная сторона contract.v1.OrderLifecycle.
type OrderLifecycleServer interface {
	CreateOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangeStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc описывает сервис без сгенерированного кода: все методы унарные,
// запрос и ответ имеют тип google.protobuf.Struct.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderLifecycleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrder", Handler: unaryHandler(MethodCreateOrder, OrderLifecycleServer.CreateOrder)},
		{MethodName: "GetOrder", Handler: unaryHandler(MethodGetOrder, OrderLifecycleServer.GetOrder)},
		{MethodName: "ListOrders", Handler: unaryHandler(MethodListOrders, OrderLifecycleServer.ListOrders)},
		{MethodName: "ChangeStatus", Handler: unaryHandler(MethodChangeStatus, OrderLifecycleServer.ChangeStatus)},
		{MethodName: "CancelOrder", Handler: unaryHandler(MethodCancelOrder, OrderLifecycleServer.CancelOrder)},
		{MethodName: "GetHistory", Handler: unaryHandler(MethodGetHistory, OrderLifecycleServer.GetHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contract/v1/order_lifecycle.proto",
}

// RegisterOrderLifecycleServer регистрирует реализацию на gRPC-сервере.
func RegisterOrderLifecycleServer(s grpc.ServiceRegistrar, srv OrderLifecycleServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(OrderLifecycleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrderLifecycleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderLifecycleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server реализует OrderLifecycleServer поверх сервиса заказов.
type Server struct {
	service *orders.Service
	logger  *log.Entry
}

// NewServer создаёт gRPC-адаптер сервиса заказов.
func NewServer(service *orders.Service, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.WithField("component", "grpc")
	}
	return &Server{service: service, logger: logger}
}

// CreateOrder принимает {customerId, currency, amountMinor}.
func (s *Server) CreateOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := intField(req, "amountMinor")
	if err != nil {
		return nil, err
	}
	order, err := s.service.Create(ctx, caller, orders.CreateOrderInput{
		CustomerID:  stringField(req, "customerId"),
		Currency:    stringField(req, "currency"),
		AmountMinor: amount,
	})
	if err != nil {
		return nil, err
	}
	return orderStruct(order)
}

// GetOrder принимает {id}.
func (s *Server) GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.service.Get(ctx, caller, stringField(req, "id"))
	if err != nil {
		return nil, err
	}
	return orderStruct(order)
}

// ListOrders принимает {customerId, page, size} и возвращает страницу в формате envelope.Page.
func (s *Server) ListOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	page, err := intField(req, "page")
	if err != nil {
		return nil, err
	}
	size, err := intField(req, "size")
	if err != nil {
		return nil, err
	}
	if size == 0 {
		size = envelope.DefaultPageSize
	}

	result, err := s.service.List(ctx, caller, stringField(req, "customerId"),
		envelope.PageRequest{Page: int(page), Size: int(size)})
	if err != nil {
		return nil, err
	}

	content := make([]any, 0, len(result.Content))
	for _, order := range result.Content {
		content = append(content, orderFields(order))
	}
	return newStruct(map[string]any{
		"content":       content,
		"pageNumber":    result.PageNumber,
		"pageSize":      result.PageSize,
		"totalElements": result.TotalElements,
		"totalPages":    result.TotalPages,
		"first":         result.First,
		"last":          result.Last,
		"empty":         result.Empty,
	})
}

// ChangeStatus принимает {id, status, reason}.
func (s *Server) ChangeStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	target := stringField(req, "status")
	if target == "" {
		return nil, apperr.MissingParameter("status")
	}
	order, err := s.service.ChangeStatus(ctx, caller, stringField(req, "id"), target, stringField(req, "reason"))
	if err != nil {
		return nil, err
	}
	return orderStruct(order)
}

// CancelOrder принимает {id, reason}.
func (s *Server) CancelOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.service.Cancel(ctx, caller, stringField(req, "id"), stringField(req, "reason"))
	if err != nil {
		return nil, err
	}
	return orderStruct(order)
}

// GetHistory принимает {id} и возвращает {changes: [...]}.
func (s *Server) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	changes, err := s.service.History(ctx, caller, stringField(req, "id"))
	if err != nil {
		return nil, err
	}

	list := make([]any, 0, len(changes))
	for _, change := range changes {
		list = append(list, map[string]any{
			"eventId":    change.EventID,
			"from":       string(change.From),
			"to":         string(change.To),
			"reason":     change.Reason,
			"changedBy":  change.ChangedBy,
			"occurredAt": change.OccurredAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return newStruct(map[string]any{"changes": list})
}

func callerFromMetadata(ctx context.Context) (role.Caller, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	userID := strings.TrimSpace(first(md.Get(MetadataUserID)))
	if userID == "" {
		return role.Caller{}, apperr.New(errcode.UnauthorizedAccess, "Missing "+MetadataUserID+" metadata")
	}

	r := role.User
	if raw := strings.TrimSpace(first(md.Get(MetadataUserRole))); raw != "" {
		parsed, err := role.ParseRole(raw)
		if err != nil {
			return role.Caller{}, apperr.Wrap(errcode.UnauthorizedAccess, "Unknown role in "+MetadataUserRole+" metadata", err)
		}
		r = parsed
	}
	return role.Caller{UserID: userID, Role: r}, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

// intField читает целое число; значение с дробной частью отклоняется.
func intField(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return 0, apperr.InvalidParameter(name, "must be a number")
	}
	n := v.GetNumberValue()
	if n != float64(int64(n)) {
		return 0, apperr.InvalidParameter(name, "must be an integer")
	}
	return int64(n), nil
}

func orderFields(order domain.Order) map[string]any {
	allowed := make([]any, 0, 2)
	for _, target := range lifecycle.AllowedTargets(order.Status) {
		allowed = append(allowed, target.Code())
	}
	return map[string]any{
		"id":                 order.ID,
		"customerId":         order.CustomerID,
		"status":             order.Status.Code(),
		"statusLabel":        order.Status.Label(),
		"final":              order.Status.IsFinal(),
		"cancellable":        order.Status.IsCancellable(),
		"allowedTransitions": allowed,
		"currency":           order.Currency,
		"amountMinor":        order.AmountMinor,
		"version":            order.Version,
		"createdAt":          order.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updatedAt":          order.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func orderStruct(order domain.Order) (*structpb.Struct, error) {
	return newStruct(orderFields(order))
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, apperr.Internal("encode response", err)
	}
	return out, nil
}

var _ OrderLifecycleServer = (*Server)(nil)
