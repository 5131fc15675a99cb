package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vladislavdragonenkov/contract/contract/role"
)

// Client вызывает contract.v1.OrderLifecycle и возвращает ошибки как *apperr.Error.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient создаёт клиента поверх готового соединения.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithCaller добавляет личность вызывающего в исходящие метаданные.
func WithCaller(ctx context.Context, caller role.Caller) context.Context {
	pairs := []string{MetadataUserID, caller.UserID}
	if caller.Role != "" {
		pairs = append(pairs, MetadataUserRole, string(caller.Role))
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// Call выполняет унарный метод с произвольными полями запроса.
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		if st, ok := status.FromError(err); ok {
			if appErr := FromStatus(st); appErr != nil {
				return nil, appErr
			}
		}
		return nil, err
	}
	return resp.AsMap(), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (map[string]any, error) {
	return c.Call(ctx, MethodGetOrder, map[string]any{"id": id})
}

func (c *Client) ChangeStatus(ctx context.Context, id, target, reason string) (map[string]any, error) {
	return c.Call(ctx, MethodChangeStatus, map[string]any{"id": id, "status": target, "reason": reason})
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) (map[string]any, error) {
	return c.Call(ctx, MethodCancelOrder, map[string]any{"id": id, "reason": reason})
}
