// Package maintenancev1 defines the maintenance.v1.WorkOrderService gRPC
// service. Messages are the well-known Struct, ListValue and Empty types, so
// no generated code is needed: a work order travels as its JSON object.
package maintenancev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "maintenance.v1.WorkOrderService"

	MethodGetAll = "/" + ServiceName + "/GetAll"
	MethodCreate = "/" + ServiceName + "/Create"
	MethodUpdate = "/" + ServiceName + "/Update"
	MethodDelete = "/" + ServiceName + "/Delete"
)

// WorkOrderServiceServer is the server API for WorkOrderService.
//
//	GetAll(Empty) returns ListValue of work orders
//	Create(Struct work order) returns Struct work order
//	Update(Struct {"id": n, "patch": {...}}) returns Struct work order
//	Delete(Struct {"id": n}) returns Empty
type WorkOrderServiceServer interface {
	GetAll(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterWorkOrderServiceServer registers srv on s.
func RegisterWorkOrderServiceServer(s grpc.ServiceRegistrar, srv WorkOrderServiceServer) {
	s.RegisterService(&WorkOrderServiceDesc, srv)
}

// WorkOrderServiceDesc is the grpc.ServiceDesc for WorkOrderService.
var WorkOrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkOrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAll", Handler: getAllHandler},
		{MethodName: "Create", Handler: createHandler},
		{MethodName: "Update", Handler: updateHandler},
		{MethodName: "Delete", Handler: deleteHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maintenance/v1/work_order.proto",
}

func getAllHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkOrderServiceServer).GetAll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetAll}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkOrderServiceServer).GetAll(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func createHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkOrderServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCreate}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkOrderServiceServer).Create(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func updateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkOrderServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodUpdate}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkOrderServiceServer).Update(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkOrderServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDelete}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkOrderServiceServer).Delete(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// WorkOrderServiceClient is the client API for WorkOrderService.
type WorkOrderServiceClient interface {
	GetAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type workOrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkOrderServiceClient(cc grpc.ClientConnInterface) WorkOrderServiceClient {
	return &workOrderServiceClient{cc: cc}
}

func (c *workOrderServiceClient) GetAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MethodGetAll, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workOrderServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodCreate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workOrderServiceClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodUpdate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workOrderServiceClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodDelete, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
