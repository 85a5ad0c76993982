package maintenancev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"maintenanceManagement/models"
)

const (
	DirectoryServiceName = "maintenance.v1.DirectoryService"

	MethodListUsers   = "/" + DirectoryServiceName + "/ListUsers"
	MethodListCatalog = "/" + DirectoryServiceName + "/ListCatalog"
)

// ListUsersRequest pages through the user accounts. PageToken is the
// NextPageToken of the previous response.
type ListUsersRequest struct {
	PageSize  int    `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListUsersResponse struct {
	Users         []models.User `json:"users"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type ListCatalogRequest struct {
	Kind models.CatalogKind `json:"kind"`
}

type ListCatalogResponse struct {
	Items []models.CatalogItem `json:"items"`
}

// DirectoryServiceServer serves the reference data the order forms need:
// the user accounts and the catalogs.
type DirectoryServiceServer interface {
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterDirectoryServiceServer(s grpc.ServiceRegistrar, srv DirectoryServiceServer) {
	s.RegisterService(&DirectoryServiceDesc, srv)
}

var DirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: DirectoryServiceName,
	HandlerType: (*DirectoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListUsers", Handler: structHandler(MethodListUsers, DirectoryServiceServer.ListUsers)},
		{MethodName: "ListCatalog", Handler: structHandler(MethodListCatalog, DirectoryServiceServer.ListCatalog)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maintenance/v1/directory.proto",
}

func structHandler(method string, call func(DirectoryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DirectoryServiceClient is the client API for DirectoryService.
type DirectoryServiceClient interface {
	ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCatalog(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type directoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDirectoryServiceClient(cc grpc.ClientConnInterface) DirectoryServiceClient {
	return &directoryServiceClient{cc: cc}
}

func (c *directoryServiceClient) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListUsers, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *directoryServiceClient) ListCatalog(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListCatalog, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
