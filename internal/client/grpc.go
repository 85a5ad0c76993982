package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	maintenancev1 "maintenanceManagement/api/maintenance/v1"
	"maintenanceManagement/internal/workorder"
	"maintenanceManagement/models"
)

// bearer attaches the session token to every RPC.
type bearer string

func (b bearer) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	if b == "" {
		return nil, nil
	}
	return map[string]string{"authorization": "Bearer " + string(b)}, nil
}

// RequireTransportSecurity is false so the token can travel over the plaintext
// connection the server listens on.
func (bearer) RequireTransportSecurity() bool { return false }

// GRPCClient is the gRPC transport.
type GRPCClient struct {
	conn *grpc.ClientConn
	svc  maintenancev1.WorkOrderServiceClient
}

// DialGRPC connects to addr. Extra options are appended after the defaults.
func DialGRPC(addr, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	all := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(bearer(token)),
	}, opts...)
	conn, err := grpc.NewClient(addr, all...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &GRPCClient{conn: conn, svc: maintenancev1.NewWorkOrderServiceClient(conn)}, nil
}

func (c *GRPCClient) Close() error { return c.conn.Close() }

func (c *GRPCClient) GetAll(ctx context.Context) ([]models.WorkOrder, error) {
	list, err := c.svc.GetAll(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	return maintenancev1.WorkOrdersFromList(list)
}

func (c *GRPCClient) Create(ctx context.Context, o models.WorkOrder) (models.WorkOrder, error) {
	in, err := maintenancev1.ToStruct(o)
	if err != nil {
		return models.WorkOrder{}, err
	}
	out, err := c.svc.Create(ctx, in)
	if err != nil {
		return models.WorkOrder{}, err
	}
	var created models.WorkOrder
	err = maintenancev1.FromStruct(out, &created)
	return created, err
}

func (c *GRPCClient) Update(ctx context.Context, id int64, p models.WorkOrderPatch) (models.WorkOrder, error) {
	in, err := maintenancev1.ToStruct(maintenancev1.UpdateRequest{ID: id, Patch: p})
	if err != nil {
		return models.WorkOrder{}, err
	}
	out, err := c.svc.Update(ctx, in)
	if err != nil {
		return models.WorkOrder{}, err
	}
	var updated models.WorkOrder
	err = maintenancev1.FromStruct(out, &updated)
	return updated, err
}

func (c *GRPCClient) Delete(ctx context.Context, id int64) error {
	in, err := maintenancev1.ToStruct(maintenancev1.DeleteRequest{ID: id})
	if err != nil {
		return err
	}
	_, err = c.svc.Delete(ctx, in)
	return err
}

var _ workorder.Remote = (*GRPCClient)(nil)
