package grpcserver

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	maintenancev1 "maintenanceManagement/api/maintenance/v1"
	"maintenanceManagement/internal/auth"
	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

// WorkOrderServer implements maintenance.v1.WorkOrderService.
type WorkOrderServer struct {
	Users  *repository.UserRepository
	Orders *repository.WorkOrderRepository
	Logger *zap.Logger
}

var _ maintenancev1.WorkOrderServiceServer = (*WorkOrderServer)(nil)

// GetAll returns the work orders the caller may see with the assigned
// username: all of them for an admin, their own for an operario.
func (s *WorkOrderServer) GetAll(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	var orders []models.WorkOrder
	if p.Role == models.RoleOperario {
		orders, err = s.Orders.ListByUsername(ctx, p.Name)
	} else {
		orders, err = s.Orders.GetAll(ctx)
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list work orders: %v", err)
	}
	out, err := maintenancev1.WorkOrdersToList(orders)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode work orders: %v", err)
	}
	return out, nil
}

// Create stores a new work order. Any signed-in user may create one.
func (s *WorkOrderServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	var o models.WorkOrder
	if err := maintenancev1.FromStruct(req, &o); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "work order: %v", err)
	}
	if err := o.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.checkUser(ctx, o.IDUser); err != nil {
		return nil, err
	}

	created, err := s.Orders.Create(ctx, o)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "create work order: %v", err)
	}
	return toStruct(created)
}

// Update applies a partial update. An operario may only update their own
// orders and cannot reassign them.
func (s *WorkOrderServer) Update(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	var in maintenancev1.UpdateRequest
	if err := maintenancev1.FromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "update: %v", err)
	}
	if in.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if in.Patch.Empty() {
		return nil, status.Error(codes.InvalidArgument, "empty patch")
	}
	current, err := s.Orders.GetByID(ctx, in.ID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get work order: %v", err)
	}
	if current == nil {
		return nil, status.Error(codes.NotFound, "work order not found")
	}
	if err := auth.AuthorizeOrderUpdate(p, *current, in.Patch); err != nil {
		s.logger().Warn("update denied", zap.Int64("id", in.ID), zap.String("by", p.Name))
		return nil, err
	}
	if in.Patch.IDUser != nil {
		if err := s.checkUser(ctx, *in.Patch.IDUser); err != nil {
			return nil, err
		}
	}

	updated, err := s.Orders.Update(ctx, in.ID, in.Patch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, status.Error(codes.NotFound, "work order not found")
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "update work order: %v", err)
	}
	return toStruct(updated)
}

// Delete removes a work order. Only admins may delete.
func (s *WorkOrderServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	p, err := auth.RequireAdmin(ctx, s.Users)
	if err != nil {
		return nil, err
	}
	var in maintenancev1.DeleteRequest
	if err := maintenancev1.FromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "delete: %v", err)
	}
	if in.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	err = s.Orders.Delete(ctx, in.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, status.Error(codes.NotFound, "work order not found")
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "delete work order: %v", err)
	}
	s.logger().Info("work order deleted", zap.Int64("id", in.ID), zap.String("by", p.Name))
	return &emptypb.Empty{}, nil
}

// checkUser turns an unknown id_user into InvalidArgument instead of a foreign key failure.
func (s *WorkOrderServer) checkUser(ctx context.Context, id int64) error {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil {
		return status.Errorf(codes.InvalidArgument, "unknown id_user %d", id)
	}
	return nil
}

func (s *WorkOrderServer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func toStruct(o models.WorkOrder) (*structpb.Struct, error) {
	out, err := maintenancev1.ToStruct(o)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode work order: %v", err)
	}
	return out, nil
}
