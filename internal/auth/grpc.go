package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated will bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}

// RequireRole ensures the principal has the given role.
func RequireRole(ctx context.Context, role models.Role) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != role {
		return nil, status.Errorf(codes.PermissionDenied, "only %s can perform this action", role)
	}
	return p, nil
}

// RequireAdmin ensures the caller is an admin principal AND that the underlying
// user still exists with role 'admin'.
func RequireAdmin(ctx context.Context, users *repository.UserRepository) (*Principal, error) {
	p, err := RequireRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if users == nil {
		return nil, status.Error(codes.Internal, "users repository not configured")
	}
	u, err := users.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil || u.Role != models.RoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	return p, nil
}

// RequireOwner lets admins through and an operario only for their own order.
func RequireOwner(p *Principal, o models.WorkOrder) error {
	if p == nil {
		return status.Error(codes.Unauthenticated, "missing principal")
	}
	if p.Role != models.RoleAdmin && o.Username != p.Name {
		return status.Error(codes.PermissionDenied, "work order belongs to another user")
	}
	return nil
}

// AuthorizeOrderUpdate checks that p may apply patch to o. An operario may
// not hand an order to another user.
func AuthorizeOrderUpdate(p *Principal, o models.WorkOrder, patch models.WorkOrderPatch) error {
	if err := RequireOwner(p, o); err != nil {
		return err
	}
	if p.Role == models.RoleAdmin {
		return nil
	}
	after := o
	patch.Apply(&after)
	if after.IDUser != o.IDUser {
		return status.Error(codes.PermissionDenied, "only admin can reassign a work order")
	}
	return nil
}
