package grpcserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	maintenancev1 "maintenanceManagement/api/maintenance/v1"
	"maintenanceManagement/internal/auth"
	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

const (
	maxPageSize     = 100
	defaultPageSize = 20
	cursorSeparator = "|"
)

// DirectoryServer implements maintenance.v1.DirectoryService.
type DirectoryServer struct {
	Users   *repository.UserRepository
	Catalog repository.CatalogRepositoryI
}

var _ maintenancev1.DirectoryServiceServer = (*DirectoryServer)(nil)

// ListUsers pages through the accounts in id order. Admin only.
func (s *DirectoryServer) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	var in maintenancev1.ListUsersRequest
	if err := maintenancev1.FromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "list users: %v", err)
	}

	size := in.PageSize
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	offset := 0
	if in.PageToken != "" {
		var err error
		if offset, err = decodeCursor(in.PageToken); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid page_token: %v", err)
		}
	}

	// One extra row tells whether another page exists.
	users, err := s.Users.List(ctx, size+1, offset)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list users: %v", err)
	}
	out := maintenancev1.ListUsersResponse{Users: users}
	if len(users) > size {
		out.Users = users[:size]
		out.NextPageToken = encodeCursor(offset+size, users[size-1].ID)
	}
	if out.Users == nil {
		out.Users = []models.User{}
	}
	return encode(out)
}

// ListCatalog returns one catalog. Any signed-in user may read it.
func (s *DirectoryServer) ListCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	var in maintenancev1.ListCatalogRequest
	if err := maintenancev1.FromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "list catalog: %v", err)
	}
	if !in.Kind.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown catalog %q", in.Kind)
	}
	items, err := s.Catalog.List(ctx, in.Kind)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list catalog: %v", err)
	}
	out := maintenancev1.ListCatalogResponse{Items: items}
	if out.Items == nil {
		out.Items = []models.CatalogItem{}
	}
	return encode(out)
}

func encode(v any) (*structpb.Struct, error) {
	out, err := maintenancev1.ToStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return out, nil
}

// encodeCursor builds an opaque next_page_token from the next offset and the
// last id served.
func encodeCursor(offset int, lastID int64) string {
	raw := strconv.Itoa(offset) + cursorSeparator + strconv.FormatInt(lastID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor returns the offset carried by a page_token.
func decodeCursor(token string) (int, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("base64: %w", err)
	}
	parts := strings.SplitN(string(b), cursorSeparator, 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid cursor format")
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("parse offset %q", parts[0])
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, fmt.Errorf("parse id: %w", err)
	}
	return offset, nil
}
