package repository

import (
	"context"

	"maintenanceManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username string, role models.Role, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// WorkOrderRepositoryI defines operations on WorkOrder entities. Its method
// set matches the remote work-order resource consumed by the list controllers.
type WorkOrderRepositoryI interface {
	GetAll(ctx context.Context) ([]models.WorkOrder, error)
	GetByID(ctx context.Context, id int64) (*models.WorkOrder, error)
	Create(ctx context.Context, o models.WorkOrder) (models.WorkOrder, error)
	Update(ctx context.Context, id int64, p models.WorkOrderPatch) (models.WorkOrder, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogRepositoryI defines operations on catalog items.
type CatalogRepositoryI interface {
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error)
	Create(ctx context.Context, item models.CatalogItem) (*models.CatalogItem, error)
	Rename(ctx context.Context, kind models.CatalogKind, id int64, name string) error
	Delete(ctx context.Context, kind models.CatalogKind, id int64) error
}

var (
	_ UserRepositoryI      = (*UserRepository)(nil)
	_ WorkOrderRepositoryI = (*WorkOrderRepository)(nil)
	_ CatalogRepositoryI   = (*CatalogRepository)(nil)
)
