package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maintenanceManagement/models"
)

// CatalogRepository stores the infrastructure and task-definition lists
// (edifices, floors, sectors, tags, task lists, priorities, ...).
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List returns the items of one catalog ordered by name.
func (r *CatalogRepository) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, name, parent_id FROM catalog_items WHERE kind = ? ORDER BY name, id`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.CatalogItem
	for rows.Next() {
		var it models.CatalogItem
		var parent sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Kind, &it.Name, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			v := parent.Int64
			it.ParentID = &v
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a catalog item. The kind must be known.
func (r *CatalogRepository) Create(ctx context.Context, item models.CatalogItem) (*models.CatalogItem, error) {
	if !item.Kind.Valid() {
		return nil, fmt.Errorf("unknown catalog %q", item.Kind)
	}
	if item.Name == "" {
		return nil, errors.New("name is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO catalog_items (kind, name, parent_id) VALUES (?, ?, ?)`, string(item.Kind), item.Name, item.ParentID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}

// Rename changes the name of an item. It returns sql.ErrNoRows when absent.
func (r *CatalogRepository) Rename(ctx context.Context, kind models.CatalogKind, id int64, name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE catalog_items SET name = ? WHERE kind = ? AND id = ?`, name, string(kind), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an item. It returns sql.ErrNoRows when absent.
func (r *CatalogRepository) Delete(ctx context.Context, kind models.CatalogKind, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
