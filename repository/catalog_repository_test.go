package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"maintenanceManagement/internal/testutil"
	"maintenanceManagement/models"
)

func TestCatalogRepository_CRUD(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "catalogrepo")
	repo := NewCatalogRepository(d)
	ctx := context.Background()

	edifice, err := repo.Create(ctx, models.CatalogItem{Kind: models.CatalogEdifice, Name: "Torre A"})
	if err != nil {
		t.Fatalf("create edifice: %v", err)
	}
	floor, err := repo.Create(ctx, models.CatalogItem{Kind: models.CatalogFloor, Name: "Piso 1", ParentID: &edifice.ID})
	if err != nil {
		t.Fatalf("create floor: %v", err)
	}
	if _, err := repo.Create(ctx, models.CatalogItem{Kind: "galaxy", Name: "x"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := repo.Create(ctx, models.CatalogItem{Kind: models.CatalogTag}); err == nil {
		t.Fatalf("expected error for empty name")
	}

	floors, err := repo.List(ctx, models.CatalogFloor)
	if err != nil || len(floors) != 1 {
		t.Fatalf("list floors: %v len=%d", err, len(floors))
	}
	if floors[0].ParentID == nil || *floors[0].ParentID != edifice.ID {
		t.Fatalf("parent not stored: %+v", floors[0])
	}

	if err := repo.Rename(ctx, models.CatalogFloor, floor.ID, "Planta baja"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	// Kind is part of the key.
	if err := repo.Rename(ctx, models.CatalogTag, floor.ID, "x"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("rename with wrong kind: got %v, want sql.ErrNoRows", err)
	}

	// The edifice is still referenced by the floor.
	if err := repo.Delete(ctx, models.CatalogEdifice, edifice.ID); err == nil {
		t.Fatalf("expected foreign key error deleting a referenced edifice")
	}
	if err := repo.Delete(ctx, models.CatalogFloor, floor.ID); err != nil {
		t.Fatalf("delete floor: %v", err)
	}
	if err := repo.Delete(ctx, models.CatalogEdifice, edifice.ID); err != nil {
		t.Fatalf("delete edifice: %v", err)
	}
}
