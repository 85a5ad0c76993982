package models

// CatalogKind names one of the infrastructure or task-definition lists
// managed from the admin views.
type CatalogKind string

const (
	CatalogEdifice   CatalogKind = "edifice"
	CatalogFloor     CatalogKind = "floor"
	CatalogSector    CatalogKind = "sector"
	CatalogSite      CatalogKind = "site"
	CatalogAssetType CatalogKind = "asset_type"
	CatalogTag       CatalogKind = "tag"
	CatalogTask      CatalogKind = "task"
	CatalogTaskType  CatalogKind = "task_type"
	CatalogTaskList  CatalogKind = "task_list"
	CatalogPriority  CatalogKind = "priority"
)

var catalogKinds = map[CatalogKind]struct{}{
	CatalogEdifice:   {},
	CatalogFloor:     {},
	CatalogSector:    {},
	CatalogSite:      {},
	CatalogAssetType: {},
	CatalogTag:       {},
	CatalogTask:      {},
	CatalogTaskType:  {},
	CatalogTaskList:  {},
	CatalogPriority:  {},
}

// Valid reports whether k is a known catalog.
func (k CatalogKind) Valid() bool {
	_, ok := catalogKinds[k]
	return ok
}

// CatalogItem is a named entry of a catalog. ParentID links floors to
// edifices, sectors to floors, and so on; it is nil for top-level entries.
type CatalogItem struct {
	ID       int64       `db:"id" json:"id"`
	Kind     CatalogKind `db:"kind" json:"kind"`
	Name     string      `db:"name" json:"name"`
	ParentID *int64      `db:"parent_id" json:"parent_id,omitempty"`
}
