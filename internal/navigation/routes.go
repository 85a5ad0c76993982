// Package navigation holds the table of views of the back office and the
// guard protecting each one.
package navigation

import (
	"strings"

	"go.uber.org/zap"

	"maintenanceManagement/internal/guard"
	"maintenanceManagement/models"
)

// View names.
const (
	ViewLogin            = "login"
	ViewLaunchpad        = "launchpad"
	ViewRegistro         = "registro"
	ViewLogout           = "logout"
	ViewGestionOrdenes   = "gestion-ordenes"
	ViewGestionInfra     = "gestion-infraestructura"
	ViewGestionOperarios = "gestion-operarios"
	ViewOrders           = "ver-ordenes"
	ViewMyOrders         = "ver-mis-ordenes"
	ViewCreateOrder      = "crear-orden"
	ViewNotFound         = "not-found"
)

const notFoundPath = "**"

// Route maps a path to a view. Guard is nil for public routes; Catalog is set
// for the views that manage one catalog list.
type Route struct {
	Path    string
	View    string
	Guard   guard.Guard
	Catalog models.CatalogKind
}

// Protected reports whether entering the route runs a guard.
func (r Route) Protected() bool { return r.Guard != nil }

// Table is an ordered list of routes with a not-found fallback.
type Table struct {
	routes   []Route
	byPath   map[string]Route
	notFound Route
}

// NewTable builds the route table of the back office. Guards log through logger.
func NewTable(logger *zap.Logger) *Table {
	admin := guard.AdminGuard{Logger: logger}
	operario := guard.OperarioGuard{Logger: logger}

	catalog := func(path string, kind models.CatalogKind) Route {
		return Route{Path: path, View: path, Guard: admin, Catalog: kind}
	}

	routes := []Route{
		{Path: "login", View: ViewLogin},
		{Path: "", View: ViewLaunchpad},
		{Path: "registro", View: ViewRegistro, Guard: admin},
		{Path: "logout", View: ViewLogout},
		{Path: "gestion-ordenes", View: ViewGestionOrdenes},
		{Path: "gestion-infraestructura", View: ViewGestionInfra, Guard: admin},
		{Path: "gestion-operarios", View: ViewGestionOperarios, Guard: admin},
		catalog("edificio", models.CatalogEdifice),
		catalog("piso", models.CatalogFloor),
		catalog("sector", models.CatalogSector),
		catalog("ubicacion", models.CatalogSite),
		catalog("tipo-activo", models.CatalogAssetType),
		catalog("tag", models.CatalogTag),
		catalog("task", models.CatalogTask),
		catalog("task-type", models.CatalogTaskType),
		catalog("task-list", models.CatalogTaskList),
		{Path: "ver-ordenes", View: ViewOrders, Guard: admin},
		{Path: "ver-mis-ordenes", View: ViewMyOrders, Guard: operario},
		{Path: "crear-orden", View: ViewCreateOrder, Guard: admin},
	}
	return newTable(routes)
}

func newTable(routes []Route) *Table {
	t := &Table{
		routes:   routes,
		byPath:   make(map[string]Route, len(routes)),
		notFound: Route{Path: notFoundPath, View: ViewNotFound},
	}
	for _, r := range routes {
		t.byPath[r.Path] = r
	}
	return t
}

// Resolve returns the route for path, or the not-found route. Leading and
// trailing slashes are ignored.
func (t *Table) Resolve(path string) (Route, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	r, ok := t.byPath[strings.Trim(path, "/")]
	if !ok {
		return t.notFound, false
	}
	return r, true
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// NotFound is the fallback route.
func (t *Table) NotFound() Route { return t.notFound }
