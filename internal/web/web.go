// Package web serves the navigation front: every view of the route table,
// guarded by role, with the order lists rendered as JSON view models.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenanceManagement/internal/auth"
	"maintenanceManagement/internal/guard"
	"maintenanceManagement/internal/navigation"
	"maintenanceManagement/internal/session"
	"maintenanceManagement/internal/workorder"
	"maintenanceManagement/repository"
)

// Front wires the route table to gin.
type Front struct {
	Table    *navigation.Table
	Cookies  *session.CookieStore
	Users    repository.UserRepositoryI
	Catalog  repository.CatalogRepositoryI
	Orders   workorder.Remote
	PageSize int
	Logger   *zap.Logger
}

type view struct {
	View    string `json:"view"`
	User    string `json:"user,omitempty"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message,omitempty"`
}

type ordersView struct {
	view
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Rows       []workorder.Row `json:"rows"`
}

type catalogView struct {
	view
	Kind  string `json:"kind"`
	Items any    `json:"items"`
}

// Register mounts the navigation routes on r.
func (f *Front) Register(r *gin.Engine) {
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	for _, rt := range f.Table.Routes() {
		handlers := []gin.HandlerFunc{}
		if rt.Protected() {
			handlers = append(handlers, guard.Middleware(rt.Guard, f.provider))
		}
		handlers = append(handlers, f.handlerFor(rt))
		r.GET("/"+rt.Path, handlers...)
	}

	r.POST("/login", f.postLogin)

	admin := guard.Middleware(guard.AdminGuard{Logger: f.Logger}, f.provider)
	r.POST("/ver-ordenes", admin, f.createOrder)
	r.POST("/ver-ordenes/:id", admin, f.updateOrder)
	r.POST("/ver-ordenes/:id/delete", admin, f.deleteOrder)

	operario := guard.Middleware(guard.OperarioGuard{Logger: f.Logger}, f.provider)
	r.POST("/ver-mis-ordenes/:id/start", operario, f.startTask)
	r.POST("/ver-mis-ordenes/:id/finish", operario, f.finishTask)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, f.viewOf(c, f.Table.NotFound().View))
	})
}

func (f *Front) provider(c *gin.Context) session.Provider {
	return f.Cookies.Provider(c.Request)
}

func (f *Front) handlerFor(rt navigation.Route) gin.HandlerFunc {
	switch {
	case rt.View == navigation.ViewOrders:
		return f.listOrders
	case rt.View == navigation.ViewMyOrders:
		return f.listMyOrders
	case rt.View == navigation.ViewLogout:
		return f.logout
	case rt.Catalog != "":
		return f.catalogHandler(rt)
	default:
		return func(c *gin.Context) {
			c.JSON(http.StatusOK, f.viewOf(c, rt.View))
		}
	}
}

func (f *Front) viewOf(c *gin.Context, name string) view {
	p := f.provider(c)
	v := view{View: name}
	v.User, _ = p.Username()
	role, _ := p.UserRole()
	v.Role = string(role)
	return v
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// postLogin checks the credentials and writes the cookie session.
func (f *Front) postLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		v := f.viewOf(c, navigation.ViewLogin)
		v.Message = "Ingrese usuario y contraseña."
		c.JSON(http.StatusBadRequest, v)
		return
	}
	u, err := f.Users.GetByUsername(c.Request.Context(), form.Username)
	if err != nil {
		f.Logger.Error("login lookup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, view{View: navigation.ViewLogin, Message: "Error al iniciar sesión."})
		return
	}
	if u == nil || auth.CheckPassword(u.PasswordHash, form.Password) != nil {
		c.JSON(http.StatusUnauthorized, view{View: navigation.ViewLogin, Message: "Usuario o contraseña incorrectos."})
		return
	}
	if err := f.Cookies.Save(c.Writer, c.Request, session.Session{Name: u.Username, Role: u.Role}); err != nil {
		f.Logger.Error("save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, view{View: navigation.ViewLogin, Message: "Error al iniciar sesión."})
		return
	}
	f.Logger.Info("signed in", zap.String("user", u.Username), zap.String("role", string(u.Role)))
	c.Redirect(http.StatusSeeOther, "/")
}

func (f *Front) logout(c *gin.Context) {
	if err := f.Cookies.Clear(c.Writer, c.Request); err != nil {
		f.Logger.Warn("clear session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, guard.LoginPath)
}

func (f *Front) catalogHandler(rt navigation.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := f.Catalog.List(c.Request.Context(), rt.Catalog)
		v := catalogView{view: f.viewOf(c, rt.View), Kind: string(rt.Catalog), Items: items}
		if err != nil {
			f.Logger.Warn("list catalog", zap.String("kind", string(rt.Catalog)), zap.Error(err))
			v.Message = "Error al cargar los datos."
			v.Items = []any{}
		}
		c.JSON(http.StatusOK, v)
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, view{Message: "Identificador inválido."})
		return 0, false
	}
	return id, true
}

// statusFor maps controller errors to a status; the view still carries the message.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, workorder.ErrInvalidForm),
		errors.Is(err, workorder.ErrNoCompletionTime),
		errors.Is(err, workorder.ErrInvalidCompletionTime):
		return http.StatusBadRequest
	case errors.Is(err, workorder.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
