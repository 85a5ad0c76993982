package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenanceManagement/internal/navigation"
	"maintenanceManagement/internal/workorder"
)

func (f *Front) adminList(c *gin.Context) (*workorder.AdminList, error) {
	l := workorder.NewAdminList(f.Orders, workorder.Config{PageSize: f.PageSize, Logger: f.Logger})
	err := l.LoadAll(c.Request.Context())
	return l, err
}

func (f *Front) renderAdmin(c *gin.Context, l *workorder.AdminList, status int) {
	l.Paginate(pageParam(c), 0)
	v := ordersView{view: f.viewOf(c, navigation.ViewOrders), Page: l.Page(), TotalPages: l.TotalPages(), Rows: l.Rows()}
	v.Message = l.Message()
	c.JSON(status, v)
}

func (f *Front) listOrders(c *gin.Context) {
	l, err := f.adminList(c)
	f.renderAdmin(c, l, statusFor(err))
}

func (f *Front) createOrder(c *gin.Context) {
	l, err := f.adminList(c)
	if err != nil {
		f.renderAdmin(c, l, statusFor(err))
		return
	}
	var form workorder.Form
	if err := c.ShouldBind(&form); err != nil {
		f.renderAdmin(c, l, statusFor(l.Reject(err)))
		return
	}
	_, err = l.Create(c.Request.Context(), form)
	status := statusFor(err)
	if err == nil {
		status = http.StatusCreated
	}
	f.renderAdmin(c, l, status)
}

func (f *Front) updateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := f.adminList(c)
	if err != nil {
		f.renderAdmin(c, l, statusFor(err))
		return
	}
	var form workorder.Form
	if err := c.ShouldBind(&form); err != nil {
		f.renderAdmin(c, l, statusFor(l.Reject(err)))
		return
	}
	_, err = l.Update(c.Request.Context(), id, form)
	f.renderAdmin(c, l, statusFor(err))
}

func (f *Front) deleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := f.adminList(c)
	if err != nil {
		f.renderAdmin(c, l, statusFor(err))
		return
	}
	err = l.Delete(c.Request.Context(), id)
	f.renderAdmin(c, l, statusFor(err))
}

func (f *Front) operatorList(c *gin.Context) (*workorder.OperatorList, error) {
	l := workorder.NewOperatorList(f.Orders, f.provider(c), workorder.Config{PageSize: f.PageSize, Logger: f.Logger})
	err := l.LoadMine(c.Request.Context())
	return l, err
}

func (f *Front) renderOperator(c *gin.Context, l *workorder.OperatorList, status int) {
	l.Paginate(pageParam(c), 0)
	v := ordersView{view: f.viewOf(c, navigation.ViewMyOrders), Page: l.Page(), TotalPages: l.TotalPages(), Rows: l.Rows()}
	v.Message = l.Message()
	c.JSON(status, v)
}

func (f *Front) listMyOrders(c *gin.Context) {
	l, err := f.operatorList(c)
	f.renderOperator(c, l, statusFor(err))
}

func (f *Front) startTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := f.operatorList(c)
	if err == nil {
		err = l.StartByID(c.Request.Context(), id)
	}
	f.renderOperator(c, l, statusFor(err))
}

func (f *Front) finishTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := f.operatorList(c)
	if err == nil {
		err = l.FinishByID(c.Request.Context(), id, c.PostForm("completion_time"))
	}
	f.renderOperator(c, l, statusFor(err))
}
