package workorder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"maintenanceManagement/internal/collection"
	"maintenanceManagement/models"
)

// Remote is the work-order service the lists talk to.
type Remote = collection.Remote[models.WorkOrder, models.WorkOrderPatch]

// Config is shared by both lists.
type Config struct {
	PageSize int
	Logger   *zap.Logger
	Clock    Clock
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func workOrderKey(o models.WorkOrder) int64 { return o.ID }

// AdminList is the view model of every work order.
type AdminList struct {
	coll *collection.Paginated[models.WorkOrder, models.WorkOrderPatch]
	log  *zap.Logger
}

func NewAdminList(remote Remote, cfg Config) *AdminList {
	log := cfg.logger().Named("ver-ordenes")
	return &AdminList{
		coll: collection.New[models.WorkOrder, models.WorkOrderPatch](remote, collection.Options[models.WorkOrder]{
			Key:      workOrderKey,
			PageSize: cfg.PageSize,
			Logger:   log,
			Messages: collection.Messages{
				LoadFailed:   MsgAdminLoadFailed,
				Created:      MsgCreated,
				CreateFailed: MsgCreateFailed,
				Updated:      MsgUpdated,
				UpdateFailed: MsgUpdateFailed,
				Deleted:      MsgDeleted,
				DeleteFailed: MsgDeleteFailed,
			},
		}),
		log: log,
	}
}

// LoadAll fetches every work order.
func (l *AdminList) LoadAll(ctx context.Context) error {
	return l.coll.Load(ctx)
}

func (l *AdminList) Paginate(page, pageSize int) { l.coll.Paginate(page, pageSize) }
func (l *AdminList) Next() bool                  { return l.coll.Next() }
func (l *AdminList) Prev() bool                  { return l.coll.Prev() }
func (l *AdminList) Page() int                   { return l.coll.Page() }
func (l *AdminList) TotalPages() int             { return l.coll.TotalPages() }
func (l *AdminList) Len() int                    { return l.coll.Len() }
func (l *AdminList) Message() string             { return l.coll.Message() }
func (l *AdminList) ClearMessage()               { l.coll.ClearMessage() }

// Rows returns the current page, dates formatted for display.
func (l *AdminList) Rows() []Row { return toRows(l.coll.Visible()) }

// Find returns a loaded work order.
func (l *AdminList) Find(id int64) (models.WorkOrder, bool) { return l.coll.Find(id) }

// Create validates form and sends it. Nothing is sent for an invalid form.
func (l *AdminList) Create(ctx context.Context, form Form) (Row, error) {
	o, err := form.WorkOrder()
	if err != nil {
		l.invalid(err)
		return Row{}, err
	}
	created, err := l.coll.Create(ctx, o)
	if err != nil {
		return Row{}, err
	}
	l.log.Info("work order created", zap.Int64("id", created.ID), zap.String("order_number", created.OrderNumber))
	return ToRow(created), nil
}

// Update validates form and sends it as a full edit of id.
func (l *AdminList) Update(ctx context.Context, id int64, form Form) (Row, error) {
	p, err := form.Patch()
	if err != nil {
		l.invalid(err)
		return Row{}, err
	}
	updated, err := l.coll.Update(ctx, id, p)
	if err != nil {
		return Row{}, err
	}
	l.log.Info("work order updated", zap.Int64("id", id))
	return ToRow(updated), nil
}

// Delete removes id.
func (l *AdminList) Delete(ctx context.Context, id int64) error {
	if err := l.coll.Delete(ctx, id); err != nil {
		return err
	}
	l.log.Info("work order deleted", zap.Int64("id", id))
	return nil
}

// Reject records a form that could not be decoded and returns ErrInvalidForm.
func (l *AdminList) Reject(err error) error {
	l.invalid(err)
	return fmt.Errorf("%w: %v", ErrInvalidForm, err)
}

func (l *AdminList) invalid(err error) {
	l.log.Debug("form rejected", zap.Error(err))
	l.coll.SetMessage(MsgInvalidForm)
}
