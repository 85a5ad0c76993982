package workorder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"maintenanceManagement/internal/collection"
	"maintenanceManagement/internal/session"
	"maintenanceManagement/models"
)

// OperatorList is the view model of the signed-in operator's own work orders.
type OperatorList struct {
	coll    *collection.Paginated[models.WorkOrder, models.WorkOrderPatch]
	session session.Provider
	clock   Clock
	log     *zap.Logger
}

func NewOperatorList(remote Remote, sess session.Provider, cfg Config) *OperatorList {
	log := cfg.logger().Named("ver-mis-ordenes")
	return &OperatorList{
		coll: collection.New[models.WorkOrder, models.WorkOrderPatch](remote, collection.Options[models.WorkOrder]{
			Key:      workOrderKey,
			PageSize: cfg.PageSize,
			Logger:   log,
			Messages: collection.Messages{LoadFailed: MsgOperatorLoadFailed},
		}),
		session: sess,
		clock:   cfg.Clock,
		log:     log,
	}
}

// LoadMine fetches every work order and keeps those assigned to the signed-in
// user. Without a session nothing is fetched.
func (l *OperatorList) LoadMine(ctx context.Context) error {
	var username string
	ok := false
	if l.session != nil {
		username, ok = l.session.Username()
	}
	if !ok {
		l.coll.SetMessage(MsgNoUser)
		return ErrNoUser
	}
	return l.coll.LoadFiltered(ctx, func(o models.WorkOrder) bool {
		return o.Username == username
	})
}

func (l *OperatorList) Paginate(page, pageSize int) { l.coll.Paginate(page, pageSize) }
func (l *OperatorList) Next() bool                  { return l.coll.Next() }
func (l *OperatorList) Prev() bool                  { return l.coll.Prev() }
func (l *OperatorList) Page() int                   { return l.coll.Page() }
func (l *OperatorList) TotalPages() int             { return l.coll.TotalPages() }
func (l *OperatorList) Len() int                    { return l.coll.Len() }
func (l *OperatorList) Message() string             { return l.coll.Message() }
func (l *OperatorList) ClearMessage()               { l.coll.ClearMessage() }

// Rows returns the current page, dates formatted for display.
func (l *OperatorList) Rows() []Row { return toRows(l.coll.Visible()) }

// Find returns one of the operator's loaded work orders.
func (l *OperatorList) Find(id int64) (models.WorkOrder, bool) { return l.coll.Find(id) }

// StartTask marks ot as in progress from today, then re-fetches.
func (l *OperatorList) StartTask(ctx context.Context, ot models.WorkOrder) error {
	now := l.clock.now()
	today := models.DateOf(now)
	state := models.OTStateInProgress
	patch := models.WorkOrderPatch{InitialDate: &today, IDOTState: &state}

	if _, err := l.coll.Patch(ctx, ot.ID, patch); err != nil {
		l.log.Warn("start failed", zap.Int64("id", ot.ID), zap.Error(err))
		l.coll.SetMessage(MsgStartFailed)
		return err
	}
	l.log.Info("task started", zap.Int64("id", ot.ID), zap.String("initial_date", ServerDate(now)))
	l.refetch(ctx)
	l.coll.SetMessage(fmt.Sprintf(MsgStartedFmt, ot.OrderNumber))
	return nil
}

// FinishTask marks ot as finished today after minutes of work, then re-fetches.
// An empty minutes value aborts without sending anything, as does a value
// that is not a whole number of minutes.
func (l *OperatorList) FinishTask(ctx context.Context, ot models.WorkOrder, minutes string) error {
	minutes = strings.TrimSpace(minutes)
	if minutes == "" {
		l.coll.SetMessage(MsgNoCompletionTime)
		return ErrNoCompletionTime
	}
	n, err := strconv.Atoi(minutes)
	if err != nil || n < 0 {
		l.coll.SetMessage(MsgBadCompletionTime)
		return fmt.Errorf("%w: %q", ErrInvalidCompletionTime, minutes)
	}

	now := l.clock.now()
	today := models.DateOf(now)
	state := models.OTStateFinished
	patch := models.WorkOrderPatch{CompletionDate: &today, CompletionTime: &n, IDOTState: &state}

	if _, err := l.coll.Patch(ctx, ot.ID, patch); err != nil {
		l.log.Warn("finish failed", zap.Int64("id", ot.ID), zap.Error(err))
		l.coll.SetMessage(MsgFinishFailed)
		return err
	}
	l.log.Info("task finished", zap.Int64("id", ot.ID), zap.Int("completion_time", n),
		zap.String("completion_date", ServerDate(now)))
	l.refetch(ctx)
	l.coll.SetMessage(fmt.Sprintf(MsgFinishedFmt, ot.OrderNumber))
	return nil
}

// FinishWithPrompt asks p for the completion time and finishes ot with it.
// A failed or dismissed prompt counts as no time entered.
func (l *OperatorList) FinishWithPrompt(ctx context.Context, ot models.WorkOrder, p Prompter) error {
	minutes, err := p.PromptCompletionTime(ot)
	if err != nil {
		l.log.Debug("prompt dismissed", zap.Error(err))
		l.coll.SetMessage(MsgNoCompletionTime)
		return fmt.Errorf("%w: %v", ErrNoCompletionTime, err)
	}
	return l.FinishTask(ctx, ot, minutes)
}

// StartByID and FinishByID act on an order of the loaded list, so an operator
// can only move their own orders.
func (l *OperatorList) StartByID(ctx context.Context, id int64) error {
	ot, ok := l.coll.Find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return l.StartTask(ctx, ot)
}

func (l *OperatorList) FinishByID(ctx context.Context, id int64, minutes string) error {
	ot, ok := l.coll.Find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return l.FinishTask(ctx, ot, minutes)
}

func (l *OperatorList) refetch(ctx context.Context) {
	if err := l.LoadMine(ctx); err != nil {
		l.log.Warn("re-fetch after transition failed", zap.Error(err))
	}
}
