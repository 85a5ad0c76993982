package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"maintenanceManagement/models"
)

const workOrderColumns = `o.id_ot, o.order_number, o.request_date, o.initial_date, o.completion_date, o.completion_time,
o.observations, o.id_user, o.id_task_list, o.id_priority, o.id_ot_state, o.id_tag, COALESCE(u.username, '')`

const workOrderFrom = ` FROM ots o LEFT JOIN users u ON u.id = o.id_user`

// WorkOrderRepository stores work orders. Its GetAll/Create/Update/Delete
// methods serve the remote work-order resource directly.
type WorkOrderRepository struct {
	db *sql.DB
}

// NewWorkOrderRepository creates a new WorkOrderRepository.
func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// GetAll returns every work order in id order with the owner's username joined in.
func (r *WorkOrderRepository) GetAll(ctx context.Context) ([]models.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+workOrderColumns+workOrderFrom+` ORDER BY o.id_ot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrderRows(rows)
}

// ListByUsername returns the work orders owned by username in id order.
func (r *WorkOrderRepository) ListByUsername(ctx context.Context, username string) ([]models.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+workOrderColumns+workOrderFrom+` WHERE u.username = ? ORDER BY o.id_ot`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrderRows(rows)
}

// GetByID fetches a work order by its ID. It returns nil, nil when absent.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*models.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+workOrderColumns+workOrderFrom+` WHERE o.id_ot = ?`, id)
	o, err := scanWorkOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// Create inserts a new work order and returns it as stored.
func (r *WorkOrderRepository) Create(ctx context.Context, o models.WorkOrder) (models.WorkOrder, error) {
	if strings.TrimSpace(o.OrderNumber) == "" {
		return models.WorkOrder{}, errors.New("order_number is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO ots (order_number, request_date, initial_date, completion_date, completion_time, observations,
id_user, id_task_list, id_priority, id_ot_state, id_tag) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		o.OrderNumber, o.RequestDate, o.InitialDate, o.CompletionDate, o.CompletionTime, o.Observations,
		o.IDUser, o.IDTaskList, o.IDPriority, int64(o.IDOTState), o.IDTag)
	if err != nil {
		return models.WorkOrder{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.WorkOrder{}, err
	}
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	if created == nil {
		return models.WorkOrder{}, fmt.Errorf("created work order not found: id=%d", id)
	}
	return *created, nil
}

// Update applies a partial update and returns the stored result.
// It returns sql.ErrNoRows when the work order does not exist.
func (r *WorkOrderRepository) Update(ctx context.Context, id int64, p models.WorkOrderPatch) (models.WorkOrder, error) {
	sets, args := patchAssignments(p)
	if len(sets) > 0 {
		qctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		args = append(args, id)
		res, err := r.db.ExecContext(qctx, `UPDATE ots SET `+strings.Join(sets, ", ")+` WHERE id_ot = ?`, args...)
		if err != nil {
			return models.WorkOrder{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.WorkOrder{}, sql.ErrNoRows
		}
	}
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	if o == nil {
		return models.WorkOrder{}, sql.ErrNoRows
	}
	return *o, nil
}

// Delete removes a work order by ID. It returns sql.ErrNoRows when absent.
func (r *WorkOrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM ots WHERE id_ot = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// patchAssignments builds the SET clause of a partial update.
func patchAssignments(p models.WorkOrderPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.OrderNumber != nil {
		add("order_number", *p.OrderNumber)
	}
	if p.RequestDate != nil {
		add("request_date", *p.RequestDate)
	}
	if p.InitialDate != nil {
		add("initial_date", *p.InitialDate)
	}
	if p.CompletionDate != nil {
		add("completion_date", *p.CompletionDate)
	}
	if p.CompletionTime != nil {
		add("completion_time", *p.CompletionTime)
	}
	if p.Observations != nil {
		add("observations", *p.Observations)
	}
	if p.IDUser != nil {
		add("id_user", *p.IDUser)
	}
	if p.IDTaskList != nil {
		add("id_task_list", *p.IDTaskList)
	}
	if p.IDPriority != nil {
		add("id_priority", *p.IDPriority)
	}
	if p.IDOTState != nil {
		add("id_ot_state", int64(*p.IDOTState))
	}
	if p.IDTag != nil {
		add("id_tag", *p.IDTag)
	}
	return sets, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(s rowScanner) (models.WorkOrder, error) {
	var o models.WorkOrder
	var requested, initial, completed models.Date
	var completionTime sql.NullInt64
	var state int64
	if err := s.Scan(&o.ID, &o.OrderNumber, &requested, &initial, &completed, &completionTime,
		&o.Observations, &o.IDUser, &o.IDTaskList, &o.IDPriority, &state, &o.IDTag, &o.Username); err != nil {
		return models.WorkOrder{}, err
	}
	o.RequestDate = requested.Ptr()
	o.InitialDate = initial.Ptr()
	o.CompletionDate = completed.Ptr()
	if completionTime.Valid {
		v := int(completionTime.Int64)
		o.CompletionTime = &v
	}
	o.IDOTState = models.OTState(state)
	return o, nil
}

func scanWorkOrderRows(rows *sql.Rows) ([]models.WorkOrder, error) {
	var out []models.WorkOrder
	for rows.Next() {
		o, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
