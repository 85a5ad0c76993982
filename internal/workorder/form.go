package workorder

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"maintenanceManagement/models"
)

var validate = validator.New()

// Form is the create/edit form of a work order. Dates are YYYY-MM-DD (ISO
// timestamps are accepted too).
type Form struct {
	OrderNumber    string `form:"order_number" json:"order_number" validate:"required"`
	RequestDate    string `form:"request_date" json:"request_date"`
	InitialDate    string `form:"initial_date" json:"initial_date"`
	CompletionDate string `form:"completion_date" json:"completion_date"`
	CompletionTime *int   `form:"completion_time" json:"completion_time" validate:"omitempty,min=0"`
	Observations   string `form:"observations" json:"observations"`
	IDUser         int64  `form:"id_user" json:"id_user" validate:"required"`
	IDTaskList     int64  `form:"id_task_list" json:"id_task_list" validate:"required"`
	IDPriority     int64  `form:"id_priority" json:"id_priority" validate:"required"`
	IDOTState      int64  `form:"id_ot_state" json:"id_ot_state" validate:"required"`
	IDTag          int64  `form:"id_tag" json:"id_tag" validate:"required"`
}

type formDates struct {
	request, initial, completion models.Date
}

// check validates required fields and parses the dates.
func (f Form) check() (formDates, error) {
	var d formDates
	f.OrderNumber = strings.TrimSpace(f.OrderNumber)
	if err := validate.Struct(f); err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	var err error
	if d.request, err = models.ParseDate(f.RequestDate); err != nil {
		return d, fmt.Errorf("%w: request_date: %v", ErrInvalidForm, err)
	}
	if d.initial, err = models.ParseDate(f.InitialDate); err != nil {
		return d, fmt.Errorf("%w: initial_date: %v", ErrInvalidForm, err)
	}
	if d.completion, err = models.ParseDate(f.CompletionDate); err != nil {
		return d, fmt.Errorf("%w: completion_date: %v", ErrInvalidForm, err)
	}
	return d, nil
}

// WorkOrder converts a valid form into a new work order.
func (f Form) WorkOrder() (models.WorkOrder, error) {
	d, err := f.check()
	if err != nil {
		return models.WorkOrder{}, err
	}
	return models.WorkOrder{
		OrderNumber:    strings.TrimSpace(f.OrderNumber),
		RequestDate:    d.request.Ptr(),
		InitialDate:    d.initial.Ptr(),
		CompletionDate: d.completion.Ptr(),
		CompletionTime: f.CompletionTime,
		Observations:   f.Observations,
		IDUser:         f.IDUser,
		IDTaskList:     f.IDTaskList,
		IDPriority:     f.IDPriority,
		IDOTState:      models.OTState(f.IDOTState),
		IDTag:          f.IDTag,
	}, nil
}

// Patch converts a valid form into a full-edit patch. Empty dates leave the
// stored date untouched.
func (f Form) Patch() (models.WorkOrderPatch, error) {
	o, err := f.WorkOrder()
	if err != nil {
		return models.WorkOrderPatch{}, err
	}
	state := o.IDOTState
	p := models.WorkOrderPatch{
		OrderNumber:    &o.OrderNumber,
		RequestDate:    o.RequestDate,
		InitialDate:    o.InitialDate,
		CompletionDate: o.CompletionDate,
		CompletionTime: o.CompletionTime,
		Observations:   &o.Observations,
		IDUser:         &o.IDUser,
		IDTaskList:     &o.IDTaskList,
		IDPriority:     &o.IDPriority,
		IDOTState:      &state,
		IDTag:          &o.IDTag,
	}
	return p, nil
}

// FormOf fills a form from an existing work order, for editing.
func FormOf(o models.WorkOrder) Form {
	return Form{
		OrderNumber:    o.OrderNumber,
		RequestDate:    dateString(o.RequestDate),
		InitialDate:    dateString(o.InitialDate),
		CompletionDate: dateString(o.CompletionDate),
		CompletionTime: o.CompletionTime,
		Observations:   o.Observations,
		IDUser:         o.IDUser,
		IDTaskList:     o.IDTaskList,
		IDPriority:     o.IDPriority,
		IDOTState:      int64(o.IDOTState),
		IDTag:          o.IDTag,
	}
}

func dateString(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
