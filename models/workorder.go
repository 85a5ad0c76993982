package models

import (
	"fmt"
	"strings"
)

// OTState is the state id of a work order. The server owns the state table;
// the client only knows the two states it transitions into.
type OTState int64

const (
	OTStateInProgress OTState = 7
	OTStateFinished   OTState = 8
)

// Name returns the display name of the known states.
func (s OTState) Name() string {
	switch s {
	case OTStateInProgress:
		return "En Progreso"
	case OTStateFinished:
		return "Finalizada"
	default:
		return ""
	}
}

// WorkOrder is an OT (orden de trabajo).
// Username is joined from users by IDUser and is read only.
type WorkOrder struct {
	ID             int64   `db:"id_ot" json:"id_ot"`
	OrderNumber    string  `db:"order_number" json:"order_number"`
	RequestDate    *Date   `db:"request_date" json:"request_date"`
	InitialDate    *Date   `db:"initial_date" json:"initial_date"`
	CompletionDate *Date   `db:"completion_date" json:"completion_date"`
	CompletionTime *int    `db:"completion_time" json:"completion_time"`
	Observations   string  `db:"observations" json:"observations"`
	IDUser         int64   `db:"id_user" json:"id_user"`
	IDTaskList     int64   `db:"id_task_list" json:"id_task_list"`
	IDPriority     int64   `db:"id_priority" json:"id_priority"`
	IDOTState      OTState `db:"id_ot_state" json:"id_ot_state"`
	IDTag          int64   `db:"id_tag" json:"id_tag"`
	Username       string  `db:"username" json:"username,omitempty"`
}

// Validate checks the fields required to create a work order.
func (o WorkOrder) Validate() error {
	if strings.TrimSpace(o.OrderNumber) == "" {
		return fmt.Errorf("order_number is required")
	}
	for _, f := range []struct {
		name string
		v    int64
	}{
		{"id_user", o.IDUser},
		{"id_task_list", o.IDTaskList},
		{"id_priority", o.IDPriority},
		{"id_ot_state", int64(o.IDOTState)},
		{"id_tag", o.IDTag},
	} {
		if f.v <= 0 {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	if o.CompletionTime != nil && *o.CompletionTime < 0 {
		return fmt.Errorf("completion_time must not be negative")
	}
	return nil
}

// WorkOrderPatch is a partial update. Nil fields are left untouched.
type WorkOrderPatch struct {
	OrderNumber    *string  `json:"order_number,omitempty"`
	RequestDate    *Date    `json:"request_date,omitempty"`
	InitialDate    *Date    `json:"initial_date,omitempty"`
	CompletionDate *Date    `json:"completion_date,omitempty"`
	CompletionTime *int     `json:"completion_time,omitempty"`
	Observations   *string  `json:"observations,omitempty"`
	IDUser         *int64   `json:"id_user,omitempty"`
	IDTaskList     *int64   `json:"id_task_list,omitempty"`
	IDPriority     *int64   `json:"id_priority,omitempty"`
	IDOTState      *OTState `json:"id_ot_state,omitempty"`
	IDTag          *int64   `json:"id_tag,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p WorkOrderPatch) Empty() bool {
	return p == WorkOrderPatch{}
}

// Apply copies the non-nil fields of p onto o.
func (p WorkOrderPatch) Apply(o *WorkOrder) {
	if p.OrderNumber != nil {
		o.OrderNumber = *p.OrderNumber
	}
	if p.RequestDate != nil {
		o.RequestDate = p.RequestDate.Ptr()
	}
	if p.InitialDate != nil {
		o.InitialDate = p.InitialDate.Ptr()
	}
	if p.CompletionDate != nil {
		o.CompletionDate = p.CompletionDate.Ptr()
	}
	if p.CompletionTime != nil {
		v := *p.CompletionTime
		o.CompletionTime = &v
	}
	if p.Observations != nil {
		o.Observations = *p.Observations
	}
	if p.IDUser != nil {
		o.IDUser = *p.IDUser
	}
	if p.IDTaskList != nil {
		o.IDTaskList = *p.IDTaskList
	}
	if p.IDPriority != nil {
		o.IDPriority = *p.IDPriority
	}
	if p.IDOTState != nil {
		o.IDOTState = *p.IDOTState
	}
	if p.IDTag != nil {
		o.IDTag = *p.IDTag
	}
}
