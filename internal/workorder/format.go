package workorder

import (
	"fmt"
	"time"

	"maintenanceManagement/models"
)

// NoDate is shown for an absent date.
const NoDate = "Sin fecha"

// DisplayDate formats d as DD-MM-YYYY for the order views.
func DisplayDate(d *models.Date) string {
	if d == nil || d.IsZero() {
		return NoDate
	}
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// ServerDate formats t as the YYYY-MM-DD form the work-order service expects.
// It is not interchangeable with DisplayDate.
func ServerDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Row is the display projection of a work order.
type Row struct {
	ID             int64  `json:"id_ot"`
	OrderNumber    string `json:"order_number"`
	RequestDate    string `json:"request_date"`
	InitialDate    string `json:"initial_date"`
	CompletionDate string `json:"completion_date"`
	CompletionTime *int   `json:"completion_time,omitempty"`
	Observations   string `json:"observations"`
	IDUser         int64  `json:"id_user"`
	IDTaskList     int64  `json:"id_task_list"`
	IDPriority     int64  `json:"id_priority"`
	IDOTState      int64  `json:"id_ot_state"`
	State          string `json:"state,omitempty"`
	IDTag          int64  `json:"id_tag"`
	Username       string `json:"username"`
}

// ToRow formats the three dates of o.
func ToRow(o models.WorkOrder) Row {
	return Row{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		RequestDate:    DisplayDate(o.RequestDate),
		InitialDate:    DisplayDate(o.InitialDate),
		CompletionDate: DisplayDate(o.CompletionDate),
		CompletionTime: o.CompletionTime,
		Observations:   o.Observations,
		IDUser:         o.IDUser,
		IDTaskList:     o.IDTaskList,
		IDPriority:     o.IDPriority,
		IDOTState:      int64(o.IDOTState),
		State:          o.IDOTState.Name(),
		IDTag:          o.IDTag,
		Username:       o.Username,
	}
}

func toRows(orders []models.WorkOrder) []Row {
	rows := make([]Row, len(orders))
	for i, o := range orders {
		rows[i] = ToRow(o)
	}
	return rows
}
