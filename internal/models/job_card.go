package models

import "time"

// Job card lifecycle status
const (
	JobCardStatusCreated  = "Created"
	JobCardStatusReleased = "Released"
	JobCardStatusClosed   = "Closed"
)

// Job card production status
const (
	ProductionStatusNotStarted = "NotStarted"
	ProductionStatusInProgress = "InProgress"
	ProductionStatusCompleted  = "Completed"
	ProductionStatusOnHold     = "OnHold"
)

type JobCard struct {
	ID               int64      `json:"id"`
	JobCardNo        string     `json:"job_card_no"`
	WorkOrderID      int64      `json:"work_order_id"`
	ProcessName      string     `json:"process_name"`
	MachineCode      string     `json:"machine_code"`
	Quantity         int        `json:"quantity"`
	CompletedQty     int        `json:"completed_qty"`
	Status           string     `json:"status"`
	ProductionStatus string     `json:"production_status"`
	PlannedStart     *time.Time `json:"planned_start,omitempty"`
	PlannedEnd       *time.Time `json:"planned_end,omitempty"`
	ActualStartTime  *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime    *time.Time `json:"actual_end_time,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
