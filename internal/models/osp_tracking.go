package models

import "time"

// OSP lot status. "Partial" has no status of its own: a lot stays Sent
// until received_qty + rejected_qty reaches quantity.
const (
	OSPStatusSent     = "Sent"
	OSPStatusReceived = "Received"
)

type OSPTracking struct {
	ID                 int64      `json:"id"`
	JobCardID          int64      `json:"job_card_id"`
	WorkOrderID        int64      `json:"work_order_id"`
	OrderItemID        *int64     `json:"order_item_id,omitempty"`
	VendorID           int64      `json:"vendor_id"`
	VendorName         string     `json:"vendor_name"`
	Quantity           int        `json:"quantity"`
	ReceivedQty        int        `json:"received_qty"`
	RejectedQty        int        `json:"rejected_qty"`
	Status             string     `json:"status"`
	SentDate           time.Time  `json:"sent_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedBy          int64      `json:"created_by"`
	UpdatedBy          *int64     `json:"updated_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type CreateOSPTrackingRequest struct {
	JobCardID          int64      `json:"job_card_id"`
	WorkOrderID        int64      `json:"work_order_id"`
	OrderItemID        *int64     `json:"order_item_id,omitempty"`
	VendorID           int64      `json:"vendor_id"`
	VendorName         string     `json:"vendor_name"`
	Quantity           int        `json:"quantity"`
	SentDate           *time.Time `json:"sent_date,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedBy          int64      `json:"created_by"`
}

type ReceiveOSPRequest struct {
	OSPID            int64     `json:"osp_id"`
	ReceivedQty      int       `json:"received_qty"`
	RejectedQty      int       `json:"rejected_qty"`
	ActualReturnDate time.Time `json:"actual_return_date"`
	Notes            *string   `json:"notes,omitempty"`
	UpdatedBy        int64     `json:"updated_by"`
}

// OSPReceiveResult reports what a receive call actually did. Updated is
// false when the lot was missing or already Received (the call was a no-op).
type OSPReceiveResult struct {
	Updated     bool   `json:"updated"`
	Completed   bool   `json:"completed"`
	JobCardID   int64  `json:"job_card_id"`
	NewStatus   string `json:"new_status"`
	ReceivedQty int    `json:"received_qty"`
	RejectedQty int    `json:"rejected_qty"`
}
