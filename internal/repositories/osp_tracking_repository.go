package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mfg-backend/internal/models"
	"mfg-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OSPTrackingRepository struct {
	DB *pgxpool.Pool
}

func NewOSPTrackingRepository(db *pgxpool.Pool) *OSPTrackingRepository {
	return &OSPTrackingRepository{DB: db}
}

func (r *OSPTrackingRepository) Create(ctx context.Context, req *models.CreateOSPTrackingRequest) (*models.OSPTracking, error) {
	sentDate := timeutil.Now()
	if req.SentDate != nil {
		sentDate = *req.SentDate
	}

	query := `
		INSERT INTO osp_tracking
			(job_card_id, work_order_id, order_item_id, vendor_id, vendor_name, quantity,
			 status, sent_date, expected_return_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
		RETURNING id, received_qty, rejected_qty, created_at, updated_at
	`

	lot := &models.OSPTracking{
		JobCardID:          req.JobCardID,
		WorkOrderID:        req.WorkOrderID,
		OrderItemID:        req.OrderItemID,
		VendorID:           req.VendorID,
		VendorName:         req.VendorName,
		Quantity:           req.Quantity,
		Status:             models.OSPStatusSent,
		SentDate:           sentDate,
		ExpectedReturnDate: req.ExpectedReturnDate,
		CreatedBy:          req.CreatedBy,
	}
	if req.Notes != "" {
		lot.Notes = &req.Notes
	}

	err := r.DB.QueryRow(ctx, query,
		req.JobCardID,
		req.WorkOrderID,
		req.OrderItemID,
		req.VendorID,
		req.VendorName,
		req.Quantity,
		models.OSPStatusSent,
		sentDate,
		req.ExpectedReturnDate,
		req.Notes,
		req.CreatedBy,
	).Scan(&lot.ID, &lot.ReceivedQty, &lot.RejectedQty, &lot.CreatedAt, &lot.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create osp lot: %w", err)
	}

	return lot, nil
}

// BulkCreate inserts a batch of OSP lots inside one transaction. Any
// single-row failure aborts the whole batch.
func (r *OSPTrackingRepository) BulkCreate(ctx context.Context, reqs []*models.CreateOSPTrackingRequest) ([]*models.OSPTracking, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO osp_tracking
			(job_card_id, work_order_id, order_item_id, vendor_id, vendor_name, quantity,
			 status, sent_date, expected_return_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
		RETURNING id, received_qty, rejected_qty, created_at, updated_at
	`

	lots := make([]*models.OSPTracking, 0, len(reqs))
	for _, req := range reqs {
		sentDate := timeutil.Now()
		if req.SentDate != nil {
			sentDate = *req.SentDate
		}

		lot := &models.OSPTracking{
			JobCardID:          req.JobCardID,
			WorkOrderID:        req.WorkOrderID,
			OrderItemID:        req.OrderItemID,
			VendorID:           req.VendorID,
			VendorName:         req.VendorName,
			Quantity:           req.Quantity,
			Status:             models.OSPStatusSent,
			SentDate:           sentDate,
			ExpectedReturnDate: req.ExpectedReturnDate,
			CreatedBy:          req.CreatedBy,
		}
		if req.Notes != "" {
			lot.Notes = &req.Notes
		}

		err := tx.QueryRow(ctx, query,
			req.JobCardID,
			req.WorkOrderID,
			req.OrderItemID,
			req.VendorID,
			req.VendorName,
			req.Quantity,
			models.OSPStatusSent,
			sentDate,
			req.ExpectedReturnDate,
			req.Notes,
			req.CreatedBy,
		).Scan(&lot.ID, &lot.ReceivedQty, &lot.RejectedQty, &lot.CreatedAt, &lot.UpdatedAt)

		if err != nil {
			return nil, fmt.Errorf("failed to create osp lot for job card %d: %w", req.JobCardID, err)
		}

		lots = append(lots, lot)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *OSPTrackingRepository) GetByID(ctx context.Context, id int64) (*models.OSPTracking, error) {
	query := `
		SELECT id, job_card_id, work_order_id, order_item_id, vendor_id, vendor_name,
		       quantity, received_qty, rejected_qty, status,
		       sent_date, expected_return_date, actual_return_date, notes,
		       created_by, updated_by, created_at, updated_at
		FROM osp_tracking
		WHERE id = $1
	`

	lot := &models.OSPTracking{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&lot.ID,
		&lot.JobCardID,
		&lot.WorkOrderID,
		&lot.OrderItemID,
		&lot.VendorID,
		&lot.VendorName,
		&lot.Quantity,
		&lot.ReceivedQty,
		&lot.RejectedQty,
		&lot.Status,
		&lot.SentDate,
		&lot.ExpectedReturnDate,
		&lot.ActualReturnDate,
		&lot.Notes,
		&lot.CreatedBy,
		&lot.UpdatedBy,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return lot, nil
}

// MarkReceived books a partial or full receipt against an OSP lot.
//
// The whole operation runs in one transaction. The locking read matches only
// status = 'Sent', so a lot that was already Received (or an unknown id) is a
// no-op and the job-card completion side effect can fire at most once per lot.
// The receipt accumulates received and rejected pieces; when the running total
// reaches the sent quantity the lot flips to Received and the linked job card
// is advanced to Completed in the same transaction.
func (r *OSPTrackingRepository) MarkReceived(ctx context.Context, req *models.ReceiveOSPRequest) (*models.OSPReceiveResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the lot; the status guard keeps closed lots out.
	var (
		jobCardID   int64
		quantity    int
		oldReceived int
		oldRejected int
	)
	err = tx.QueryRow(ctx, `
		SELECT job_card_id, quantity, received_qty, rejected_qty
		FROM osp_tracking
		WHERE id = $1 AND status = 'Sent'
		FOR UPDATE
	`, req.OSPID).Scan(&jobCardID, &quantity, &oldReceived, &oldRejected)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown id or already Received: leave both rows untouched.
			return &models.OSPReceiveResult{Updated: false}, nil
		}
		return nil, fmt.Errorf("failed to lock osp lot: %w", err)
	}

	newReceived := oldReceived + req.ReceivedQty
	newRejected := oldRejected + req.RejectedQty

	// Rejected pieces count toward the completion threshold: the vendor has
	// returned them either way.
	newStatus := models.OSPStatusSent
	if newReceived+newRejected >= quantity {
		newStatus = models.OSPStatusReceived
	}

	_, err = tx.Exec(ctx, `
		UPDATE osp_tracking
		SET received_qty = $2, rejected_qty = $3, status = $4,
		    actual_return_date = $5, notes = COALESCE($6, notes),
		    updated_by = $7, updated_at = NOW()
		WHERE id = $1
	`, req.OSPID, newReceived, newRejected, newStatus, req.ActualReturnDate, req.Notes, req.UpdatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update osp lot: %w", err)
	}

	result := &models.OSPReceiveResult{
		Updated:     true,
		JobCardID:   jobCardID,
		NewStatus:   newStatus,
		ReceivedQty: newReceived,
		RejectedQty: newRejected,
	}

	if newStatus == models.OSPStatusReceived {
		// This call crossed the threshold: close out the job card. The
		// production_status re-check keeps an already-completed card untouched.
		tag, err := tx.Exec(ctx, `
			UPDATE job_cards
			SET production_status = $2, completed_qty = quantity,
			    actual_end_time = $3, updated_at = NOW()
			WHERE id = $1 AND production_status <> $2
		`, jobCardID, models.ProductionStatusCompleted, req.ActualReturnDate)
		if err != nil {
			return nil, fmt.Errorf("failed to complete job card %d: %w", jobCardID, err)
		}
		result.Completed = tag.RowsAffected() > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// GetActiveStatusByJobCardIDs returns the status of lots still out at vendors
// (status = 'Sent') for a batch of job cards. The first row per job card wins;
// more than one open lot per card is a degenerate case. Empty input returns an
// empty map without touching the database.
func (r *OSPTrackingRepository) GetActiveStatusByJobCardIDs(ctx context.Context, jobCardIDs []int64) (map[int64]string, error) {
	statuses := make(map[int64]string)
	if len(jobCardIDs) == 0 {
		return statuses, nil
	}

	query := `
		SELECT job_card_id, status
		FROM osp_tracking
		WHERE job_card_id = ANY($1) AND status = 'Sent'
		ORDER BY id
	`

	rows, err := r.DB.Query(ctx, query, jobCardIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			jobCardID int64
			status    string
		)
		if err := rows.Scan(&jobCardID, &status); err != nil {
			return nil, err
		}
		if _, ok := statuses[jobCardID]; !ok {
			statuses[jobCardID] = status
		}
	}

	return statuses, rows.Err()
}

// ListOverdue returns lots still out at vendors past their expected return date.
func (r *OSPTrackingRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.OSPTracking, error) {
	query := `
		SELECT id, job_card_id, work_order_id, order_item_id, vendor_id, vendor_name,
		       quantity, received_qty, rejected_qty, status,
		       sent_date, expected_return_date, actual_return_date, notes,
		       created_by, updated_by, created_at, updated_at
		FROM osp_tracking
		WHERE status = 'Sent' AND expected_return_date < $1
		ORDER BY expected_return_date
	`

	rows, err := r.DB.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*models.OSPTracking
	for rows.Next() {
		lot := &models.OSPTracking{}
		err := rows.Scan(
			&lot.ID,
			&lot.JobCardID,
			&lot.WorkOrderID,
			&lot.OrderItemID,
			&lot.VendorID,
			&lot.VendorName,
			&lot.Quantity,
			&lot.ReceivedQty,
			&lot.RejectedQty,
			&lot.Status,
			&lot.SentDate,
			&lot.ExpectedReturnDate,
			&lot.ActualReturnDate,
			&lot.Notes,
			&lot.CreatedBy,
			&lot.UpdatedBy,
			&lot.CreatedAt,
			&lot.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}
