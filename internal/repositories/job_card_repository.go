package repositories

import (
	"context"
	"time"

	"mfg-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type JobCardRepository struct {
	DB *pgxpool.Pool
}

func NewJobCardRepository(db *pgxpool.Pool) *JobCardRepository {
	return &JobCardRepository{DB: db}
}

func (r *JobCardRepository) GetByID(ctx context.Context, id int64) (*models.JobCard, error) {
	query := `
		SELECT id, job_card_no, work_order_id, process_name, machine_code,
		       quantity, completed_qty, status, production_status,
		       planned_start, planned_end, actual_start_time, actual_end_time,
		       created_at, updated_at
		FROM job_cards
		WHERE id = $1
	`

	jc := &models.JobCard{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&jc.ID,
		&jc.JobCardNo,
		&jc.WorkOrderID,
		&jc.ProcessName,
		&jc.MachineCode,
		&jc.Quantity,
		&jc.CompletedQty,
		&jc.Status,
		&jc.ProductionStatus,
		&jc.PlannedStart,
		&jc.PlannedEnd,
		&jc.ActualStartTime,
		&jc.ActualEndTime,
		&jc.CreatedAt,
		&jc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return jc, nil
}

// ListAvailable returns released, not-yet-completed job cards with no
// unresolved dependency gating them.
func (r *JobCardRepository) ListAvailable(ctx context.Context) ([]*models.JobCard, error) {
	query := `
		SELECT jc.id, jc.job_card_no, jc.work_order_id, jc.process_name, jc.machine_code,
		       jc.quantity, jc.completed_qty, jc.status, jc.production_status,
		       jc.planned_start, jc.planned_end, jc.actual_start_time, jc.actual_end_time,
		       jc.created_at, jc.updated_at
		FROM job_cards jc
		WHERE jc.status = $1
		  AND jc.production_status <> $2
		  AND NOT EXISTS (
			SELECT 1 FROM job_card_dependencies d
			WHERE d.dependent_job_card_id = jc.id AND d.is_resolved = FALSE
		  )
		ORDER BY jc.planned_start NULLS LAST, jc.id
	`

	rows, err := r.DB.Query(ctx, query, models.JobCardStatusReleased, models.ProductionStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.JobCard
	for rows.Next() {
		jc := &models.JobCard{}
		err := rows.Scan(
			&jc.ID,
			&jc.JobCardNo,
			&jc.WorkOrderID,
			&jc.ProcessName,
			&jc.MachineCode,
			&jc.Quantity,
			&jc.CompletedQty,
			&jc.Status,
			&jc.ProductionStatus,
			&jc.PlannedStart,
			&jc.PlannedEnd,
			&jc.ActualStartTime,
			&jc.ActualEndTime,
			&jc.CreatedAt,
			&jc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, jc)
	}

	return cards, rows.Err()
}

// CountBlocked returns the number of job cards gated by at least one
// unresolved dependency. Feeds the monitoring stats payload.
func (r *JobCardRepository) CountBlocked(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(DISTINCT dependent_job_card_id)
		FROM job_card_dependencies
		WHERE is_resolved = FALSE
	`

	var count int
	if err := r.DB.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkInProgress moves a job card to InProgress and stamps the actual start.
// Returns false when the card is unknown or already past NotStarted.
func (r *JobCardRepository) MarkInProgress(ctx context.Context, id int64, startedAt time.Time) (bool, error) {
	query := `
		UPDATE job_cards
		SET production_status = $2, actual_start_time = $3, updated_at = NOW()
		WHERE id = $1 AND production_status = $4
	`

	tag, err := r.DB.Exec(ctx, query, id, models.ProductionStatusInProgress, startedAt, models.ProductionStatusNotStarted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
