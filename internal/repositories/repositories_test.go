package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"mfg-backend/internal/models"
)

// createTestJobCard inserts a released job card and returns its id.
func createTestJobCard(t *testing.T, pool *pgxpool.Pool, no string, quantity int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO job_cards (job_card_no, work_order_id, quantity, status, production_status)
		VALUES ($1, 1, $2, $3, $4)
		RETURNING id
	`, no, quantity, models.JobCardStatusReleased, models.ProductionStatusNotStarted).Scan(&id)
	require.NoError(t, err)
	return id
}

// createTestEdge links prerequisite → dependent directly in the table.
func createTestEdge(t *testing.T, pool *pgxpool.Pool, prerequisiteID, dependentID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO job_card_dependencies (dependent_job_card_id, prerequisite_job_card_id, dependency_type)
		VALUES ($1, $2, 'finish-start')
		RETURNING id
	`, dependentID, prerequisiteID).Scan(&id)
	require.NoError(t, err)
	return id
}

func testJobCardNo(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}
