package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfg-backend/internal/models"
	"mfg-backend/internal/testutil"
	"mfg-backend/internal/timeutil"
)

func TestJobCardDependencyRepository_WouldCreateCycle(t *testing.T) {
	testutil.WithTestPool(t, func(pool *pgxpool.Pool) {
		ctx := context.Background()
		repo := NewJobCardDependencyRepository(pool)

		a := createTestJobCard(t, pool, testJobCardNo("JC-CYC", 1), 10)
		b := createTestJobCard(t, pool, testJobCardNo("JC-CYC", 2), 10)
		c := createTestJobCard(t, pool, testJobCardNo("JC-CYC", 3), 10)
		d := createTestJobCard(t, pool, testJobCardNo("JC-CYC", 4), 10)

		// self-edge
		cycle, err := repo.WouldCreateCycle(ctx, a, a)
		require.NoError(t, err)
		assert.True(t, cycle)

		// a → b exists; b → a closes a direct cycle, a → d does not
		createTestEdge(t, pool, a, b)
		cycle, err = repo.WouldCreateCycle(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, cycle)

		cycle, err = repo.WouldCreateCycle(ctx, d, a)
		require.NoError(t, err)
		assert.False(t, cycle)

		// a → b → c: c → a closes a transitive cycle
		createTestEdge(t, pool, b, c)
		cycle, err = repo.WouldCreateCycle(ctx, a, c)
		require.NoError(t, err)
		assert.True(t, cycle)
	})
}

func TestJobCardDependencyRepository_CreateAndResolve(t *testing.T) {
	testutil.WithTestPool(t, func(pool *pgxpool.Pool) {
		ctx := context.Background()
		repo := NewJobCardDependencyRepository(pool)

		prereq := createTestJobCard(t, pool, testJobCardNo("JC-RES", 1), 10)
		dep := createTestJobCard(t, pool, testJobCardNo("JC-RES", 2), 10)

		lag := 30
		edge, err := repo.Create(ctx, &models.CreateJobCardDependencyRequest{
			DependentJobCardID:    dep,
			DependentJobCardNo:    testJobCardNo("JC-RES", 2),
			PrerequisiteJobCardID: prereq,
			PrerequisiteJobCardNo: testJobCardNo("JC-RES", 1),
			DependencyType:        "finish-start",
			LagTimeMinutes:        &lag,
		})
		require.NoError(t, err)
		require.NotZero(t, edge.ID)
		assert.False(t, edge.IsResolved)

		blocked, err := repo.HasUnresolvedDependencies(ctx, dep)
		require.NoError(t, err)
		assert.True(t, blocked)

		resolved, err := repo.MarkResolved(ctx, edge.ID, timeutil.Now())
		require.NoError(t, err)
		assert.True(t, resolved)

		// resolving an already-resolved edge affects no rows
		resolved, err = repo.MarkResolved(ctx, edge.ID, timeutil.Now())
		require.NoError(t, err)
		assert.False(t, resolved)

		blocked, err = repo.HasUnresolvedDependencies(ctx, dep)
		require.NoError(t, err)
		assert.False(t, blocked)

		// unknown id affects no rows
		resolved, err = repo.MarkResolved(ctx, 999999, timeutil.Now())
		require.NoError(t, err)
		assert.False(t, resolved)
	})
}

func TestJobCardDependencyRepository_BulkResolveForPrerequisite(t *testing.T) {
	testutil.WithTestPool(t, func(pool *pgxpool.Pool) {
		ctx := context.Background()
		repo := NewJobCardDependencyRepository(pool)

		prereq := createTestJobCard(t, pool, testJobCardNo("JC-BLK", 1), 10)
		var dependents []int64
		for n := 2; n <= 5; n++ {
			dependents = append(dependents, createTestJobCard(t, pool, testJobCardNo("JC-BLK", n), 10))
		}

		var edges []int64
		for _, dep := range dependents {
			edges = append(edges, createTestEdge(t, pool, prereq, dep))
		}

		// pre-resolve one edge; its resolved_at must survive the bulk call
		earlier := timeutil.Now().Add(-time.Hour)
		resolved, err := repo.MarkResolved(ctx, edges[0], earlier)
		require.NoError(t, err)
		require.True(t, resolved)

		any, err := repo.MarkAllResolvedForPrerequisite(ctx, prereq, timeutil.Now())
		require.NoError(t, err)
		assert.True(t, any)

		var unresolved int
		err = pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM job_card_dependencies
			WHERE prerequisite_job_card_id = $1 AND is_resolved = FALSE
		`, prereq).Scan(&unresolved)
		require.NoError(t, err)
		assert.Zero(t, unresolved)

		var preResolvedAt, laterResolvedAt int64
		err = pool.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM resolved_at)::bigint FROM job_card_dependencies WHERE id = $1", edges[0]).Scan(&preResolvedAt)
		require.NoError(t, err)
		err = pool.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM resolved_at)::bigint FROM job_card_dependencies WHERE id = $1", edges[1]).Scan(&laterResolvedAt)
		require.NoError(t, err)
		assert.Less(t, preResolvedAt, laterResolvedAt, "bulk resolve must not rewrite an already-resolved edge")

		// a second bulk call finds nothing left to resolve
		any, err = repo.MarkAllResolvedForPrerequisite(ctx, prereq, timeutil.Now())
		require.NoError(t, err)
		assert.False(t, any)
	})
}
