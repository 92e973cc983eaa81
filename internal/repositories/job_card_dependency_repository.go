package repositories

import (
	"context"
	"fmt"
	"time"

	"mfg-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMaxChainDepth bounds the cycle-check traversal. Chains deeper
// than this are not extended, so a cycle past the cap can go undetected.
const DefaultMaxChainDepth = 10

type JobCardDependencyRepository struct {
	DB            *pgxpool.Pool
	maxChainDepth int
}

func NewJobCardDependencyRepository(db *pgxpool.Pool) *JobCardDependencyRepository {
	return &JobCardDependencyRepository{DB: db, maxChainDepth: DefaultMaxChainDepth}
}

// SetMaxChainDepth overrides the traversal depth bound (from config).
func (r *JobCardDependencyRepository) SetMaxChainDepth(depth int) {
	if depth > 0 {
		r.maxChainDepth = depth
	}
}

func (r *JobCardDependencyRepository) Create(ctx context.Context, req *models.CreateJobCardDependencyRequest) (*models.JobCardDependency, error) {
	query := `
		INSERT INTO job_card_dependencies
			(dependent_job_card_id, dependent_job_card_no, prerequisite_job_card_id, prerequisite_job_card_no, dependency_type, lag_time_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	dep := &models.JobCardDependency{
		DependentJobCardID:    req.DependentJobCardID,
		DependentJobCardNo:    req.DependentJobCardNo,
		PrerequisiteJobCardID: req.PrerequisiteJobCardID,
		PrerequisiteJobCardNo: req.PrerequisiteJobCardNo,
		DependencyType:        req.DependencyType,
		LagTimeMinutes:        req.LagTimeMinutes,
	}

	err := r.DB.QueryRow(ctx, query,
		req.DependentJobCardID,
		req.DependentJobCardNo,
		req.PrerequisiteJobCardID,
		req.PrerequisiteJobCardNo,
		req.DependencyType,
		req.LagTimeMinutes,
	).Scan(&dep.ID, &dep.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}

	return dep, nil
}

func (r *JobCardDependencyRepository) GetByDependent(ctx context.Context, dependentJobCardID int64) ([]*models.JobCardDependency, error) {
	query := `
		SELECT id, dependent_job_card_id, dependent_job_card_no,
		       prerequisite_job_card_id, prerequisite_job_card_no,
		       dependency_type, is_resolved, resolved_at, lag_time_minutes, created_at
		FROM job_card_dependencies
		WHERE dependent_job_card_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.Query(ctx, query, dependentJobCardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []*models.JobCardDependency
	for rows.Next() {
		dep := &models.JobCardDependency{}
		err := rows.Scan(
			&dep.ID,
			&dep.DependentJobCardID,
			&dep.DependentJobCardNo,
			&dep.PrerequisiteJobCardID,
			&dep.PrerequisiteJobCardNo,
			&dep.DependencyType,
			&dep.IsResolved,
			&dep.ResolvedAt,
			&dep.LagTimeMinutes,
			&dep.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}

	return deps, rows.Err()
}

func (r *JobCardDependencyRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.DB.Exec(ctx, "DELETE FROM job_card_dependencies WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// WouldCreateCycle reports whether inserting the edge prerequisite → dependent
// would close a cycle in the existing dependency graph. The edge closes a
// cycle exactly when the proposed prerequisite already depends, directly or
// transitively, on the proposed dependent; the check walks outward from the
// prerequisite along existing prerequisite chains looking for the dependent.
//
// The walk is bounded by the configured max chain depth, so a cycle that only
// closes past the cap is not detected.
func (r *JobCardDependencyRepository) WouldCreateCycle(ctx context.Context, dependentJobCardID, prerequisiteJobCardID int64) (bool, error) {
	return detectCycle(ctx, r.fetchPrerequisites, dependentJobCardID, prerequisiteJobCardID, r.maxChainDepth)
}

// fetchPrerequisites returns the prerequisite job card ids for a batch of
// dependents: one query per traversal level.
func (r *JobCardDependencyRepository) fetchPrerequisites(ctx context.Context, dependentIDs []int64) ([]int64, error) {
	query := `
		SELECT DISTINCT prerequisite_job_card_id
		FROM job_card_dependencies
		WHERE dependent_job_card_id = ANY($1)
	`

	rows, err := r.DB.Query(ctx, query, dependentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// prerequisiteFetcher resolves one traversal level: the prerequisites of a
// batch of dependents.
type prerequisiteFetcher func(ctx context.Context, dependentIDs []int64) ([]int64, error)

// detectCycle is the traversal core behind WouldCreateCycle: breadth-first
// reachability from prerequisiteID over "depends on" edges, level by level,
// up to maxDepth levels, stopping as soon as dependentID is reached. A
// self-edge (dependentID == prerequisiteID) is a cycle.
func detectCycle(ctx context.Context, fetch prerequisiteFetcher, dependentID, prerequisiteID int64, maxDepth int) (bool, error) {
	if dependentID == prerequisiteID {
		return true, nil
	}

	visited := map[int64]bool{prerequisiteID: true}
	frontier := []int64{prerequisiteID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		prereqs, err := fetch(ctx, frontier)
		if err != nil {
			return false, fmt.Errorf("failed to fetch prerequisite level: %w", err)
		}

		next := frontier[:0:0]
		for _, id := range prereqs {
			if id == dependentID {
				return true, nil
			}
			if !visited[id] {
				visited[id] = true
				next = append(next, id)
			}
		}
		frontier = next
	}

	return false, nil
}

// MarkResolved resolves a single dependency edge. Returns false when the id
// does not exist or the edge is already resolved (resolved_at is preserved).
func (r *JobCardDependencyRepository) MarkResolved(ctx context.Context, id int64, resolvedAt time.Time) (bool, error) {
	query := `
		UPDATE job_card_dependencies
		SET is_resolved = TRUE, resolved_at = $2
		WHERE id = $1 AND is_resolved = FALSE
	`

	tag, err := r.DB.Exec(ctx, query, id, resolvedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllResolvedForPrerequisite bulk-resolves every unresolved edge whose
// prerequisite is the given job card. Returns whether any row was affected.
func (r *JobCardDependencyRepository) MarkAllResolvedForPrerequisite(ctx context.Context, prerequisiteJobCardID int64, resolvedAt time.Time) (bool, error) {
	query := `
		UPDATE job_card_dependencies
		SET is_resolved = TRUE, resolved_at = $2
		WHERE prerequisite_job_card_id = $1 AND is_resolved = FALSE
	`

	tag, err := r.DB.Exec(ctx, query, prerequisiteJobCardID, resolvedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// HasUnresolvedDependencies reports whether the job card is still gated by at
// least one unresolved dependency edge.
func (r *JobCardDependencyRepository) HasUnresolvedDependencies(ctx context.Context, jobCardID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM job_card_dependencies
			WHERE dependent_job_card_id = $1 AND is_resolved = FALSE
		)
	`

	var exists bool
	if err := r.DB.QueryRow(ctx, query, jobCardID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
