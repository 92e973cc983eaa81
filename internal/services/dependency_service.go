package services

import (
	"context"
	"errors"
	"fmt"

	"mfg-backend/internal/metrics"
	"mfg-backend/internal/models"
	"mfg-backend/internal/repositories"
	"mfg-backend/internal/timeutil"
)

// ErrWouldCreateCycle is returned when a proposed dependency edge would close
// a cycle in the job-card dependency graph.
var ErrWouldCreateCycle = errors.New("dependency would create a cycle")

type DependencyService struct {
	DependencyRepo *repositories.JobCardDependencyRepository
	JobCardRepo    *repositories.JobCardRepository
}

func NewDependencyService(
	dependencyRepo *repositories.JobCardDependencyRepository,
	jobCardRepo *repositories.JobCardRepository,
) *DependencyService {
	return &DependencyService{
		DependencyRepo: dependencyRepo,
		JobCardRepo:    jobCardRepo,
	}
}

// AddDependency validates the proposed edge against the existing graph and
// inserts it.
//
// The cycle check and the insert are separate round-trips with no serializing
// lock between them: two concurrent inserts can each pass the check against a
// graph that does not yet contain the other's edge and jointly close a cycle.
// The check is best-effort.
func (s *DependencyService) AddDependency(ctx context.Context, req *models.CreateJobCardDependencyRequest) (*models.JobCardDependency, error) {
	cycle, err := s.DependencyRepo.WouldCreateCycle(ctx, req.DependentJobCardID, req.PrerequisiteJobCardID)
	if err != nil {
		metrics.DependencyCycleChecks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cycle check failed: %w", err)
	}
	if cycle {
		metrics.DependencyCycleChecks.WithLabelValues("cycle").Inc()
		return nil, ErrWouldCreateCycle
	}
	metrics.DependencyCycleChecks.WithLabelValues("ok").Inc()

	return s.DependencyRepo.Create(ctx, req)
}

// RemoveDependency deletes an edge. Returns false when the id is unknown.
func (s *DependencyService) RemoveDependency(ctx context.Context, id int64) (bool, error) {
	return s.DependencyRepo.Delete(ctx, id)
}

// ResolveDependency marks a single edge resolved, stamping plant time.
func (s *DependencyService) ResolveDependency(ctx context.Context, id int64) (bool, error) {
	resolved, err := s.DependencyRepo.MarkResolved(ctx, id, timeutil.Now())
	if err != nil {
		return false, err
	}
	if resolved {
		metrics.DependenciesResolved.Inc()
	}
	return resolved, nil
}

// ResolveForPrerequisite bulk-resolves every open edge unblocked by the given
// prerequisite job card. Called when a prerequisite finishes.
func (s *DependencyService) ResolveForPrerequisite(ctx context.Context, prerequisiteJobCardID int64) (bool, error) {
	return s.DependencyRepo.MarkAllResolvedForPrerequisite(ctx, prerequisiteJobCardID, timeutil.Now())
}

// StartJobCard gates a job card start on its dependencies: the card moves to
// InProgress only when no unresolved edge names it as dependent.
func (s *DependencyService) StartJobCard(ctx context.Context, jobCardID int64) (bool, error) {
	blocked, err := s.DependencyRepo.HasUnresolvedDependencies(ctx, jobCardID)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, errors.New("job card has unresolved dependencies")
	}

	return s.JobCardRepo.MarkInProgress(ctx, jobCardID, timeutil.Now())
}

// AvailableJobCards lists released job cards with no unresolved dependencies.
func (s *DependencyService) AvailableJobCards(ctx context.Context) ([]*models.JobCard, error) {
	return s.JobCardRepo.ListAvailable(ctx)
}
