package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"mfg-backend/internal/cache"
	"mfg-backend/internal/metrics"
	"mfg-backend/internal/models"
	"mfg-backend/internal/repositories"
	"mfg-backend/internal/timeutil"
)

type OSPService struct {
	OSPRepo *repositories.OSPTrackingRepository
}

func NewOSPService(ospRepo *repositories.OSPTrackingRepository) *OSPService {
	return &OSPService{OSPRepo: ospRepo}
}

// SendToVendor dispatches a lot to a vendor (status Sent).
func (s *OSPService) SendToVendor(ctx context.Context, req *models.CreateOSPTrackingRequest) (*models.OSPTracking, error) {
	if req.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	lot, err := s.OSPRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateOSPCaches(ctx)
	return lot, nil
}

// SendBatchToVendor dispatches several lots in one transaction.
func (s *OSPService) SendBatchToVendor(ctx context.Context, reqs []*models.CreateOSPTrackingRequest) ([]*models.OSPTracking, error) {
	if len(reqs) == 0 {
		return nil, errors.New("empty batch")
	}
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, errors.New("quantity must be positive for job card " + strconv.FormatInt(req.JobCardID, 10))
		}
	}

	lots, err := s.OSPRepo.BulkCreate(ctx, reqs)
	if err != nil {
		return nil, err
	}

	cache.InvalidateOSPCaches(ctx)
	return lots, nil
}

// ReceiveLot books a partial or full receipt against a lot. A receive that is
// a no-op (unknown id, lot already Received) reports Updated=false; callers
// must check it rather than assume success.
func (s *OSPService) ReceiveLot(ctx context.Context, req *models.ReceiveOSPRequest) (*models.OSPReceiveResult, error) {
	if req.ReceivedQty < 0 || req.RejectedQty < 0 {
		return nil, errors.New("received and rejected quantities must be non-negative")
	}
	if req.ActualReturnDate.IsZero() {
		req.ActualReturnDate = timeutil.Now()
	}

	result, err := s.OSPRepo.MarkReceived(ctx, req)
	if err != nil {
		metrics.OSPReceiptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	switch {
	case !result.Updated:
		metrics.OSPReceiptsTotal.WithLabelValues("noop").Inc()
	case result.NewStatus == models.OSPStatusReceived:
		metrics.OSPReceiptsTotal.WithLabelValues("completed").Inc()
	default:
		metrics.OSPReceiptsTotal.WithLabelValues("accumulated").Inc()
	}

	if result.Updated {
		metrics.OSPReceivedPieces.WithLabelValues("good").Add(float64(req.ReceivedQty))
		metrics.OSPReceivedPieces.WithLabelValues("rejected").Add(float64(req.RejectedQty))
		cache.InvalidateOSPCaches(ctx)
	}
	if result.Completed {
		metrics.JobCardsCompleted.Inc()
	}

	return result, nil
}

// ActiveStatusByJobCards is the cached batch lookup of lots still out at
// vendors. Redis misses (or a missing Redis) fall through to the database.
func (s *OSPService) ActiveStatusByJobCards(ctx context.Context, jobCardIDs []int64) (map[int64]string, error) {
	if len(jobCardIDs) == 0 {
		return map[int64]string{}, nil
	}

	key := cache.ActiveStatusKey(jobCardIDs)
	if data, ok := cache.GetCachedActiveStatus(ctx, key); ok {
		statuses := make(map[int64]string)
		if err := json.Unmarshal(data, &statuses); err == nil {
			return statuses, nil
		}
	}

	statuses, err := s.OSPRepo.GetActiveStatusByJobCardIDs(ctx, jobCardIDs)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(statuses); err == nil {
		cache.CacheActiveStatus(ctx, key, data)
	}

	return statuses, nil
}

// OverdueLots lists lots still at vendors past their expected return date.
func (s *OSPService) OverdueLots(ctx context.Context) ([]*models.OSPTracking, error) {
	return s.OSPRepo.ListOverdue(ctx, timeutil.Now())
}
