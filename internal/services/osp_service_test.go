package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfg-backend/internal/models"
	"mfg-backend/internal/repositories"
)

func TestOSPService_ReceiveLotRejectsNegativeQuantities(t *testing.T) {
	svc := NewOSPService(repositories.NewOSPTrackingRepository(nil))

	_, err := svc.ReceiveLot(context.Background(), &models.ReceiveOSPRequest{
		OSPID:       1,
		ReceivedQty: -1,
	})
	require.Error(t, err)

	_, err = svc.ReceiveLot(context.Background(), &models.ReceiveOSPRequest{
		OSPID:       1,
		RejectedQty: -5,
	})
	require.Error(t, err)
}

func TestOSPService_SendValidation(t *testing.T) {
	svc := NewOSPService(repositories.NewOSPTrackingRepository(nil))

	_, err := svc.SendToVendor(context.Background(), &models.CreateOSPTrackingRequest{
		JobCardID: 1,
		VendorID:  7,
		Quantity:  0,
	})
	require.Error(t, err)

	_, err = svc.SendBatchToVendor(context.Background(), nil)
	require.Error(t, err)

	_, err = svc.SendBatchToVendor(context.Background(), []*models.CreateOSPTrackingRequest{
		{JobCardID: 1, VendorID: 7, Quantity: 10},
		{JobCardID: 2, VendorID: 7, Quantity: -3},
	})
	require.Error(t, err)
}

func TestOSPService_ActiveStatusEmptyBatch(t *testing.T) {
	svc := NewOSPService(repositories.NewOSPTrackingRepository(nil))

	statuses, err := svc.ActiveStatusByJobCards(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
