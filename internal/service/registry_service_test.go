package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agriverify/internal/domain"
	"agriverify/internal/service"
	"agriverify/mocks"
)

func TestRegistryService_RefreshSwapsSnapshot(t *testing.T) {
	repo := new(mocks.MockFarmerRepo)
	svc := service.NewRegistryService(repo)

	// Before any refresh the snapshot is empty but usable.
	assert.Equal(t, 0, svc.Snapshot().Size())

	repo.On("ListAll", mock.Anything).Return([]domain.Farmer{
		{ID: "F001", Name: "Rajesh Patil", AccountNumber: "12345678901234"},
		{ID: "F002", Name: "Sunita Devi", Aadhaar: "999988887777"},
	}, nil).Once()

	count, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	snap := svc.Snapshot()
	assert.Equal(t, 2, snap.Size())
	farmer, ok := snap.ByAccount("12345678901234")
	require.True(t, ok)
	assert.Equal(t, "F001", farmer.ID)
}

func TestRegistryService_RefreshErrorKeepsOldSnapshot(t *testing.T) {
	repo := new(mocks.MockFarmerRepo)
	svc := service.NewRegistryService(repo)

	repo.On("ListAll", mock.Anything).Return([]domain.Farmer{
		{ID: "F001", Name: "Rajesh Patil"},
	}, nil).Once()
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	repo.On("ListAll", mock.Anything).Return(nil, errors.New("db gone")).Once()
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	// The previous snapshot still serves.
	assert.Equal(t, 1, svc.Snapshot().Size())
}

func TestRegistryRefresher_StopsOnContextCancel(t *testing.T) {
	repo := new(mocks.MockFarmerRepo)
	repo.On("ListAll", mock.Anything).Return([]domain.Farmer{}, nil).Maybe()
	svc := service.NewRegistryService(repo)

	refresher := service.NewRegistryRefresher(svc, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after context cancel")
	}
}
