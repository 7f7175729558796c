package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReplicate_MovesBatch(t *testing.T) {
	queue := &fakeSyncQueueRepo{moved: 2}
	locker := &fakeLocker{}
	svc := NewSyncService(queue, locker, time.Minute, zap.NewNop())

	result, err := svc.Replicate(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Moved)
	assert.False(t, result.Skipped)
	assert.Equal(t, []int{10}, queue.batchSizes)
	assert.Equal(t, []string{"sync"}, locker.acquired)
	assert.Equal(t, 1, locker.released)
}

func TestReplicate_DefaultBatchSize(t *testing.T) {
	queue := &fakeSyncQueueRepo{}
	svc := NewSyncService(queue, &fakeLocker{}, time.Minute, zap.NewNop())

	_, err := svc.Replicate(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultSyncBatchSize}, queue.batchSizes)
}

func TestReplicate_SkipsWhenLeaseHeld(t *testing.T) {
	queue := &fakeSyncQueueRepo{moved: 5}
	svc := NewSyncService(queue, &fakeLocker{held: true}, time.Minute, zap.NewNop())

	result, err := svc.Replicate(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Moved)
	assert.Empty(t, queue.batchSizes, "no batch must be attempted without the lease")
}

func TestReplicate_ReleasesLeaseOnFailure(t *testing.T) {
	queue := &fakeSyncQueueRepo{moveErr: errBoom}
	locker := &fakeLocker{}
	svc := NewSyncService(queue, locker, time.Minute, zap.NewNop())

	_, err := svc.Replicate(context.Background(), 10)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, locker.released)
}
