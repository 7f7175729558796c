package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/repository"
	"github.com/sleeping-Zack/iot-platform/internal/store"
)

// DefaultSyncBatchSize matches the batch the original system passed to its
// sync procedure.
const DefaultSyncBatchSize = 500

const syncLeaseName = "sync"

// SyncService is the replicator: it drains the durable sync queue into the
// downstream cloud store, one all-or-nothing batch per run. A failed run
// just leaves entries enqueued for the next one.
type SyncService struct {
	queue    repository.SyncQueueRepo
	locker   store.Locker
	leaseTTL time.Duration
	logger   *zap.Logger
}

func NewSyncService(queue repository.SyncQueueRepo, locker store.Locker, leaseTTL time.Duration, logger *zap.Logger) *SyncService {
	return &SyncService{queue: queue, locker: locker, leaseTTL: leaseTTL, logger: logger}
}

// SyncResult reports one replication run. Skipped means another run held
// the lease and nothing was attempted.
type SyncResult struct {
	Moved   int  `json:"moved"`
	Skipped bool `json:"skipped"`
}

func (s *SyncService) Replicate(ctx context.Context, batchSize int) (*SyncResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultSyncBatchSize
	}

	release, err := s.locker.Acquire(ctx, syncLeaseName, s.leaseTTL)
	if errors.Is(err, store.ErrLeaseHeld) {
		s.logger.Info("sync run skipped, lease held")
		return &SyncResult{Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lease: %w", err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			s.logger.Warn("failed to release sync lease", zap.Error(err))
		}
	}()

	moved, err := s.queue.MoveBatch(ctx, batchSize, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("sync run finished",
		zap.Int("batch_size", batchSize),
		zap.Int("moved", moved),
	)
	return &SyncResult{Moved: moved}, nil
}
