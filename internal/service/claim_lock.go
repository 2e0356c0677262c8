package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// LocalClaimLocker implements ports.ClaimLocker for a single process.
type LocalClaimLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*claimSlot
	wait  time.Duration
}

type claimSlot struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLocalClaimLocker creates a per-claim lock that waits at most wait.
func NewLocalClaimLocker(wait time.Duration) *LocalClaimLocker {
	return &LocalClaimLocker{
		locks: make(map[uuid.UUID]*claimSlot),
		wait:  wait,
	}
}

// Lock blocks until the claim is free, the wait timeout passes or ctx ends.
func (l *LocalClaimLocker) Lock(ctx context.Context, depositID uuid.UUID) (func(), error) {
	slot := l.acquireSlot(depositID)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	if err := slot.sem.Acquire(waitCtx, 1); err != nil {
		l.releaseSlot(depositID, slot)
		return nil, fmt.Errorf("acquire claim lock %s: %w", depositID, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			slot.sem.Release(1)
			l.releaseSlot(depositID, slot)
		})
	}, nil
}

func (l *LocalClaimLocker) acquireSlot(id uuid.UUID) *claimSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.locks[id]
	if !ok {
		slot = &claimSlot{sem: semaphore.NewWeighted(1)}
		l.locks[id] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalClaimLocker) releaseSlot(id uuid.UUID, slot *claimSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.locks, id)
	}
}
