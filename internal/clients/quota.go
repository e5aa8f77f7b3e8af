package clients

import (
	"context"
	"errors"
	"sync"
)

var ErrQuotaExhausted = errors.New("daily YouTube quota exhausted")

// QuotaTracker keeps count of YouTube API quota units spent today.
type QuotaTracker interface {
	// Reserve books units and reports whether they fit in the daily budget.
	// Units that do not fit are not booked.
	Reserve(ctx context.Context, units int64) (bool, error)
	Used(ctx context.Context) (int64, error)
}

// MemoryQuota tracks quota for a single process. A limit of 0 disables the
// budget check.
type MemoryQuota struct {
	mu    sync.Mutex
	used  int64
	limit int64
}

func NewMemoryQuota(limit int64) *MemoryQuota {
	return &MemoryQuota{limit: limit}
}

func (q *MemoryQuota) Reserve(_ context.Context, units int64) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.limit > 0 && q.used+units > q.limit {
		return false, nil
	}
	q.used += units
	return true, nil
}

func (q *MemoryQuota) Used(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used, nil
}
