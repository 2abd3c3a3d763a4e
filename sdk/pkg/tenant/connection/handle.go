package connection

import (
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

// Handle is a borrowed reference to one tenant's live database pool.
// Handlers use DB for the duration of a request and never close it;
// the cache owns the pool lifecycle.
type Handle struct {
	DB        *gorm.DB
	TenantID  string
	CreatedAt time.Time

	lastValidated atomic.Int64 // unix nanos of the last successful health check
}

// LastValidated reports when the pool last passed a health check.
func (h *Handle) LastValidated() time.Time {
	return time.Unix(0, h.lastValidated.Load())
}

func (h *Handle) markValidated(t time.Time) {
	h.lastValidated.Store(t.UnixNano())
}
