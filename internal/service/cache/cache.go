package cache

import (
	"time"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

// ResultCache stores sentiment records keyed by symbol with per-entry TTL.
// An expired entry behaves exactly like a missing one. Put overwrites and
// resets the stored-at stamp. Clear("") removes everything.
type ResultCache interface {
	Get(key string) (models.SentimentRecord, bool)
	Put(key string, rec models.SentimentRecord, ttl time.Duration)
	Invalidate(key string)
	Clear(prefix string)
	Stats() Stats
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
