package janitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/scottnuma/student-worksessions/types"
)

// store is the slice of the db layer the janitor touches.
type store interface {
	PurgeExpiredAuthSessions(now time.Time) (int64, error)
	RollUpBookingStats(date time.Time) error
}

// Janitor performs periodic database maintenance: purging expired login
// sessions and keeping the daily booking roll-ups current.
type Janitor struct {
	store store

	mu    sync.Mutex
	stats types.MaintenanceStats
}

func NewJanitor(s store) *Janitor {
	return &Janitor{
		store: s,
		stats: types.MaintenanceStats{
			StartTime: time.Now(),
		},
	}
}

func (j *Janitor) GetStats() types.MaintenanceStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

// Run performs one maintenance pass.
func (j *Janitor) Run() error {
	now := time.Now()

	purged, err := j.store.PurgeExpiredAuthSessions(now)
	if err != nil {
		j.recordError(fmt.Errorf("purging auth sessions: %v", err))
		return err
	}
	if purged > 0 {
		log.Printf("Purged %d expired auth sessions", purged)
	}

	// Roll up yesterday (final numbers) and today (running numbers).
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		if err := j.store.RollUpBookingStats(day); err != nil {
			j.recordError(fmt.Errorf("rolling up booking stats: %v", err))
			return err
		}
	}

	j.mu.Lock()
	j.stats.LastRun = now
	j.stats.RunsCompleted++
	j.stats.AuthSessionsPurged += purged
	j.stats.LastError = ""
	j.mu.Unlock()
	return nil
}

func (j *Janitor) recordError(err error) {
	log.Printf("Maintenance error: %v", err)
	j.mu.Lock()
	j.stats.LastError = err.Error()
	j.mu.Unlock()
}
