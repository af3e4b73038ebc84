package types

import "time"

type MaintenanceStats struct {
	LastRun            time.Time `json:"last_run"`
	RunsCompleted      int64     `json:"runs_completed"`
	AuthSessionsPurged int64     `json:"auth_sessions_purged"`
	LastError          string    `json:"last_error,omitempty"`
	StartTime          time.Time `json:"start_time"`
}
