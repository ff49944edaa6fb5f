package models

import "time"

// SyncRun is the audit row for one reconciliation pass against Shopify.
// The newest finished row is the panel's "last synced at" marker; the mirror
// may drift from the remote platform between two rows, which is the accepted
// inconsistency window.
type SyncRun struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Deleted    int        `gorm:"default:0" json:"deleted"`
	Upserted   int        `gorm:"default:0" json:"upserted"`
	Error      string     `gorm:"type:varchar(500);default:''" json:"error"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the SyncRun model
func (SyncRun) TableName() string {
	return "sync_runs"
}

// Succeeded reports whether the pass completed without aborting.
func (s *SyncRun) Succeeded() bool {
	return s.FinishedAt != nil && s.Error == ""
}
