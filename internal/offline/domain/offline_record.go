// Package domain defines the server-side registry of offline downloads.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status of an offline record relative to the retention window.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// OfflineRecord tracks one principal's download of one resource. The record
// outlives the retention window: expiry changes the reported status but never
// deletes the record or the client's cached bytes.
type OfflineRecord struct {
	ID             uuid.UUID
	PrincipalID    string
	ResourceID     uuid.UUID
	DownloadedAt   time.Time
	LastAccessedAt time.Time
}

// ExpiresAt returns the end of the retention window for this record.
func (r *OfflineRecord) ExpiresAt(retention time.Duration) time.Time {
	return r.DownloadedAt.Add(retention)
}

// StatusAt derives the record's status at the given instant. Retention counts
// from the download, not from the last access. A record is expired from the
// expiry instant onward, so now == expiresAt already reports expired.
func (r *OfflineRecord) StatusAt(now time.Time, retention time.Duration) Status {
	if !now.Before(r.ExpiresAt(retention)) {
		return StatusExpired
	}
	return StatusActive
}
