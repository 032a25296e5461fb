// Package dto provides data transfer objects for offline registry HTTP handling.
package dto

import (
	"time"

	offlineUseCase "github.com/eduvault/eduvault/internal/offline/usecase"
)

// OfflineResourceResponse is one offline record with its derived status.
type OfflineResourceResponse struct {
	ResourceID     string    `json:"resource_id"`
	Status         string    `json:"status"`
	DownloadedAt   time.Time `json:"downloaded_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// OfflineResourceListResponse is the list envelope for a principal's records.
type OfflineResourceListResponse struct {
	OfflineResources []OfflineResourceResponse `json:"offline_resources"`
}

// NewOfflineResourceResponse converts a record status to its response form.
func NewOfflineResourceResponse(status *offlineUseCase.RecordStatus) OfflineResourceResponse {
	return OfflineResourceResponse{
		ResourceID:     status.Record.ResourceID.String(),
		Status:         string(status.Status),
		DownloadedAt:   status.Record.DownloadedAt,
		LastAccessedAt: status.Record.LastAccessedAt,
		ExpiresAt:      status.ExpiresAt,
	}
}

// NewOfflineResourceListResponse converts a slice of record statuses.
func NewOfflineResourceListResponse(statuses []*offlineUseCase.RecordStatus) OfflineResourceListResponse {
	resources := make([]OfflineResourceResponse, 0, len(statuses))
	for _, status := range statuses {
		resources = append(resources, NewOfflineResourceResponse(status))
	}
	return OfflineResourceListResponse{OfflineResources: resources}
}
