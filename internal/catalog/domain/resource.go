// Package domain defines the resource catalog entities consumed by the offline
// access subsystem. The wider LMS owns course and test management; this module
// only needs enough metadata to download, cache, and present a resource.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResourceType classifies a learning asset.
type ResourceType string

// Supported resource types.
const (
	ResourceTypeVideo    ResourceType = "video"
	ResourceTypeAudio    ResourceType = "audio"
	ResourceTypeDocument ResourceType = "document"
)

// Resource is one catalog entry for a protected learning asset.
type Resource struct {
	ID            uuid.UUID
	URL           string
	Type          ResourceType
	Title         string
	FileSizeBytes int64
	CourseID      *uuid.UUID
	ModuleID      *uuid.UUID
	CreatedAt     time.Time
}
