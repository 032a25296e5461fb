// Package domain defines entitlement entities. Entitlements are owned by the
// surrounding LMS enrollment flows; the offline access subsystem only consumes
// the yes/no answer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement grants a principal access to either one specific resource or to
// every resource of a course. Exactly one of ResourceID and CourseID is set.
type Entitlement struct {
	ID          uuid.UUID
	PrincipalID string
	ResourceID  *uuid.UUID
	CourseID    *uuid.UUID
	CreatedAt   time.Time
}
