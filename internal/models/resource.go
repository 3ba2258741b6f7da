package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource types. File-backed types (slide, recording, pdf) are stored in S3
// and served through presigned URLs; link and checklist carry a plain URL.
const (
	ResourceTypeSlide     = "slide"
	ResourceTypeRecording = "recording"
	ResourceTypePDF       = "pdf"
	ResourceTypeChecklist = "checklist"
	ResourceTypeLink      = "link"
)

// FileBackedResource reports whether the resource type is served from the
// object store.
func FileBackedResource(t string) bool {
	return t == ResourceTypeSlide || t == ResourceTypeRecording || t == ResourceTypePDF
}

// Resource is one gated asset tied to an offering. ExpiresAt, when set,
// narrows the grant-level expiry for this asset only.
type Resource struct {
	ID        uuid.UUID  `json:"id"`
	Offering  string     `json:"offering"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	URL       string     `json:"url,omitempty"`
	ObjectKey string     `json:"object_key,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
}
