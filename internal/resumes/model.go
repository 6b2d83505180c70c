package resumes

import "time"

// Resume is an uploaded resume file owned by a tenant.
type Resume struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	BusinessUnitID string `json:"businessUnitId,omitempty"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	SizeBytes      int64  `json:"sizeBytes"`
	SHA256         string `json:"sha256"`
	StorageKey     string `json:"storageKey"`
	UploadedBy     string `json:"uploadedBy,omitempty"`

	// ExtractedTextKey points at the cached plain-text extraction of the
	// file, written the first time a screening job processes it.
	ExtractedTextKey string     `json:"extractedTextKey,omitempty"`
	ExtractedAt      *time.Time `json:"extractedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
