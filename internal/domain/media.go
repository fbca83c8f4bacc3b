package domain

import "time"

// UploadedArtifact describes one derivative stored in object storage.
// It persists independently of the pipeline outcome unless rolled back.
type UploadedArtifact struct {
	Label       string
	URL         string
	StoragePath string
	ContentType string
}

// MediaAsset is the durable aggregate registered once per successful
// run. Files are ordered by the primary-ordering rule: width
// descending, native before WebP, so URL always equals Files[0].URL.
type MediaAsset struct {
	ID        int64
	Name      string
	URL       string
	MediaType string
	Files     []UploadedArtifact
	CreatedAt time.Time
}

// PipelineStage labels the orchestrator's state machine for logging.
type PipelineStage string

const (
	StageResolving   PipelineStage = "resolving"
	StageEncoding    PipelineStage = "encoding"
	StageUploading   PipelineStage = "uploading"
	StageRollingBack PipelineStage = "rolling_back"
	StageRegistering PipelineStage = "registering"
)

const (
	// DefaultCollection is the storage prefix derivatives land under.
	DefaultCollection = "medias"

	DefaultMaxUploadSize = 32 << 20
)

const EventMediaCreated = "media.created"

// MediaCreatedEvent is published to the broker after registration.
type MediaCreatedEvent struct {
	Event     string    `json:"event"`
	MediaID   int64     `json:"media_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	FileCount int       `json:"file_count"`
	CreatedAt time.Time `json:"created_at"`
}
