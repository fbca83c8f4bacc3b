package dto

import "time"

// Envelope is the response contract of the upload endpoint: message is
// empty on success and a short summary on failure.
type Envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

type UploadRequest struct {
	Filename string `validate:"required"`
}

type FileResponse struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Path  string `json:"storage_path"`
}

type MediaResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	MediaType string         `json:"media_type"`
	Files     []FileResponse `json:"files"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListResponse struct {
	Items []MediaResponse `json:"items"`
	Total int             `json:"total"`
}
