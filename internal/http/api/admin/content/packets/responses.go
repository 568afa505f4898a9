package packets

import "github.com/nbu-it/website-backend/internal/model"

// DeleteResponse confirms a removal by echoing the removed record.
type DeleteResponse struct {
	Success bool         `json:"success"`
	Deleted model.Record `json:"deleted"`
}

type UploadResponse struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}
