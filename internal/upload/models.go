package upload

// BulkUploadRequest is the request to start a bulk upload job
type BulkUploadRequest struct {
	SessionID string `json:"session_id"`
}

// UploadSummary reports the outcome of a synchronous upload batch
type UploadSummary struct {
	Succeeded int `json:"succeeded"`
	Attempted int `json:"attempted"`
}

// StagedResponse lists the current bulk staging queue
type StagedResponse struct {
	Files     []*StagedFile `json:"files"`
	TotalSize int64         `json:"total_size"`
}

// BulkUploadResponse acknowledges a started bulk upload job
type BulkUploadResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// JobStatusResponse reports bulk upload progress for polling and the
// websocket push endpoint
type JobStatusResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}
