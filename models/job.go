package models

// HarvestRequest is the payload for POST /api/v1/harvest.
type HarvestRequest struct {
	// Letters restricts the crawl to these index page letters.
	// Empty means the full a..z range.
	Letters []string `json:"letters,omitempty"`

	// Concurrency caps parallel page fetches for this job.
	// 0 means the server default.
	Concurrency int `json:"concurrency,omitempty" binding:"omitempty,min=1,max=64"`
}

// HarvestResponse is the immediate response for POST /api/v1/harvest.
type HarvestResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HarvestStatusResponse is the response for GET /api/v1/harvest/:id.
type HarvestStatusResponse struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Count     int             `json:"count"`
	ElapsedMs int64           `json:"elapsed_ms"`
	Records   []AirportRecord `json:"records,omitempty"`
	Error     *ErrorDetail    `json:"error,omitempty"`
}

// HarvestJob tracks an in-progress harvest operation.
type HarvestJob struct {
	ID        string
	Status    string // "processing", "completed", "failed"
	Count     int
	ElapsedMs int64
	Records   []AirportRecord
	Error     *ErrorDetail
	CreatedAt int64 // unix timestamp
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
