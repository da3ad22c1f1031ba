// Package model defines the shared domain types for hotspot analysis.
package model

import "time"

// Incident is a single crime report with its location. X is longitude and Y
// is latitude, matching the source dataset's column names.
type Incident struct {
	ID         int64   `json:"id,omitempty"`
	Category   string  `json:"category"`
	Descript   string  `json:"descript,omitempty"`
	DayOfWeek  string  `json:"day_of_week,omitempty"`
	PdDistrict string  `json:"pd_district,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// RunStatus represents the current state of a clustering run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Params are the clustering parameters for one run. Eps is the neighborhood
// radius in normalized coordinate space; MinPts is the minimum neighborhood
// size (including the point itself) for a core point. SampleSize caps how
// many incidents are drawn before clustering (0 = all) and Seed fixes the
// draw for reproducibility.
type Params struct {
	Eps        float64 `json:"eps"`
	MinPts     int     `json:"min_pts"`
	SampleSize int     `json:"sample_size,omitempty"`
	Seed       int64   `json:"seed,omitempty"`
	District   string  `json:"district,omitempty"`
	Category   string  `json:"category,omitempty"`
}

// Run is a persisted clustering run.
type Run struct {
	ID        string     `json:"id"`
	Params    Params     `json:"params"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ClusterDetail describes one discovered hotspot: member count, geographic
// centroid over the original (unnormalized) coordinates, and the most
// frequent crime category among its members.
type ClusterDetail struct {
	ID          int     `json:"id"`
	Count       int     `json:"count"`
	CenterLng   float64 `json:"center_lng"`
	CenterLat   float64 `json:"center_lat"`
	TopCategory string  `json:"top_category,omitempty"`
}

// RunResult holds the outcome of a clustering run.
type RunResult struct {
	TotalPoints  int             `json:"total_points"`
	ClusterCount int             `json:"cluster_count"`
	NoiseCount   int             `json:"noise_count"`
	NoisePct     float64         `json:"noise_pct"`
	ClusteredPct float64         `json:"clustered_pct"`
	Clusters     []ClusterDetail `json:"clusters,omitempty"`
	DurationMS   int64           `json:"duration_ms,omitempty"`
}
