package models

import "time"

type SummaryStats struct {
	TotalVideos       int       `json:"total_videos"`
	TotalViews        int64     `json:"total_views"`
	TotalLikes        int64     `json:"total_likes"`
	TotalComments     int64     `json:"total_comments"`
	TotalShares       int64     `json:"total_shares"`
	AvgViews          float64   `json:"avg_views"`
	AvgLikes          float64   `json:"avg_likes"`
	AvgComments       float64   `json:"avg_comments"`
	AvgShares         float64   `json:"avg_shares"`
	AvgEngagementRate float64   `json:"avg_engagement_rate"`
	AvgDuration       float64   `json:"avg_duration"`
	DateRangeStart    time.Time `json:"date_range_start"`
	DateRangeEnd      time.Time `json:"date_range_end"`
	SnapshotLoadedAt  time.Time `json:"snapshot_loaded_at"`
	DroppedRows       int       `json:"dropped_rows"`
}

// DayPerformance aggregates averages per weekday, Monday first.
type DayPerformance struct {
	Day               string  `json:"day"`
	VideoCount        int     `json:"video_count"`
	AvgViews          float64 `json:"avg_views"`
	AvgLikes          float64 `json:"avg_likes"`
	AvgComments       float64 `json:"avg_comments"`
	AvgShares         float64 `json:"avg_shares"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type HourPerformance struct {
	Hour              int     `json:"hour"`
	VideoCount        int     `json:"video_count"`
	AvgViews          float64 `json:"avg_views"`
	AvgLikes          float64 `json:"avg_likes"`
	AvgComments       float64 `json:"avg_comments"`
	AvgShares         float64 `json:"avg_shares"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// TypePerformance aggregates one content or audio category.
type TypePerformance struct {
	Type              string  `json:"type"`
	VideoCount        int     `json:"video_count"`
	AvgViews          float64 `json:"avg_views"`
	TotalViews        int64   `json:"total_views"`
	AvgLikes          float64 `json:"avg_likes"`
	TotalLikes        int64   `json:"total_likes"`
	AvgComments       float64 `json:"avg_comments"`
	TotalComments     int64   `json:"total_comments"`
	AvgShares         float64 `json:"avg_shares"`
	TotalShares       int64   `json:"total_shares"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type CorrelationMatrix struct {
	Metrics []string    `json:"metrics"`
	Matrix  [][]float64 `json:"matrix"`
}

type PredictionResult struct {
	Label         string             `json:"label"`
	Trending      bool               `json:"trending"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	ContentType   string             `json:"content_type"`
	AudioType     string             `json:"audio_type"`
	SchemaVersion string             `json:"schema_version"`
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
