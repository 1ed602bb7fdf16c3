package models

import (
	"time"
)

// VideoRecord is one scraped TikTok video as stored in the backing store.
// PublishedAt keeps the raw scraped timestamp string; parsing happens when the
// analysis snapshot is built, so a bad timestamp drops the row from the
// enriched view without losing it from the store.
type VideoRecord struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Author        string    `gorm:"type:varchar(255);index" json:"author"`
	Caption       string    `gorm:"type:text" json:"caption"`
	PlayCount     int64     `gorm:"default:0" json:"play_count"`
	DiggCount     int64     `gorm:"default:0" json:"digg_count"`
	CommentCount  int64     `gorm:"default:0" json:"comment_count"`
	ShareCount    int64     `gorm:"default:0" json:"share_count"`
	Duration      float64   `gorm:"default:0" json:"duration"`
	MusicName     string    `gorm:"type:varchar(255)" json:"music_name"`
	MusicOriginal bool      `gorm:"default:false" json:"music_original"`
	PublishedAt   string    `gorm:"type:varchar(64)" json:"published_at"`
	WebVideoURL   string    `gorm:"type:varchar(512)" json:"web_video_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// DerivedFeatures are recomputed from the source attributes on every snapshot
// build, never stored.
type DerivedFeatures struct {
	UploadHour        int     `json:"upload_hour"`
	UploadDay         string  `json:"upload_day"`
	IsWeekend         bool    `json:"is_weekend"`
	HoursSincePublish float64 `json:"hours_since_publish"`
	CaptionLength     int     `json:"caption_length"`
	HashtagCount      int     `json:"hashtag_count"`
	ContentType       string  `json:"content_type"`
	AudioType         string  `json:"audio_type"`
	EngagementRate    float64 `json:"engagement_rate"`
}

type EnrichedVideo struct {
	VideoRecord
	PublishTime time.Time       `json:"publish_time"`
	Derived     DerivedFeatures `json:"derived"`
}

// ManualEntry is the request body for appending one video through the form.
type ManualEntry struct {
	Author        string  `json:"author"`
	Caption       string  `json:"caption" binding:"required"`
	PlayCount     int64   `json:"play_count" binding:"min=0"`
	DiggCount     int64   `json:"digg_count" binding:"min=0"`
	CommentCount  int64   `json:"comment_count" binding:"min=0"`
	ShareCount    int64   `json:"share_count" binding:"min=0"`
	Duration      float64 `json:"duration" binding:"required,gt=0"`
	MusicName     string  `json:"music_name"`
	MusicOriginal bool    `json:"music_original"`
	PublishedAt   string  `json:"published_at" binding:"required"`
	WebVideoURL   string  `json:"web_video_url"`
}
