package models

// PredictionInput carries the raw attributes of an existing or hypothetical
// video for a single prediction. Every field is optional; absent numeric
// fields default to zero so the assembler always produces a complete vector.
// ContentType and AudioType may be supplied directly, otherwise they are
// classified from Caption / MusicName exactly like the bulk path does.
type PredictionInput struct {
	Caption           *string  `json:"caption"`
	Likes             *int64   `json:"likes"`
	Comments          *int64   `json:"comments"`
	Shares            *int64   `json:"shares"`
	Duration          *float64 `json:"duration"`
	HashtagCount      *int     `json:"hashtag_count"`
	CaptionLength     *int     `json:"caption_length"`
	HoursSincePublish *float64 `json:"hours_since_publish"`
	PublishedAt       *string  `json:"published_at"`
	UploadDay         *string  `json:"upload_day"`
	UploadHour        *int     `json:"upload_hour"`
	MusicName         *string  `json:"music_name"`
	MusicOriginal     *bool    `json:"music_original"`
	ContentType       *string  `json:"content_type"`
	AudioType         *string  `json:"audio_type"`
	IsCollaboration   *bool    `json:"is_collaboration"`
}

type BatchPredictionRequest struct {
	Inputs []PredictionInput `json:"inputs" binding:"required,min=1"`
}
