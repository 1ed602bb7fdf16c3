package services

import (
	"strings"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

// The deployed classifier was fit on a 22-column schema that predates the
// current taxonomy. This file is the versioned compatibility layer: it folds
// the expanded category universe down to the categories the model knows and
// rebuilds the exact column set, in the exact order, it was trained on.
// Changing anything here without retraining the model produces silently wrong
// predictions, hence the version tag travelling with every request.

const LegacySchemaVersion = "v1-22col"

const (
	legacyContentOther  = "Lainnya"
	legacyAudioOriginal = "Audio Original"
	legacyAudioPopular  = "Audio Populer"
	legacyAudioOther    = "Audio Lainnya"
)

// legacyContentMap folds new content categories to the four trained ones.
// Educational folds into Tutorial (same treatment as in the training data);
// every category the old model never saw folds into Lainnya.
var legacyContentMap = map[string]string{
	"OOTD":        "OOTD",
	"Tutorial":    "Tutorial",
	"Educational": "Tutorial",
	"Vlog":        "Vlog",
}

var legacyAudioMap = map[string]string{
	AudioOriginal: legacyAudioOriginal,
	AudioPopular:  legacyAudioPopular,
	AudioOther:    legacyAudioOther,
	AudioNone:     legacyAudioOther,
}

func LegacyContentType(category string) string {
	if legacy, ok := legacyContentMap[category]; ok {
		return legacy
	}
	return legacyContentOther
}

func LegacyAudioType(audioCategory string) string {
	if legacy, ok := legacyAudioMap[audioCategory]; ok {
		return legacy
	}
	return legacyAudioOther
}

// AudioTrendStrength estimates how trend-carrying the audio is, on the scale
// the model was trained with.
func AudioTrendStrength(audioCategory string) float64 {
	switch audioCategory {
	case AudioPopular:
		return 0.9
	case AudioOriginal:
		return 0.8
	default:
		return 0.5
	}
}

// HashtagTrendStrength buckets total engagement against corpus percentiles.
func HashtagTrendStrength(engagement, p75, p90 float64) float64 {
	switch {
	case engagement >= p90:
		return 0.9
	case engagement >= p75:
		return 0.7
	default:
		return 0.5
	}
}

var collaborationKeywords = []string{"collab", "ft.", "feat", "with", "bersama"}

// DetectCollaboration flags captions that read like a joint video.
func DetectCollaboration(caption string) bool {
	lower := strings.ToLower(caption)
	for _, keyword := range collaborationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// LegacyInput carries everything the 22-column schema needs. ContentType and
// AudioType are in the current taxonomy; folding happens here.
type LegacyInput struct {
	Likes             float64
	Comments          float64
	Shares            float64
	Duration          float64
	HashtagCount      float64
	HoursSincePublish float64
	CaptionLength     float64
	UploadDayIndex    int // 0=Monday
	UploadHour        int
	ContentType       string
	AudioType         string
	IsCollaboration   bool
	AudioTrend        float64
	HashtagTrend      float64
}

// BuildLegacyFeatures produces the model's 22 named columns in training
// order.
func BuildLegacyFeatures(in LegacyInput) *models.FeatureVector {
	content := LegacyContentType(in.ContentType)
	audio := LegacyAudioType(in.AudioType)

	v := models.NewFeatureVector()
	v.Set("Suka", in.Likes)
	v.Set("Komentar", in.Comments)
	v.Set("Dibagikan", in.Shares)
	v.Set("Durasi_Video", in.Duration)
	v.Set("Jumlah_Hashtag", in.HashtagCount)
	v.Set("Jam_Sejak_Publikasi", in.HoursSincePublish)
	v.Set("Panjang_Caption", in.CaptionLength)
	v.Set("Hari_Upload", float64(in.UploadDayIndex))
	v.Set("Jam_Upload", float64(in.UploadHour))
	v.Set("Kekuatan_Tren_Audio", in.AudioTrend)
	v.Set("Kekuatan_Tren_Hashtag", in.HashtagTrend)
	v.Set("Apakah_Kolaborasi", indicator(in.IsCollaboration))
	v.Set("Format_Konten_Video", 1) // vertical, the only format scraped
	v.Set("Tipe_Konten_Lainnya", indicator(content == legacyContentOther))
	v.Set("Tipe_Konten_OOTD", indicator(content == "OOTD"))
	v.Set("Tipe_Konten_Tutorial", indicator(content == "Tutorial"))
	v.Set("Tipe_Konten_Vlog", indicator(content == "Vlog"))
	v.Set("Tipe_Audio_Audio Lainnya", indicator(audio == legacyAudioOther))
	v.Set("Tipe_Audio_Audio Original", indicator(audio == legacyAudioOriginal))
	v.Set("Tipe_Audio_Audio Populer", indicator(audio == legacyAudioPopular))
	interTutorial := 0.0
	if content == "Tutorial" {
		interTutorial = in.Comments
	}
	v.Set("Interaksi_Tutorial_x_Komentar", interTutorial)
	interOOTD := 0.0
	if content == "OOTD" {
		interOOTD = in.Shares
	}
	v.Set("Interaksi_OOTD_x_Dibagikan", interOOTD)

	return v
}
