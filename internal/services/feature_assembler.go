package services

import (
	"fmt"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

// AssemblerInput is the flat raw material for one feature vector. Callers
// that lack an attribute leave it at its zero value; the assembler never
// produces a null or missing field.
type AssemblerInput struct {
	Likes             float64
	Comments          float64
	Shares            float64
	Duration          float64
	HashtagCount      float64
	CaptionLength     float64
	HoursSincePublish float64
	UploadHour        float64
	ContentType       string
	AudioType         string
}

// FeatureAssembler produces the fixed-schema vector consumed by the
// classifier. The same instance serves the bulk loader and the single
// prediction path, so the field set and order can never drift between them.
type FeatureAssembler interface {
	Assemble(in AssemblerInput) *models.FeatureVector
	Schema() []string
}

type featureAssembler struct {
	contentCategories []string
	audioCategories   []string
}

func NewFeatureAssembler(classifier ContentClassifier) FeatureAssembler {
	return &featureAssembler{
		contentCategories: classifier.Categories(),
		audioCategories:   AudioCategories(),
	}
}

// Assemble builds the vector: raw passthroughs, one one-hot field per content
// category, one per audio category, then one likes-interaction per content
// category. Every universe member gets its field even when zero.
func (a *featureAssembler) Assemble(in AssemblerInput) *models.FeatureVector {
	v := models.NewFeatureVector()

	v.Set("likes", in.Likes)
	v.Set("comments", in.Comments)
	v.Set("shares", in.Shares)
	v.Set("duration", in.Duration)
	v.Set("hashtag_count", in.HashtagCount)
	v.Set("caption_length", in.CaptionLength)
	v.Set("hours_since_publish", in.HoursSincePublish)
	v.Set("hour_of_day", in.UploadHour)

	for _, cat := range a.contentCategories {
		v.Set(fmt.Sprintf("Category_%s", cat), indicator(in.ContentType == cat))
	}

	for _, cat := range a.audioCategories {
		v.Set(fmt.Sprintf("Audio_%s", cat), indicator(in.AudioType == cat))
	}

	for _, cat := range a.contentCategories {
		value := 0.0
		if in.ContentType == cat {
			value = in.Likes
		}
		v.Set(fmt.Sprintf("Interaction_%s_Likes", cat), value)
	}

	return v
}

// Schema returns the field names in output order without assembling a vector.
func (a *featureAssembler) Schema() []string {
	return a.Assemble(AssemblerInput{}).Names()
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
