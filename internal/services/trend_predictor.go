package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

var ErrInvalidInput = errors.New("invalid prediction input")

const (
	LabelTrending    = "Trending"
	LabelNotTrending = "Not Trending"
)

// TrendPredictionService is the single entry point for live predictions. It
// shares the classifier and assembler instances with the bulk loader, so a
// prediction built from a record's raw attributes carries field-for-field the
// same features the loader would derive for that record.
type TrendPredictionService interface {
	PredictOne(input models.PredictionInput) (*models.PredictionResult, *models.FeatureVector, error)
	PredictBatch(inputs []models.PredictionInput) ([]models.PredictionResult, error)
	FeatureSchema() []string
}

type trendPredictionService struct {
	content   ContentClassifier
	audio     AudioClassifier
	assembler FeatureAssembler
	analytics AnalyticsService
	oracle    PredictionService
}

func NewTrendPredictionService(
	content ContentClassifier,
	audio AudioClassifier,
	assembler FeatureAssembler,
	analytics AnalyticsService,
	oracle PredictionService,
) TrendPredictionService {
	return &trendPredictionService{
		content:   content,
		audio:     audio,
		assembler: assembler,
		analytics: analytics,
		oracle:    oracle,
	}
}

func (s *trendPredictionService) FeatureSchema() []string {
	return s.assembler.Schema()
}

// resolved carries one input after defaulting and classification.
type resolved struct {
	assembler AssemblerInput
	legacy    LegacyInput
}

func (s *trendPredictionService) resolve(input models.PredictionInput) (*resolved, error) {
	caption := deref(input.Caption, "")

	contentType := ""
	if input.ContentType != nil && s.isKnownCategory(*input.ContentType) {
		contentType = *input.ContentType
	} else {
		contentType = s.content.Classify(caption)
	}

	audioType := ""
	if input.AudioType != nil && isKnownAudioCategory(*input.AudioType) {
		audioType = *input.AudioType
	} else {
		popular := s.popularAudio()
		audioType = s.audio.Classify(deref(input.MusicName, ""), deref(input.MusicOriginal, false), popular)
	}

	hashtagCount := float64(CountHashtags(caption))
	if input.HashtagCount != nil {
		hashtagCount = float64(*input.HashtagCount)
	}
	captionLength := float64(CaptionLength(caption))
	if input.CaptionLength != nil {
		captionLength = float64(*input.CaptionLength)
	}

	// Temporal: an explicit elapsed-hours value wins, then a parseable
	// timestamp, then the zero defaults of a never-published video.
	hoursSince := 0.0
	uploadHour := 0
	uploadDayIndex := 0
	if input.PublishedAt != nil {
		publishTime, err := ParsePublishTime(*input.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: published_at: %v", ErrInvalidInput, err)
		}
		temporal := ExtractTemporal(publishTime, time.Now().UTC())
		hoursSince = temporal.HoursSincePublish
		uploadHour = temporal.Hour
		uploadDayIndex, _ = WeekdayIndex(temporal.Day)
	}
	if input.HoursSincePublish != nil {
		if *input.HoursSincePublish < 0 {
			return nil, fmt.Errorf("%w: hours_since_publish must be non-negative", ErrInvalidInput)
		}
		hoursSince = *input.HoursSincePublish
	}
	if input.UploadHour != nil {
		if *input.UploadHour < 0 || *input.UploadHour > 23 {
			return nil, fmt.Errorf("%w: upload_hour must be 0-23", ErrInvalidInput)
		}
		uploadHour = *input.UploadHour
	}
	if input.UploadDay != nil {
		idx, ok := WeekdayIndex(*input.UploadDay)
		if !ok {
			return nil, fmt.Errorf("%w: upload_day must be a weekday name", ErrInvalidInput)
		}
		uploadDayIndex = idx
	}

	likes := float64(deref(input.Likes, 0))
	comments := float64(deref(input.Comments, 0))
	shares := float64(deref(input.Shares, 0))

	isCollab := DetectCollaboration(caption)
	if input.IsCollaboration != nil {
		isCollab = *input.IsCollaboration
	}

	p75, p90, err := s.analytics.EngagementPercentiles()
	hashtagTrend := 0.5
	if err == nil {
		hashtagTrend = HashtagTrendStrength(likes+comments+shares, p75, p90)
	}

	return &resolved{
		assembler: AssemblerInput{
			Likes:             likes,
			Comments:          comments,
			Shares:            shares,
			Duration:          deref(input.Duration, 0),
			HashtagCount:      hashtagCount,
			CaptionLength:     captionLength,
			HoursSincePublish: hoursSince,
			UploadHour:        float64(uploadHour),
			ContentType:       contentType,
			AudioType:         audioType,
		},
		legacy: LegacyInput{
			Likes:             likes,
			Comments:          comments,
			Shares:            shares,
			Duration:          deref(input.Duration, 0),
			HashtagCount:      hashtagCount,
			HoursSincePublish: hoursSince,
			CaptionLength:     captionLength,
			UploadDayIndex:    uploadDayIndex,
			UploadHour:        uploadHour,
			ContentType:       contentType,
			AudioType:         audioType,
			IsCollaboration:   isCollab,
			AudioTrend:        AudioTrendStrength(audioType),
			HashtagTrend:      hashtagTrend,
		},
	}, nil
}

func (s *trendPredictionService) PredictOne(input models.PredictionInput) (*models.PredictionResult, *models.FeatureVector, error) {
	res, err := s.resolve(input)
	if err != nil {
		return nil, nil, err
	}

	features := s.assembler.Assemble(res.assembler)
	legacy := BuildLegacyFeatures(res.legacy)

	prediction, confidence, probabilities, err := s.oracle.Predict(legacy)
	if err != nil {
		return nil, nil, err
	}

	return buildResult(prediction, confidence, probabilities, res), features, nil
}

func (s *trendPredictionService) PredictBatch(inputs []models.PredictionInput) ([]models.PredictionResult, error) {
	resolvedInputs := make([]*resolved, len(inputs))
	legacyBatch := make([]*models.FeatureVector, len(inputs))
	for i, input := range inputs {
		res, err := s.resolve(input)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		resolvedInputs[i] = res
		legacyBatch[i] = BuildLegacyFeatures(res.legacy)
	}

	predictions, probabilities, err := s.oracle.PredictBatch(legacyBatch)
	if err != nil {
		return nil, err
	}

	results := make([]models.PredictionResult, len(inputs))
	for i := range inputs {
		confidence := 0.0
		var probs []float64
		if i < len(probabilities) {
			probs = probabilities[i]
			if predictions[i] >= 0 && predictions[i] < len(probs) {
				confidence = probs[predictions[i]]
			}
		}
		results[i] = *buildResult(predictions[i], confidence, probs, resolvedInputs[i])
	}
	return results, nil
}

func buildResult(prediction int, confidence float64, probabilities []float64, res *resolved) *models.PredictionResult {
	label := LabelNotTrending
	if prediction == 1 {
		label = LabelTrending
	}

	probs := make(map[string]float64, 2)
	if len(probabilities) >= 2 {
		probs[LabelNotTrending] = probabilities[0]
		probs[LabelTrending] = probabilities[1]
	}

	return &models.PredictionResult{
		Label:         label,
		Trending:      prediction == 1,
		Confidence:    confidence,
		Probabilities: probs,
		ContentType:   res.assembler.ContentType,
		AudioType:     res.assembler.AudioType,
		SchemaVersion: LegacySchemaVersion,
	}
}

func (s *trendPredictionService) isKnownCategory(name string) bool {
	for _, cat := range s.content.Categories() {
		if cat == name {
			return true
		}
	}
	return false
}

func isKnownAudioCategory(name string) bool {
	for _, cat := range AudioCategories() {
		if cat == name {
			return true
		}
	}
	return false
}

// popularAudio fetches the current snapshot's popular set; an unloadable
// corpus just means nothing is popular yet.
func (s *trendPredictionService) popularAudio() PopularAudioSet {
	snap, err := s.analytics.Snapshot()
	if err != nil {
		return PopularAudioSet{}
	}
	return snap.PopularAudio
}

func deref[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
