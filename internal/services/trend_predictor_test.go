package services

import (
	"errors"
	"math"
	"testing"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

// fakeOracle records the vectors it receives and answers with canned output.
type fakeOracle struct {
	lastSingle *models.FeatureVector
	lastBatch  []*models.FeatureVector
	prediction int
	confidence float64
	err        error
}

func (f *fakeOracle) Predict(features *models.FeatureVector) (int, float64, []float64, error) {
	f.lastSingle = features
	if f.err != nil {
		return 0, 0, nil, f.err
	}
	return f.prediction, f.confidence, []float64{1 - f.confidence, f.confidence}, nil
}

func (f *fakeOracle) PredictBatch(batch []*models.FeatureVector) ([]int, [][]float64, error) {
	f.lastBatch = batch
	if f.err != nil {
		return nil, nil, f.err
	}
	preds := make([]int, len(batch))
	probs := make([][]float64, len(batch))
	for i := range batch {
		preds[i] = f.prediction
		probs[i] = []float64{1 - f.confidence, f.confidence}
	}
	return preds, probs, nil
}

func (f *fakeOracle) ModelInfo() (map[string]interface{}, error) {
	return map[string]interface{}{"model_type": "fake"}, nil
}

func (f *fakeOracle) FeatureImportance() ([]models.FeatureImportance, error) {
	return nil, nil
}

func ptr[T any](v T) *T { return &v }

func newTestTrendService(t *testing.T, oracle PredictionService) TrendPredictionService {
	t.Helper()
	classifier := NewContentClassifier(DefaultCategoryDictionary())
	return NewTrendPredictionService(
		classifier,
		NewAudioClassifier(),
		NewFeatureAssembler(classifier),
		newTestAnalytics(t, sampleVideos()),
		oracle,
	)
}

func TestPredictOneClassifiesFromCaption(t *testing.T) {
	oracle := &fakeOracle{prediction: 1, confidence: 0.85}
	service := newTestTrendService(t, oracle)

	result, features, err := service.PredictOne(models.PredictionInput{
		Caption:     ptr("Main Genshin Impact seru #game #genshin"),
		Likes:       ptr(int64(150)),
		PublishedAt: ptr("2024-01-15T14:30:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.ContentType != "Gaming" {
		t.Errorf("ContentType = %q, want Gaming", result.ContentType)
	}
	if result.Label != LabelTrending || !result.Trending {
		t.Errorf("result = %q/%v, want Trending/true", result.Label, result.Trending)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
	if result.Probabilities[LabelTrending] != 0.85 {
		t.Errorf("Probabilities = %v", result.Probabilities)
	}
	if got := result.Probabilities[LabelNotTrending]; math.Abs(got-0.15) > 1e-9 {
		t.Errorf("Probabilities[%s] = %v, want 0.15", LabelNotTrending, got)
	}
	if result.SchemaVersion != LegacySchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", result.SchemaVersion, LegacySchemaVersion)
	}

	// The returned vector is the expanded schema; the oracle got the legacy one.
	if got := features.Get("Interaction_Gaming_Likes"); got != 150 {
		t.Errorf("Interaction_Gaming_Likes = %v, want 150", got)
	}
	if got := features.Get("hashtag_count"); got != 2 {
		t.Errorf("hashtag_count = %v, want 2", got)
	}
	if oracle.lastSingle == nil {
		t.Fatal("oracle never called")
	}
	if got := oracle.lastSingle.Get("Suka"); got != 150 {
		t.Errorf("oracle received Suka = %v, want 150", got)
	}
	// Gaming folds to Lainnya for the trained model.
	if got := oracle.lastSingle.Get("Tipe_Konten_Lainnya"); got != 1 {
		t.Errorf("oracle received Tipe_Konten_Lainnya = %v, want 1", got)
	}
}

func TestPredictOneExplicitTypesWin(t *testing.T) {
	oracle := &fakeOracle{prediction: 0, confidence: 0.7}
	service := newTestTrendService(t, oracle)

	result, _, err := service.PredictOne(models.PredictionInput{
		Caption:     ptr("caption that smells like a vlog routine"),
		ContentType: ptr("Food"),
		AudioType:   ptr(AudioPopular),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ContentType != "Food" {
		t.Errorf("explicit ContentType ignored: got %q", result.ContentType)
	}
	if result.AudioType != AudioPopular {
		t.Errorf("explicit AudioType ignored: got %q", result.AudioType)
	}
	if result.Label != LabelNotTrending || result.Trending {
		t.Errorf("result = %q/%v, want Not Trending/false", result.Label, result.Trending)
	}
}

func TestPredictOneUnknownExplicitTypeReclassified(t *testing.T) {
	oracle := &fakeOracle{prediction: 0, confidence: 0.6}
	service := newTestTrendService(t, oracle)

	result, _, err := service.PredictOne(models.PredictionInput{
		Caption:     ptr("resep masak ayam geprek"),
		ContentType: ptr("NotARealCategory"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ContentType != "Food" {
		t.Errorf("unknown explicit type should fall back to classification, got %q", result.ContentType)
	}
}

func TestPredictOneValidation(t *testing.T) {
	oracle := &fakeOracle{}
	service := newTestTrendService(t, oracle)

	tests := []struct {
		name  string
		input models.PredictionInput
	}{
		{"bad timestamp", models.PredictionInput{PublishedAt: ptr("not-a-date")}},
		{"negative hours", models.PredictionInput{HoursSincePublish: ptr(-1.0)}},
		{"hour too large", models.PredictionInput{UploadHour: ptr(24)}},
		{"negative hour", models.PredictionInput{UploadHour: ptr(-1)}},
		{"misspelled day name", models.PredictionInput{UploadDay: ptr("Mondy")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := service.PredictOne(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPredictOnePropagatesOracleError(t *testing.T) {
	oracle := &fakeOracle{err: ErrModelUnavailable}
	service := newTestTrendService(t, oracle)

	_, _, err := service.PredictOne(models.PredictionInput{Caption: ptr("anything")})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestPredictBatchMatchesSinglePath(t *testing.T) {
	oracle := &fakeOracle{prediction: 1, confidence: 0.9}
	service := newTestTrendService(t, oracle)

	input := models.PredictionInput{
		Caption:   ptr("tutorial belajar golang #dev"),
		Likes:     ptr(int64(42)),
		Comments:  ptr(int64(7)),
		MusicName: ptr("Trending Song"),
	}

	single, _, err := service.PredictOne(input)
	if err != nil {
		t.Fatal(err)
	}
	singleVector := oracle.lastSingle

	batch, err := service.PredictBatch([]models.PredictionInput{input})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 1 {
		t.Fatalf("got %d batch results, want 1", len(batch))
	}

	// Field-for-field, the batch path feeds the oracle the same vector.
	batchVector := oracle.lastBatch[0]
	for _, name := range singleVector.Names() {
		if !batchVector.Has(name) {
			t.Errorf("batch vector missing %s", name)
			continue
		}
		sv := singleVector.Get(name)
		if bv := batchVector.Get(name); sv != bv {
			t.Errorf("%s: single %v vs batch %v", name, sv, bv)
		}
	}

	if batch[0].Label != single.Label || batch[0].ContentType != single.ContentType {
		t.Errorf("batch result %+v differs from single %+v", batch[0], single)
	}
	if batch[0].Confidence != 0.9 {
		t.Errorf("batch confidence = %v, want 0.9", batch[0].Confidence)
	}
}

func TestPredictBatchReportsFailingIndex(t *testing.T) {
	oracle := &fakeOracle{}
	service := newTestTrendService(t, oracle)

	_, err := service.PredictBatch([]models.PredictionInput{
		{Caption: ptr("fine")},
		{PublishedAt: ptr("garbage")},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if oracle.lastBatch != nil {
		t.Error("oracle called despite invalid input in batch")
	}
}

func TestFeatureSchema(t *testing.T) {
	service := newTestTrendService(t, &fakeOracle{})

	schema := service.FeatureSchema()
	if len(schema) == 0 {
		t.Fatal("empty schema")
	}
	if schema[0] != "likes" {
		t.Errorf("schema[0] = %q, want likes", schema[0])
	}
}
