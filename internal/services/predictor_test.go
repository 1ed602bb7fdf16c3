package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

func newTestOracle(t *testing.T, handler http.Handler) PredictionService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{ModelURL: server.URL, ModelTimeout: 5}
	t.Cleanup(func() { config.GlobalConfig = prev })

	return NewPredictionService()
}

func legacyFixture() *models.FeatureVector {
	return BuildLegacyFeatures(LegacyInput{
		Likes: 150, Comments: 12, Shares: 8,
		ContentType: "Tutorial", AudioType: AudioPopular,
	})
}

func TestPredictSendsNamedFeatures(t *testing.T) {
	var received struct {
		SchemaVersion string             `json:"schema_version"`
		Features      map[string]float64 `json:"features"`
	}

	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %q, want /predict", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(predictResponse{
			Prediction: 1, Confidence: 0.85, Probabilities: []float64{0.15, 0.85},
		})
	}))

	prediction, confidence, probs, err := oracle.Predict(legacyFixture())
	if err != nil {
		t.Fatal(err)
	}
	if prediction != 1 || confidence != 0.85 {
		t.Errorf("got (%d, %v), want (1, 0.85)", prediction, confidence)
	}
	if len(probs) != 2 {
		t.Errorf("got %d probabilities, want 2", len(probs))
	}

	if received.SchemaVersion != LegacySchemaVersion {
		t.Errorf("schema_version = %q, want %q", received.SchemaVersion, LegacySchemaVersion)
	}
	// Features cross the wire as named fields, never a bare positional array.
	if received.Features["Suka"] != 150 {
		t.Errorf(`features["Suka"] = %v, want 150`, received.Features["Suka"])
	}
	if _, ok := received.Features["Tipe_Konten_Tutorial"]; !ok {
		t.Error("named one-hot column missing from wire payload")
	}
}

func TestPredictNoModelConfigured(t *testing.T) {
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{ModelURL: "", ModelTimeout: 5}
	t.Cleanup(func() { config.GlobalConfig = prev })

	oracle := NewPredictionService()
	if _, _, _, err := oracle.Predict(legacyFixture()); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
	if _, err := oracle.ModelInfo(); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("ModelInfo error = %v, want ErrModelUnavailable", err)
	}
}

func TestPredictServerUnreachable(t *testing.T) {
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{ModelURL: "http://127.0.0.1:1", ModelTimeout: 1}
	t.Cleanup(func() { config.GlobalConfig = prev })

	oracle := NewPredictionService()
	if _, _, _, err := oracle.Predict(legacyFixture()); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestPredictServerError(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))

	_, _, _, err := oracle.Predict(legacyFixture())
	if err == nil {
		t.Fatal("500 from model server returned nil error")
	}
	if errors.Is(err, ErrModelUnavailable) {
		t.Error("a reachable but failing server is not ErrModelUnavailable")
	}
}

func TestPredictBatch(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/batch" {
			t.Errorf("path = %q, want /predict/batch", r.URL.Path)
		}
		var req struct {
			Batch []map[string]float64 `json:"batch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode batch request: %v", err)
		}
		preds := make([]int, len(req.Batch))
		probs := make([][]float64, len(req.Batch))
		for i := range req.Batch {
			preds[i] = i % 2
			probs[i] = []float64{0.6, 0.4}
		}
		json.NewEncoder(w).Encode(predictBatchResponse{Predictions: preds, Probabilities: probs})
	}))

	batch := []*models.FeatureVector{legacyFixture(), legacyFixture(), legacyFixture()}
	predictions, probabilities, err := oracle.PredictBatch(batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(predictions) != 3 || len(probabilities) != 3 {
		t.Fatalf("got %d predictions, %d probability rows, want 3 each", len(predictions), len(probabilities))
	}
}

func TestPredictBatchLengthMismatch(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictBatchResponse{Predictions: []int{1}})
	}))

	if _, _, err := oracle.PredictBatch([]*models.FeatureVector{legacyFixture(), legacyFixture()}); err == nil {
		t.Error("length mismatch from model server went undetected")
	}
}

func TestModelInfo(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model/info" {
			t.Errorf("path = %q, want /model/info", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"model_type": "RandomForestClassifier", "n_features": 22})
	}))

	info, err := oracle.ModelInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info["model_type"] != "RandomForestClassifier" {
		t.Errorf("model_type = %v", info["model_type"])
	}
}

func TestFeatureImportance(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.FeatureImportance{
			{Feature: "Suka", Importance: 0.31},
			{Feature: "Jam_Sejak_Publikasi", Importance: 0.22},
		})
	}))

	importance, err := oracle.FeatureImportance()
	if err != nil {
		t.Fatal(err)
	}
	if len(importance) != 2 || importance[0].Feature != "Suka" {
		t.Errorf("importance = %+v", importance)
	}
}

func TestFeatureImportanceNotExposed(t *testing.T) {
	oracle := newTestOracle(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	importance, err := oracle.FeatureImportance()
	if err != nil {
		t.Errorf("404 should not be an error, got %v", err)
	}
	if importance != nil {
		t.Errorf("404 should yield nil importance, got %+v", importance)
	}
}
