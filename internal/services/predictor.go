package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

var ErrModelUnavailable = errors.New("model server unavailable")

// PredictionService talks to the model server that hosts the trained
// classifier. Features travel as named JSON fields so the server can reorder
// columns itself; a positional array could not detect schema drift.
type PredictionService interface {
	Predict(features *models.FeatureVector) (int, float64, []float64, error)
	PredictBatch(batch []*models.FeatureVector) ([]int, [][]float64, error)
	ModelInfo() (map[string]interface{}, error)
	FeatureImportance() ([]models.FeatureImportance, error)
}

type predictionService struct {
	baseURL string
	client  *http.Client
}

func NewPredictionService() PredictionService {
	cfg := config.GlobalConfig
	return &predictionService{
		baseURL: cfg.ModelURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.ModelTimeout) * time.Second,
		},
	}
}

type predictRequest struct {
	SchemaVersion string                  `json:"schema_version"`
	Features      *models.FeatureVector   `json:"features,omitempty"`
	Batch         []*models.FeatureVector `json:"batch,omitempty"`
}

type predictResponse struct {
	Prediction    int       `json:"prediction"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float64 `json:"probabilities"`
}

type predictBatchResponse struct {
	Predictions   []int       `json:"predictions"`
	Probabilities [][]float64 `json:"probabilities"`
}

func (s *predictionService) post(path string, body interface{}, out interface{}) error {
	if s.baseURL == "" {
		return ErrModelUnavailable
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode model request: %w", err)
	}

	resp, err := s.client.Post(s.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model server returned %d: %s", resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode model response: %w", err)
	}
	return nil
}

func (s *predictionService) get(path string, out interface{}) (int, error) {
	if s.baseURL == "" {
		return 0, ErrModelUnavailable
	}

	resp, err := s.client.Get(s.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("model server returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode model response: %w", err)
	}
	return resp.StatusCode, nil
}

func (s *predictionService) Predict(features *models.FeatureVector) (int, float64, []float64, error) {
	var resp predictResponse
	err := s.post("/predict", predictRequest{
		SchemaVersion: LegacySchemaVersion,
		Features:      features,
	}, &resp)
	if err != nil {
		return 0, 0, nil, err
	}
	return resp.Prediction, resp.Confidence, resp.Probabilities, nil
}

func (s *predictionService) PredictBatch(batch []*models.FeatureVector) ([]int, [][]float64, error) {
	var resp predictBatchResponse
	err := s.post("/predict/batch", predictRequest{
		SchemaVersion: LegacySchemaVersion,
		Batch:         batch,
	}, &resp)
	if err != nil {
		return nil, nil, err
	}
	if len(resp.Predictions) != len(batch) {
		return nil, nil, fmt.Errorf("model server returned %d predictions for %d inputs",
			len(resp.Predictions), len(batch))
	}
	return resp.Predictions, resp.Probabilities, nil
}

func (s *predictionService) ModelInfo() (map[string]interface{}, error) {
	var info map[string]interface{}
	if _, err := s.get("/model/info", &info); err != nil {
		return nil, err
	}
	return info, nil
}

// FeatureImportance is best effort: not every classifier exposes it, and a
// 404 from the model server means "not supported", not failure.
func (s *predictionService) FeatureImportance() ([]models.FeatureImportance, error) {
	var importance []models.FeatureImportance
	status, err := s.get("/model/feature-importance", &importance)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return importance, nil
}
