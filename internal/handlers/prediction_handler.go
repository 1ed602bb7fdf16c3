package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/services"
)

type PredictionHandler struct {
	trend  services.TrendPredictionService
	oracle services.PredictionService
}

func NewPredictionHandler(
	trend services.TrendPredictionService,
	oracle services.PredictionService,
) *PredictionHandler {
	return &PredictionHandler{
		trend:  trend,
		oracle: oracle,
	}
}

// respondPredictionError keeps a failed prediction visibly distinct from a
// "Not Trending" result.
func respondPredictionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	if errors.Is(err, services.ErrModelUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Prediction model is unavailable, set MODEL_URL and ensure the model server is running",
		})
		return
	}
	log.Printf("[Prediction] failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{
		"status":  "error",
		"message": "Prediction failed",
	})
}

func (h *PredictionHandler) PredictSingle(c *gin.Context) {
	var input models.PredictionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	result, features, err := h.trend.PredictOne(input)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"prediction": result,
			"features":   features,
		},
	})
}

func (h *PredictionHandler) PredictBatch(c *gin.Context) {
	var req models.BatchPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	results, err := h.trend.PredictBatch(req.Inputs)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"predictions": results,
			"count":       len(results),
		},
	})
}

func (h *PredictionHandler) GetFeatureSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"schema_version": services.LegacySchemaVersion,
			"fields":         h.trend.FeatureSchema(),
		},
	})
}

func (h *PredictionHandler) GetModelInfo(c *gin.Context) {
	info, err := h.oracle.ModelInfo()
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   info,
	})
}

func (h *PredictionHandler) GetFeatureImportance(c *gin.Context) {
	importance, err := h.oracle.FeatureImportance()
	if err != nil {
		respondPredictionError(c, err)
		return
	}
	if importance == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Model does not expose feature importances",
			"data":    []models.FeatureImportance{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   importance,
	})
}
