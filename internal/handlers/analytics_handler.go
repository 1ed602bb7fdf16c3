package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
	config    *config.Config
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		config:    config.GlobalConfig,
	}
}

// respondAnalytics unifies the error mapping for all aggregation endpoints:
// an empty or unloadable dataset must surface visibly, never as an empty
// dashboard.
func respondAnalytics(c *gin.Context, data interface{}, err error) {
	if err != nil {
		if errors.Is(err, services.ErrEmptyDataset) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Dataset is empty, import videos first",
			})
			return
		}
		if errors.Is(err, services.ErrUnknownMetric) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		log.Printf("[Analytics] query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load dataset",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   data,
	})
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	stats, err := h.analytics.SummaryStats()
	respondAnalytics(c, stats, err)
}

func (h *AnalyticsHandler) GetPerformanceByDay(c *gin.Context) {
	perf, err := h.analytics.PerformanceByDay()
	respondAnalytics(c, perf, err)
}

func (h *AnalyticsHandler) GetPerformanceByHour(c *gin.Context) {
	perf, err := h.analytics.PerformanceByHour()
	respondAnalytics(c, perf, err)
}

func (h *AnalyticsHandler) GetPerformanceByContentType(c *gin.Context) {
	perf, err := h.analytics.PerformanceByContentType()
	respondAnalytics(c, perf, err)
}

func (h *AnalyticsHandler) GetPerformanceByAudioType(c *gin.Context) {
	perf, err := h.analytics.PerformanceByAudioType()
	respondAnalytics(c, perf, err)
}

func (h *AnalyticsHandler) GetTopVideos(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	metric := c.DefaultQuery("metric", "views")

	videos, err := h.analytics.TopVideos(limit, metric)
	respondAnalytics(c, videos, err)
}

func (h *AnalyticsHandler) GetBestVideo(c *gin.Context) {
	metric := c.DefaultQuery("metric", "views")
	video, err := h.analytics.BestVideo(metric)
	respondAnalytics(c, video, err)
}

func (h *AnalyticsHandler) GetCorrelation(c *gin.Context) {
	matrix, err := h.analytics.CorrelationMatrix()
	respondAnalytics(c, matrix, err)
}

func (h *AnalyticsHandler) GetTrendingThreshold(c *gin.Context) {
	percentile := h.config.TrendingPercentile
	if raw := c.Query("percentile"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed >= 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "percentile must be a number in (0, 100)",
			})
			return
		}
		percentile = parsed
	}

	threshold, err := h.analytics.TrendingThreshold(percentile)
	respondAnalytics(c, gin.H{
		"percentile": percentile,
		"threshold":  threshold,
	}, err)
}
