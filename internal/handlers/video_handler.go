package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/repository"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/services"
)

type VideoHandler struct {
	videoRepo repository.VideoRepository
	importer  services.ImportService
	analytics services.AnalyticsService
}

func NewVideoHandler(
	videoRepo repository.VideoRepository,
	importer services.ImportService,
	analytics services.AnalyticsService,
) *VideoHandler {
	return &VideoHandler{
		videoRepo: videoRepo,
		importer:  importer,
		analytics: analytics,
	}
}

func (h *VideoHandler) GetAllVideos(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	videos, err := h.videoRepo.GetAllVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch videos",
		})
		return
	}
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   videos,
	})
}

func (h *VideoHandler) GetVideoByID(c *gin.Context) {
	video, err := h.videoRepo.GetVideoByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Video not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch video",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   video,
	})
}

// CreateVideo appends one manually entered record. The snapshot is rebuilt
// afterwards: partial re-classification is not a thing, popular-audio is
// corpus-relative.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var entry models.ManualEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if _, err := services.ParsePublishTime(entry.PublishedAt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "published_at is not a valid ISO 8601 timestamp",
		})
		return
	}

	author := entry.Author
	if author == "" {
		author = "Manual_Input_User"
	}
	videoURL := entry.WebVideoURL
	if videoURL == "" {
		videoURL = "https://tiktok.com/manual-entry"
	}

	video := &models.VideoRecord{
		ID:            uuid.New().String(),
		Author:        author,
		Caption:       entry.Caption,
		PlayCount:     entry.PlayCount,
		DiggCount:     entry.DiggCount,
		CommentCount:  entry.CommentCount,
		ShareCount:    entry.ShareCount,
		Duration:      entry.Duration,
		MusicName:     entry.MusicName,
		MusicOriginal: entry.MusicOriginal,
		PublishedAt:   entry.PublishedAt,
		WebVideoURL:   videoURL,
	}

	if err := h.videoRepo.CreateVideo(video); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save video",
		})
		return
	}

	if _, err := h.analytics.Reload(); err != nil {
		log.Printf("[CreateVideo] snapshot reload failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Video saved successfully",
		"data":    video,
	})
}

func (h *VideoHandler) ImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "CSV file is required (multipart field 'file')",
		})
		return
	}

	opened, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to open uploaded file",
		})
		return
	}
	defer opened.Close()

	count, err := h.importer.ImportCSV(opened)
	if err != nil {
		if errors.Is(err, services.ErrSchemaMissing) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		log.Printf("[ImportCSV] import failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to import CSV",
		})
		return
	}

	if _, err := h.analytics.Reload(); err != nil {
		log.Printf("[ImportCSV] snapshot reload failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Import completed",
		"data": gin.H{
			"imported": count,
		},
	})
}

func (h *VideoHandler) ReloadSnapshot(c *gin.Context) {
	snap, err := h.analytics.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to reload dataset",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Snapshot reloaded",
		"data": gin.H{
			"videos":       len(snap.Videos),
			"dropped_rows": snap.DroppedRows,
			"loaded_at":    snap.LoadedAt,
		},
	})
}
