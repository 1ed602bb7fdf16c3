package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/database"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoRepository interface {
	CreateVideo(video *models.VideoRecord) error
	CreateVideos(videos []models.VideoRecord) error
	GetVideoByID(id string) (*models.VideoRecord, error)
	GetAllVideos() ([]models.VideoRecord, error)
	CountVideos() (int64, error)
}

type videoRepo struct {
	db *gorm.DB
}

func NewVideoRepository() VideoRepository {
	return &videoRepo{db: database.DB}
}

func (r *videoRepo) CreateVideo(video *models.VideoRecord) error {
	return r.db.Create(video).Error
}

func (r *videoRepo) CreateVideos(videos []models.VideoRecord) error {
	if len(videos) == 0 {
		return nil
	}
	return r.db.CreateInBatches(videos, 200).Error
}

func (r *videoRepo) GetVideoByID(id string) (*models.VideoRecord, error) {
	var video models.VideoRecord
	err := r.db.First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) GetAllVideos() ([]models.VideoRecord, error) {
	var videos []models.VideoRecord
	err := r.db.Order("created_at ASC, id ASC").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.VideoRecord{}
	}
	log.Printf("[Repository GetAllVideos] Total videos fetched: %d", len(videos))
	return videos, nil
}

func (r *videoRepo) CountVideos() (int64, error) {
	var count int64
	err := r.db.Model(&models.VideoRecord{}).Count(&count).Error
	return count, err
}
