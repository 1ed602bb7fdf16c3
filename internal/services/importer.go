package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/repository"
)

var ErrSchemaMissing = errors.New("required columns missing from CSV")

// Raw scraper export column names (FreeTikTokScraper format).
const (
	colText          = "text"
	colDigg          = "diggCount"
	colShare         = "shareCount"
	colPlay          = "playCount"
	colComment       = "commentCount"
	colDuration      = "videoMeta.duration"
	colMusicName     = "musicMeta.musicName"
	colMusicOriginal = "musicMeta.musicOriginal"
	colCreateTime    = "createTimeISO"
	colAuthor        = "authorMeta.name"
	colVideoURL      = "webVideoUrl"
)

// essentialColumns must be structurally present; without them no degraded
// import is attempted. Everything else is tolerated with defaults.
var essentialColumns = []string{colText, colPlay, colCreateTime}

type ImportService interface {
	ImportCSV(r io.Reader) (int, error)
	ImportFile(path string) (int, error)
}

type importService struct {
	videoRepo repository.VideoRepository
}

func NewImportService(videoRepo repository.VideoRepository) ImportService {
	return &importService{videoRepo: videoRepo}
}

func (s *importService) ImportFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()
	return s.ImportCSV(f)
}

// ImportCSV parses a raw scraper export and persists every row. Rows are
// stored as scraped; enrichment and timestamp validation happen at snapshot
// build so a bad timestamp never blocks the import itself.
func (s *importService) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range essentialColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrSchemaMissing, strings.Join(missing, ", "))
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var videos []models.VideoRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		author := field(row, colAuthor)
		if author == "" {
			author = "Manual_Input_User"
		}

		videos = append(videos, models.VideoRecord{
			ID:            uuid.New().String(),
			Author:        author,
			Caption:       field(row, colText),
			PlayCount:     parseCount(field(row, colPlay)),
			DiggCount:     parseCount(field(row, colDigg)),
			CommentCount:  parseCount(field(row, colComment)),
			ShareCount:    parseCount(field(row, colShare)),
			Duration:      parseFloat(field(row, colDuration)),
			MusicName:     field(row, colMusicName),
			MusicOriginal: ParseBoolish(field(row, colMusicOriginal)),
			PublishedAt:   field(row, colCreateTime),
			WebVideoURL:   field(row, colVideoURL),
		})
	}

	if err := s.videoRepo.CreateVideos(videos); err != nil {
		return 0, fmt.Errorf("failed to persist imported videos: %w", err)
	}

	log.Printf("[ImportCSV] Imported %d videos", len(videos))
	return len(videos), nil
}

// parseCount coerces a non-essential numeric column; garbage becomes zero.
func parseCount(raw string) int64 {
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
		return n
	}
	// Scrapers sometimes emit counts as floats ("150.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
		return int64(f)
	}
	return 0
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ParseBoolish accepts literal booleans and their case-insensitive string
// forms; anything else is false.
func ParseBoolish(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true
	}
	return false
}
