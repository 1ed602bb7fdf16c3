package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/repository"
)

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrUnknownMetric = errors.New("unknown metric")
)

// Snapshot is one immutable enriched view of the dataset. Callers hold a
// snapshot reference, never the service's mutable state; the popular-audio
// set it was classified with travels along so "Popular" labels stay
// interpretable after later reloads.
type Snapshot struct {
	Videos       []models.EnrichedVideo
	PopularAudio PopularAudioSet
	LoadedAt     time.Time
	DroppedRows  int
}

// AnalyticsService owns the shared enriched view of the dataset and answers
// all aggregation queries from it. Reload is the single atomic operation that
// discards derived state and resynchronizes from the backing store.
type AnalyticsService interface {
	Snapshot() (*Snapshot, error)
	Reload() (*Snapshot, error)

	SummaryStats() (*models.SummaryStats, error)
	PerformanceByDay() ([]models.DayPerformance, error)
	PerformanceByHour() ([]models.HourPerformance, error)
	PerformanceByContentType() ([]models.TypePerformance, error)
	PerformanceByAudioType() ([]models.TypePerformance, error)
	TopVideos(n int, metric string) ([]models.EnrichedVideo, error)
	BestVideo(metric string) (*models.EnrichedVideo, error)
	TrendingThreshold(percentile float64) (float64, error)
	CorrelationMatrix() (*models.CorrelationMatrix, error)
	EngagementPercentiles() (p75, p90 float64, err error)
}

type analyticsService struct {
	videoRepo repository.VideoRepository
	content   ContentClassifier
	audio     AudioClassifier
	config    *config.Config

	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewAnalyticsService(
	videoRepo repository.VideoRepository,
	content ContentClassifier,
	audio AudioClassifier,
) AnalyticsService {
	return &analyticsService{
		videoRepo: videoRepo,
		content:   content,
		audio:     audio,
		config:    config.GlobalConfig,
	}
}

// Snapshot returns the current enriched view, building it on first use.
func (s *analyticsService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return s.Reload()
}

// Reload rebuilds the enriched view from the backing store under an
// exclusive lock so readers never observe a half-built table.
func (s *analyticsService) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.buildSnapshot()
	if err != nil {
		return nil, err
	}
	s.snapshot = snap
	log.Printf("[Analytics Reload] %d videos enriched, %d rows dropped (bad timestamps)",
		len(snap.Videos), snap.DroppedRows)
	return snap, nil
}

func (s *analyticsService) buildSnapshot() (*Snapshot, error) {
	records, err := s.videoRepo.GetAllVideos()
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	// Popular set first: classification below is relative to this corpus.
	musicNames := make([]string, len(records))
	for i, rec := range records {
		musicNames[i] = rec.MusicName
	}
	popular := BuildPopularAudioSet(musicNames, s.config.PopularAudioSize)

	now := time.Now().UTC()
	enriched := make([]models.EnrichedVideo, 0, len(records))
	dropped := 0

	for _, rec := range records {
		publishTime, err := ParsePublishTime(rec.PublishedAt)
		if err != nil {
			dropped++
			continue
		}

		temporal := ExtractTemporal(publishTime, now)
		views := rec.PlayCount
		if views < 1 {
			views = 1
		}
		engagement := float64(rec.DiggCount+rec.CommentCount+rec.ShareCount) / float64(views) * 100

		enriched = append(enriched, models.EnrichedVideo{
			VideoRecord: rec,
			PublishTime: publishTime,
			Derived: models.DerivedFeatures{
				UploadHour:        temporal.Hour,
				UploadDay:         temporal.Day,
				IsWeekend:         temporal.Weekend,
				HoursSincePublish: temporal.HoursSincePublish,
				CaptionLength:     CaptionLength(rec.Caption),
				HashtagCount:      CountHashtags(rec.Caption),
				ContentType:       s.content.Classify(rec.Caption),
				AudioType:         s.audio.Classify(rec.MusicName, rec.MusicOriginal, popular),
				EngagementRate:    engagement,
			},
		})
	}

	return &Snapshot{
		Videos:       enriched,
		PopularAudio: popular,
		LoadedAt:     now,
		DroppedRows:  dropped,
	}, nil
}

func (s *analyticsService) SummaryStats() (*models.SummaryStats, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Videos) == 0 {
		return nil, ErrEmptyDataset
	}

	stats := &models.SummaryStats{
		TotalVideos:      len(snap.Videos),
		SnapshotLoadedAt: snap.LoadedAt,
		DroppedRows:      snap.DroppedRows,
		DateRangeStart:   snap.Videos[0].PublishTime,
		DateRangeEnd:     snap.Videos[0].PublishTime,
	}

	var sumEngagement, sumDuration float64
	for _, v := range snap.Videos {
		stats.TotalViews += v.PlayCount
		stats.TotalLikes += v.DiggCount
		stats.TotalComments += v.CommentCount
		stats.TotalShares += v.ShareCount
		sumEngagement += v.Derived.EngagementRate
		sumDuration += v.Duration

		if v.PublishTime.Before(stats.DateRangeStart) {
			stats.DateRangeStart = v.PublishTime
		}
		if v.PublishTime.After(stats.DateRangeEnd) {
			stats.DateRangeEnd = v.PublishTime
		}
	}

	n := float64(len(snap.Videos))
	stats.AvgViews = float64(stats.TotalViews) / n
	stats.AvgLikes = float64(stats.TotalLikes) / n
	stats.AvgComments = float64(stats.TotalComments) / n
	stats.AvgShares = float64(stats.TotalShares) / n
	stats.AvgEngagementRate = sumEngagement / n
	stats.AvgDuration = sumDuration / n

	return stats, nil
}

type aggBucket struct {
	count      int
	views      int64
	likes      int64
	comments   int64
	shares     int64
	engagement float64
}

func (b *aggBucket) add(v models.EnrichedVideo) {
	b.count++
	b.views += v.PlayCount
	b.likes += v.DiggCount
	b.comments += v.CommentCount
	b.shares += v.ShareCount
	b.engagement += v.Derived.EngagementRate
}

func (s *analyticsService) PerformanceByDay() ([]models.DayPerformance, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*aggBucket)
	for _, v := range snap.Videos {
		b, ok := buckets[v.Derived.UploadDay]
		if !ok {
			b = &aggBucket{}
			buckets[v.Derived.UploadDay] = b
		}
		b.add(v)
	}

	out := make([]models.DayPerformance, 0, 7)
	for _, day := range WeekdayNames() {
		b, ok := buckets[day]
		if !ok {
			continue
		}
		n := float64(b.count)
		out = append(out, models.DayPerformance{
			Day:               day,
			VideoCount:        b.count,
			AvgViews:          float64(b.views) / n,
			AvgLikes:          float64(b.likes) / n,
			AvgComments:       float64(b.comments) / n,
			AvgShares:         float64(b.shares) / n,
			AvgEngagementRate: b.engagement / n,
		})
	}
	return out, nil
}

func (s *analyticsService) PerformanceByHour() ([]models.HourPerformance, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]*aggBucket)
	for _, v := range snap.Videos {
		b, ok := buckets[v.Derived.UploadHour]
		if !ok {
			b = &aggBucket{}
			buckets[v.Derived.UploadHour] = b
		}
		b.add(v)
	}

	out := make([]models.HourPerformance, 0, len(buckets))
	for hour := 0; hour < 24; hour++ {
		b, ok := buckets[hour]
		if !ok {
			continue
		}
		n := float64(b.count)
		out = append(out, models.HourPerformance{
			Hour:              hour,
			VideoCount:        b.count,
			AvgViews:          float64(b.views) / n,
			AvgLikes:          float64(b.likes) / n,
			AvgComments:       float64(b.comments) / n,
			AvgShares:         float64(b.shares) / n,
			AvgEngagementRate: b.engagement / n,
		})
	}
	return out, nil
}

func (s *analyticsService) PerformanceByContentType() ([]models.TypePerformance, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.performanceByType(snap, s.content.Categories(), func(v models.EnrichedVideo) string {
		return v.Derived.ContentType
	}), nil
}

func (s *analyticsService) PerformanceByAudioType() ([]models.TypePerformance, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.performanceByType(snap, AudioCategories(), func(v models.EnrichedVideo) string {
		return v.Derived.AudioType
	}), nil
}

// performanceByType walks the closed universe in declaration order so output
// ordering is stable across reloads; categories with no videos are omitted.
func (s *analyticsService) performanceByType(
	snap *Snapshot,
	universe []string,
	key func(models.EnrichedVideo) string,
) []models.TypePerformance {
	buckets := make(map[string]*aggBucket)
	for _, v := range snap.Videos {
		k := key(v)
		b, ok := buckets[k]
		if !ok {
			b = &aggBucket{}
			buckets[k] = b
		}
		b.add(v)
	}

	out := make([]models.TypePerformance, 0, len(universe))
	for _, cat := range universe {
		b, ok := buckets[cat]
		if !ok {
			continue
		}
		n := float64(b.count)
		out = append(out, models.TypePerformance{
			Type:              cat,
			VideoCount:        b.count,
			AvgViews:          float64(b.views) / n,
			TotalViews:        b.views,
			AvgLikes:          float64(b.likes) / n,
			TotalLikes:        b.likes,
			AvgComments:       float64(b.comments) / n,
			TotalComments:     b.comments,
			AvgShares:         float64(b.shares) / n,
			TotalShares:       b.shares,
			AvgEngagementRate: b.engagement / n,
		})
	}
	return out
}

func metricValue(v models.EnrichedVideo, metric string) (float64, error) {
	switch metric {
	case "", "views", "play_count":
		return float64(v.PlayCount), nil
	case "likes", "digg_count":
		return float64(v.DiggCount), nil
	case "comments", "comment_count":
		return float64(v.CommentCount), nil
	case "shares", "share_count":
		return float64(v.ShareCount), nil
	case "engagement_rate":
		return v.Derived.EngagementRate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
}

func (s *analyticsService) TopVideos(n int, metric string) ([]models.EnrichedVideo, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Videos) == 0 {
		return []models.EnrichedVideo{}, nil
	}
	if _, err := metricValue(snap.Videos[0], metric); err != nil {
		return nil, err
	}

	sorted := make([]models.EnrichedVideo, len(snap.Videos))
	copy(sorted, snap.Videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, _ := metricValue(sorted[i], metric)
		vj, _ := metricValue(sorted[j], metric)
		return vi > vj
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

func (s *analyticsService) BestVideo(metric string) (*models.EnrichedVideo, error) {
	top, err := s.TopVideos(1, metric)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, ErrEmptyDataset
	}
	return &top[0], nil
}

// TrendingThreshold is the view count at the given percentile of the corpus.
func (s *analyticsService) TrendingThreshold(percentile float64) (float64, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	if len(snap.Videos) == 0 {
		return 0, ErrEmptyDataset
	}
	if percentile <= 0 || percentile >= 100 {
		return 0, fmt.Errorf("percentile must be in (0, 100), got %v", percentile)
	}

	views := make([]float64, len(snap.Videos))
	for i, v := range snap.Videos {
		views[i] = float64(v.PlayCount)
	}
	sort.Float64s(views)
	return stat.Quantile(percentile/100, stat.Empirical, views, nil), nil
}

var correlationMetrics = []string{"views", "likes", "comments", "shares", "duration", "engagement_rate"}

func (s *analyticsService) CorrelationMatrix() (*models.CorrelationMatrix, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Videos) < 2 {
		return nil, ErrEmptyDataset
	}

	series := make([][]float64, len(correlationMetrics))
	for i := range series {
		series[i] = make([]float64, len(snap.Videos))
	}
	for j, v := range snap.Videos {
		series[0][j] = float64(v.PlayCount)
		series[1][j] = float64(v.DiggCount)
		series[2][j] = float64(v.CommentCount)
		series[3][j] = float64(v.ShareCount)
		series[4][j] = v.Duration
		series[5][j] = v.Derived.EngagementRate
	}

	matrix := make([][]float64, len(series))
	for i := range series {
		matrix[i] = make([]float64, len(series))
		for j := range series {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			r := stat.Correlation(series[i], series[j], nil)
			// A constant series has zero variance and correlates as NaN,
			// which JSON cannot encode. Report no correlation instead.
			if math.IsNaN(r) {
				r = 0
			}
			matrix[i][j] = r
		}
	}

	return &models.CorrelationMatrix{
		Metrics: correlationMetrics,
		Matrix:  matrix,
	}, nil
}

// EngagementPercentiles returns the corpus p75/p90 of likes+comments+shares,
// the reference points for the legacy hashtag-trend feature.
func (s *analyticsService) EngagementPercentiles() (float64, float64, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return 0, 0, err
	}
	if len(snap.Videos) == 0 {
		return 0, 0, ErrEmptyDataset
	}

	totals := make([]float64, len(snap.Videos))
	for i, v := range snap.Videos {
		totals[i] = float64(v.DiggCount + v.CommentCount + v.ShareCount)
	}
	sort.Float64s(totals)
	p75 := stat.Quantile(0.75, stat.Empirical, totals, nil)
	p90 := stat.Quantile(0.90, stat.Empirical, totals, nil)
	return p75, p90, nil
}
