package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	JWTSecret  string

	DBPath     string
	DatasetCSV string

	ModelURL     string
	ModelTimeout int // seconds

	CategoryFile   string
	ReloadSchedule string

	PopularAudioSize   int
	TrendingPercentile float64
}

var GlobalConfig *Config

func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	popularAudioSize, _ := strconv.Atoi(getEnv("POPULAR_AUDIO_SIZE", "20"))
	if popularAudioSize <= 0 {
		popularAudioSize = 20
	}

	trendingPercentile, _ := strconv.ParseFloat(getEnv("TRENDING_PERCENTILE", "75"), 64)
	if trendingPercentile <= 0 || trendingPercentile >= 100 {
		trendingPercentile = 75
	}

	modelTimeout, _ := strconv.Atoi(getEnv("MODEL_TIMEOUT", "10"))
	if modelTimeout <= 0 {
		modelTimeout = 10
	}

	GlobalConfig = &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "default-jwt-secret-change-in-production"),

		DBPath:     getEnv("DB_PATH", "data/tiktok.db"),
		DatasetCSV: getEnv("DATASET_CSV", "data/dataset_tiktok.csv"),

		ModelURL:     getEnv("MODEL_URL", ""),
		ModelTimeout: modelTimeout,

		CategoryFile:   getEnv("CATEGORY_FILE", ""),
		ReloadSchedule: getEnv("RELOAD_SCHEDULE", ""),

		PopularAudioSize:   popularAudioSize,
		TrendingPercentile: trendingPercentile,
	}

	if GlobalConfig.ModelURL == "" {
		log.Println("⚠️ MODEL_URL not set, prediction endpoints will report the model as unavailable")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
