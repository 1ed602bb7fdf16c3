package services

import (
	"sort"
	"strings"
)

// Audio category universe. Fixed and closed; every (name, flag) pair maps to
// exactly one of these.
const (
	AudioOriginal = "Original"
	AudioPopular  = "Popular"
	AudioOther    = "Other"
	AudioNone     = "No-Audio"
)

func AudioCategories() []string {
	return []string{AudioOriginal, AudioPopular, AudioOther, AudioNone}
}

// noAudioSentinels are placeholder strings scrapers emit for videos without a
// music track.
var noAudioSentinels = map[string]bool{
	"":     true,
	"-":    true,
	"nan":  true,
	"none": true,
}

// originalSoundMarkers flag creator-recorded audio even when the scraper's
// original flag is wrong. TikTok names these "original sound - <creator>" in
// English and "suara asli - <creator>" in Indonesian.
var originalSoundMarkers = []string{"original sound", "suara asli"}

// IsNoAudio reports whether the music name denotes a missing track.
func IsNoAudio(musicName string) bool {
	return noAudioSentinels[strings.ToLower(strings.TrimSpace(musicName))]
}

// PopularAudioSet is the corpus-relative set of recurring track names,
// recomputed on every snapshot build. Membership is exact-match: track names
// are discrete identifiers, not free text.
type PopularAudioSet map[string]bool

func (s PopularAudioSet) Contains(musicName string) bool {
	return s[musicName]
}

// BuildPopularAudioSet keeps the size most frequent non-empty, non-sentinel
// music names. Ties are broken by name so equal corpora always yield equal
// sets.
func BuildPopularAudioSet(musicNames []string, size int) PopularAudioSet {
	counts := make(map[string]int)
	for _, name := range musicNames {
		if IsNoAudio(name) {
			continue
		}
		counts[name]++
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if size > 0 && len(entries) > size {
		entries = entries[:size]
	}

	set := make(PopularAudioSet, len(entries))
	for _, e := range entries {
		set[e.name] = true
	}
	return set
}

type AudioClassifier interface {
	Classify(musicName string, isOriginal bool, popular PopularAudioSet) string
}

type audioClassifier struct{}

func NewAudioClassifier() AudioClassifier {
	return &audioClassifier{}
}

// Classify maps a (music name, original flag) pair to exactly one audio
// category. Priority order is load-bearing: an empty name must never reach
// the originality or popularity checks, scraped flags are not trustworthy on
// empty rows.
func (a *audioClassifier) Classify(musicName string, isOriginal bool, popular PopularAudioSet) string {
	if IsNoAudio(musicName) {
		return AudioNone
	}

	if isOriginal {
		return AudioOriginal
	}
	lower := strings.ToLower(musicName)
	for _, marker := range originalSoundMarkers {
		if strings.Contains(lower, marker) {
			return AudioOriginal
		}
	}

	if popular.Contains(musicName) {
		return AudioPopular
	}

	return AudioOther
}
