package services

import (
	"reflect"
	"testing"
)

func TestClassifyAudio(t *testing.T) {
	classifier := NewAudioClassifier()
	popular := PopularAudioSet{"Trending Song": true}

	tests := []struct {
		name       string
		musicName  string
		isOriginal bool
		expected   string
	}{
		{
			// Emptiness check precedes originality, an inconsistent scraper
			// flag must not resurrect a missing track.
			name:       "empty name with original flag is No-Audio",
			musicName:  "",
			isOriginal: true,
			expected:   AudioNone,
		},
		{
			name:       "sentinel dash is No-Audio",
			musicName:  "-",
			isOriginal: false,
			expected:   AudioNone,
		},
		{
			name:       "sentinel nan is No-Audio",
			musicName:  "NaN",
			isOriginal: true,
			expected:   AudioNone,
		},
		{
			name:       "original flag set",
			musicName:  "my cool track",
			isOriginal: true,
			expected:   AudioOriginal,
		},
		{
			name:       "original sound marker overrides false flag",
			musicName:  "original sound - creator123",
			isOriginal: false,
			expected:   AudioOriginal,
		},
		{
			name:       "indonesian original marker",
			musicName:  "suara asli - septianndt",
			isOriginal: false,
			expected:   AudioOriginal,
		},
		{
			name:       "popular set member",
			musicName:  "Trending Song",
			isOriginal: false,
			expected:   AudioPopular,
		},
		{
			// Membership is exact match, not substring.
			name:       "partial popular name is Other",
			musicName:  "Trending Song (sped up)",
			isOriginal: false,
			expected:   AudioOther,
		},
		{
			name:       "unknown track is Other",
			musicName:  "some obscure track",
			isOriginal: false,
			expected:   AudioOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.musicName, tt.isOriginal, popular)
			if got != tt.expected {
				t.Errorf("Classify(%q, %v) = %q, want %q", tt.musicName, tt.isOriginal, got, tt.expected)
			}
		})
	}
}

func TestClassifyAudioTotality(t *testing.T) {
	classifier := NewAudioClassifier()
	universe := make(map[string]bool)
	for _, cat := range AudioCategories() {
		universe[cat] = true
	}

	names := []string{"", "-", "none", "track", "original sound", "Trending Song", "日本語の曲"}
	for _, name := range names {
		for _, flag := range []bool{true, false} {
			got := classifier.Classify(name, flag, PopularAudioSet{})
			if !universe[got] {
				t.Errorf("Classify(%q, %v) = %q, not in audio universe", name, flag, got)
			}
		}
	}
}

func TestBuildPopularAudioSet(t *testing.T) {
	names := []string{
		"Song A", "Song A", "Song A",
		"Song B", "Song B",
		"Song C",
		"", "-", "nan", // sentinels never count
	}

	set := BuildPopularAudioSet(names, 2)
	if !set.Contains("Song A") || !set.Contains("Song B") {
		t.Errorf("popular set missing most frequent names: %v", set)
	}
	if set.Contains("Song C") {
		t.Error("popular set contains name beyond size limit")
	}
	if set.Contains("") || set.Contains("-") {
		t.Error("popular set contains a no-audio sentinel")
	}
}

func TestBuildPopularAudioSetDeterministicTies(t *testing.T) {
	// Four names, all count 1, room for two: the tie-break must be stable.
	names := []string{"delta", "alpha", "charlie", "bravo"}

	first := BuildPopularAudioSet(names, 2)
	for i := 0; i < 20; i++ {
		if got := BuildPopularAudioSet(names, 2); !reflect.DeepEqual(got, first) {
			t.Fatalf("popular set not deterministic: %v vs %v", first, got)
		}
	}
	if !first.Contains("alpha") || !first.Contains("bravo") {
		t.Errorf("tie-break should prefer lexicographically smaller names, got %v", first)
	}
}

func TestClassifyAudioDeterminism(t *testing.T) {
	classifier := NewAudioClassifier()
	popular := PopularAudioSet{"x": true}

	first := classifier.Classify("x", false, popular)
	for i := 0; i < 100; i++ {
		if got := classifier.Classify("x", false, popular); got != first {
			t.Fatalf("audio classification not deterministic: %q then %q", first, got)
		}
	}
}
