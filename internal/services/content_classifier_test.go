package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassifyContent(t *testing.T) {
	classifier := NewContentClassifier(DefaultCategoryDictionary())

	tests := []struct {
		name     string
		caption  string
		expected string
	}{
		{
			name:     "Gaming caption with hashtags",
			caption:  "Main Genshin Impact seru #game #genshin",
			expected: "Gaming",
		},
		{
			name:     "OOTD caption",
			caption:  "OOTD hari ini #ootd #fashion",
			expected: "OOTD",
		},
		{
			name:     "Tutorial caption",
			caption:  "Tutorial makeup natural #tutorial #beauty",
			expected: "Tutorial",
		},
		{
			name:     "Educational caption",
			caption:  "Hari pertama mengajar di sekolah baru",
			expected: "Educational",
		},
		{
			name:     "Vlog caption",
			caption:  "a day in my life, morning routine edition",
			expected: "Vlog",
		},
		{
			name:     "no keyword matches",
			caption:  "just vibes",
			expected: OtherCategory,
		},
		{
			name:     "empty caption",
			caption:  "",
			expected: OtherCategory,
		},
		{
			name:     "non-ASCII caption",
			caption:  "今日の気分 🎉",
			expected: OtherCategory,
		},
		{
			name:     "uppercase keywords still match",
			caption:  "TIPS BELAJAR CEPAT",
			expected: "Tutorial",
		},
		{
			// "ootd" appears before any Tutorial keyword check, declaration
			// order breaks the tie.
			name:     "multi-category caption uses declaration order",
			caption:  "ootd sambil kasih tips styling",
			expected: "OOTD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.caption)
			if got != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.caption, got, tt.expected)
			}
		})
	}
}

func TestClassifyContentClosure(t *testing.T) {
	classifier := NewContentClassifier(DefaultCategoryDictionary())

	universe := make(map[string]bool)
	for _, name := range classifier.Categories() {
		universe[name] = true
	}

	captions := []string{
		"", "no match at all", "ootd", "tutorial tips",
		"vlog day in", "guru mengajar", "game mabar", "masak resep", "musik cover lagu",
		"\x00weird\xffbytes", "🎮🎮🎮",
	}
	for _, caption := range captions {
		got := classifier.Classify(caption)
		if !universe[got] {
			t.Errorf("Classify(%q) = %q, not in category universe", caption, got)
		}
	}
}

func TestClassifyContentDeterminism(t *testing.T) {
	classifier := NewContentClassifier(DefaultCategoryDictionary())

	caption := "ootd tutorial vlog game"
	first := classifier.Classify(caption)
	for i := 0; i < 100; i++ {
		if got := classifier.Classify(caption); got != first {
			t.Fatalf("classification not deterministic: got %q then %q", first, got)
		}
	}
}

func TestCategoryDictionaryNames(t *testing.T) {
	dict := DefaultCategoryDictionary()
	names := dict.Names()

	if names[len(names)-1] != OtherCategory {
		t.Errorf("last category = %q, want catch-all %q", names[len(names)-1], OtherCategory)
	}
	if len(names) != len(dict)+1 {
		t.Errorf("universe has %d names, want %d declared + catch-all", len(names), len(dict))
	}
	for i, cat := range dict {
		if names[i] != cat.Name {
			t.Errorf("names[%d] = %q, want declaration order %q", i, names[i], cat.Name)
		}
	}
}

func TestLoadCategoryDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `- name: Dance
  keywords: [dance, joget]
- name: Comedy
  keywords: [lucu, comedy]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadCategoryDictionary(path)
	if err != nil {
		t.Fatalf("LoadCategoryDictionary() error = %v", err)
	}
	if len(dict) != 2 {
		t.Fatalf("loaded %d categories, want 2", len(dict))
	}
	if dict[0].Name != "Dance" || dict[1].Name != "Comedy" {
		t.Errorf("declaration order not preserved: %v", dict.Names())
	}

	classifier := NewContentClassifier(dict)
	if got := classifier.Classify("video lucu banget"); got != "Comedy" {
		t.Errorf("Classify with loaded dictionary = %q, want Comedy", got)
	}
}

func TestLoadCategoryDictionaryRejectsReservedName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `- name: Other
  keywords: [x]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCategoryDictionary(path); err == nil {
		t.Error("expected error for reserved catch-all name, got nil")
	}
}
