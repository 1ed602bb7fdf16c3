package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherCategory is the catch-all that closes the content category universe.
// It always exists, is never declared in a dictionary, and always loses the
// tie-break: a caption gets it only when no declared category matches.
const OtherCategory = "Other"

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoryDictionary is an ordered list of categories. Declaration order is
// the tie-break for captions matching several categories, so it must stay
// stable for historical classifications to be reproducible.
type CategoryDictionary []Category

// DefaultCategoryDictionary returns the built-in taxonomy. Order matters.
func DefaultCategoryDictionary() CategoryDictionary {
	return CategoryDictionary{
		{Name: "OOTD", Keywords: []string{"ootd", "outfit", "look", "fashion", "style"}},
		{Name: "Tutorial", Keywords: []string{"tutorial", "how to", "cara", "tips", "belajar"}},
		{Name: "Vlog", Keywords: []string{"vlog", "day in", "diary", "daily", "routine"}},
		{Name: "Educational", Keywords: []string{"teacher", "guru", "mengajar", "pkm", "sekolah", "kelas"}},
		{Name: "Gaming", Keywords: []string{"game", "gaming", "genshin", "mabar", "push rank", "gameplay"}},
		{Name: "Food", Keywords: []string{"food", "kuliner", "masak", "resep", "mukbang"}},
		{Name: "Music", Keywords: []string{"music", "musik", "cover lagu", "nyanyi", "karaoke"}},
	}
}

// LoadCategoryDictionary reads a YAML dictionary file. The file is a plain
// list so declaration order survives the round trip:
//
//	- name: OOTD
//	  keywords: [ootd, outfit]
//	- name: Tutorial
//	  keywords: [tutorial, tips]
func LoadCategoryDictionary(path string) (CategoryDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category file: %w", err)
	}

	var dict CategoryDictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse category file: %w", err)
	}

	if err := dict.Validate(); err != nil {
		return nil, err
	}
	return dict, nil
}

func (d CategoryDictionary) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("category dictionary is empty")
	}
	seen := make(map[string]bool, len(d))
	for _, cat := range d {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if cat.Name == OtherCategory {
			return fmt.Errorf("category %q is reserved as the catch-all", OtherCategory)
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("category %q has no keywords", cat.Name)
		}
	}
	return nil
}

// Names returns the full closed universe: declared categories in order, then
// the catch-all.
func (d CategoryDictionary) Names() []string {
	names := make([]string, 0, len(d)+1)
	for _, cat := range d {
		names = append(names, cat.Name)
	}
	return append(names, OtherCategory)
}

type ContentClassifier interface {
	Classify(caption string) string
	Categories() []string
}

type contentClassifier struct {
	dict CategoryDictionary
}

func NewContentClassifier(dict CategoryDictionary) ContentClassifier {
	return &contentClassifier{dict: dict}
}

// Classify lowercases the caption and returns the first category any of whose
// keywords appears as a substring. Substring matching over tokenization is a
// deliberate trade: fast, total, and reproducible. Empty captions fall
// straight through to the catch-all.
func (c *contentClassifier) Classify(caption string) string {
	if caption == "" {
		return OtherCategory
	}

	text := strings.ToLower(caption)
	for _, cat := range c.dict {
		for _, keyword := range cat.Keywords {
			if strings.Contains(text, keyword) {
				return cat.Name
			}
		}
	}
	return OtherCategory
}

func (c *contentClassifier) Categories() []string {
	return c.dict.Names()
}
