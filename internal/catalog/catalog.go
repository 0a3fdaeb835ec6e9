package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryBreath     Category = "breath"
	CategoryJournaling Category = "journaling"
	CategoryMovement   Category = "movement"
	CategoryGratitude  Category = "gratitude"
	CategoryFocus      Category = "focus"
	CategoryConnection Category = "connection"
	CategoryDiscipline Category = "discipline"
	CategoryCreation   Category = "creation"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryBreath, CategoryJournaling, CategoryMovement, CategoryGratitude,
		CategoryFocus, CategoryConnection, CategoryDiscipline, CategoryCreation:
		return true
	default:
		return false
	}
}

func ParseCategory(input string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(input)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %q", input)
	}
	return c, nil
}

type Difficulty int

const (
	DifficultyGentle    Difficulty = 1
	DifficultyEasy      Difficulty = 2
	DifficultyModerate  Difficulty = 3
	DifficultyHard      Difficulty = 4
	DifficultyDemanding Difficulty = 5
)

func (d Difficulty) IsValid() bool {
	return d >= DifficultyGentle && d <= DifficultyDemanding
}

// Definition is a single ritual as shipped in the catalog. Definitions are
// fixed at deploy time; IDs must stay stable because user history references
// them.
type Definition struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Category         Category   `yaml:"category"`
	Difficulty       Difficulty `yaml:"difficulty"`
	BaseReward       int        `yaml:"base_reward"`
	EstimatedMinutes int        `yaml:"estimated_minutes"`
	Prompt           string     `yaml:"prompt"`
}

// Repository is a read-only view over the ritual catalog. Implementations
// must be safe for unsynchronized concurrent reads.
type Repository interface {
	ByID(id string) *Definition
	ByCategory(c Category) []Definition
	All() []Definition
	Categories() []Category
}

type Catalog struct {
	defs       []Definition
	byID       map[string]int
	byCategory map[Category][]int
}

var _ Repository = (*Catalog)(nil)

// Load parses YAML ritual definitions and builds the lookup indexes.
func Load(data []byte) (*Catalog, error) {
	var doc struct {
		Rituals []Definition `yaml:"rituals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Rituals) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{
		defs:       doc.Rituals,
		byID:       make(map[string]int, len(doc.Rituals)),
		byCategory: make(map[Category][]int),
	}
	for i, d := range c.defs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", d.ID)
		}
		if !d.Category.IsValid() {
			return nil, fmt.Errorf("catalog entry %q: invalid category %q", d.ID, d.Category)
		}
		if !d.Difficulty.IsValid() {
			return nil, fmt.Errorf("catalog entry %q: invalid difficulty %d", d.ID, d.Difficulty)
		}
		if d.BaseReward <= 0 {
			return nil, fmt.Errorf("catalog entry %q: base_reward must be positive", d.ID)
		}
		c.byID[d.ID] = i
		c.byCategory[d.Category] = append(c.byCategory[d.Category], i)
	}
	return c, nil
}

func (c *Catalog) ByID(id string) *Definition {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	d := c.defs[i]
	return &d
}

func (c *Catalog) ByCategory(cat Category) []Definition {
	idxs := c.byCategory[cat]
	out := make([]Definition, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.defs[i])
	}
	return out
}

func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.byCategory))
	for cat := range c.byCategory {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
