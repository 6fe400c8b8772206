package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// Category is one of the fixed UX analysis dimensions.
type Category string

const (
	CategoryVisual        Category = "visual"
	CategoryUXLaws        Category = "ux-laws"
	CategoryCognitive     Category = "cognitive"
	CategoryPsychological Category = "psychological"
	CategoryGestalt       Category = "gestalt"

	// CategoryError tags a result that replaces the whole analysis.
	CategoryError Category = "error"
)

// AllCategories returns the analysis categories sorted by name.
func AllCategories() []Category {
	out := []Category{
		CategoryVisual,
		CategoryUXLaws,
		CategoryCognitive,
		CategoryPsychological,
		CategoryGestalt,
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Title turns "ux-laws" into "Ux Laws".
func (c Category) Title() string {
	words := strings.Fields(strings.ReplaceAll(string(c), "-", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Label is the display name shown next to a category's results.
func (c Category) Label() string {
	return c.Title() + " Design Analysis"
}

// Confidence enum
type Confidence string

const (
	ConfidenceHigh Confidence = "High"
	ConfidenceLow  Confidence = "Low"
)

// ItemType enum
type ItemType string

const (
	ItemIssue          ItemType = "issue"
	ItemRecommendation ItemType = "recommendation"
)

// Issue is a normalized problem reported by the model.
type Issue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // high | medium | low
}

// Recommendation is a normalized suggestion reported by the model.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // improvement | fix | enhancement
}

// Response is the validated shape extracted from free-form model output.
type Response struct {
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Item is a single finding as sent to clients.
type Item struct {
	Type            ItemType `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImprovementType string   `json:"improvement_type,omitempty"`
	Severity        string   `json:"severity,omitempty"`
}

// CategoryResult is the outcome of one category, always present in a Result.
type CategoryResult struct {
	Category   Category   `json:"category"`
	Label      string     `json:"label"`
	Confidence Confidence `json:"confidence"`
	Items      []Item     `json:"items"`
}

// Result is the full analysis of one image, ordered by category name.
type Result []CategoryResult

// Sort orders results by category name.
func (r Result) Sort() {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Category < r[j].Category })
}

// Categories lists the categories represented in r.
func (r Result) Categories() map[Category]bool {
	seen := make(map[Category]bool, len(r))
	for _, c := range r {
		seen[c.Category] = true
	}
	return seen
}
