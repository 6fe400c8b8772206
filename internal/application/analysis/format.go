package analysis

import (
	"fmt"

	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

// Format converts a normalized Response into the client-facing shape.
// A category always gets at least one item.
func Format(category domain.Category, resp domain.Response) domain.CategoryResult {
	items := make([]domain.Item, 0, len(resp.Issues)+len(resp.Recommendations))
	for _, is := range resp.Issues {
		items = append(items, domain.Item{
			Type:        domain.ItemIssue,
			Title:       orDefault(is.Title, defaultIssueTitle),
			Description: orDefault(is.Description, defaultDesc),
		})
	}
	for _, rec := range resp.Recommendations {
		items = append(items, domain.Item{
			Type:            domain.ItemRecommendation,
			Title:           orDefault(rec.Title, defaultRecTitle),
			Description:     orDefault(rec.Description, defaultDesc),
			ImprovementType: orDefault(rec.Type, defaultRecType),
		})
	}

	if len(items) == 0 {
		return domain.CategoryResult{
			Category:   category,
			Label:      category.Label(),
			Confidence: domain.ConfidenceLow,
			Items: []domain.Item{{
				Type:        domain.ItemIssue,
				Title:       "No Analysis Results",
				Description: fmt.Sprintf("No detailed %s analysis results could be generated for this image.", category.Title()),
			}},
		}
	}
	return domain.CategoryResult{
		Category:   category,
		Label:      category.Label(),
		Confidence: domain.ConfidenceHigh,
		Items:      items,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
