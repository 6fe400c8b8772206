package analysis

import (
	"fmt"

	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

// Placeholder results. Each stands in for output the model could not give.

func categoryError(c domain.Category, title, severity, description string) domain.CategoryResult {
	return domain.CategoryResult{
		Category:   c,
		Label:      c.Label(),
		Confidence: domain.ConfidenceLow,
		Items: []domain.Item{{
			Type:        domain.ItemIssue,
			Title:       title,
			Description: description,
			Severity:    severity,
		}},
	}
}

func analysisError(c domain.Category, err error) domain.CategoryResult {
	return categoryError(c, "Analysis Error", "medium",
		fmt.Sprintf("We encountered an issue analyzing this aspect of the design: %v", err))
}

func processingError(c domain.Category, v any) domain.CategoryResult {
	return categoryError(c, "Processing Error", "high", fmt.Sprintf("Error during analysis: %v", v))
}

func unavailable(c domain.Category) domain.CategoryResult {
	return categoryError(c, "Analysis Unavailable", "medium",
		fmt.Sprintf("We couldn't generate %s analysis for this image. Please try again.", c))
}

// NonUIResult replaces the whole analysis when the gate rejects an image.
func NonUIResult() domain.Result {
	return domain.Result{{
		Category:   domain.CategoryError,
		Label:      "Not UI Image",
		Confidence: domain.ConfidenceHigh,
		Items: []domain.Item{{
			Type:        domain.ItemIssue,
			Title:       "Non-UI Image Detected",
			Description: "The uploaded image does not appear to contain user interface elements. Please upload a screenshot of a website, app, or other digital interface for UX analysis.",
			Severity:    "high",
		}},
	}}
}

// FailedResult replaces the whole analysis when orchestration itself fails.
func FailedResult(err error) domain.Result {
	return domain.Result{{
		Category:   domain.CategoryError,
		Label:      "Analysis Error",
		Confidence: domain.ConfidenceHigh,
		Items: []domain.Item{{
			Type:        domain.ItemIssue,
			Title:       "Analysis Failed",
			Description: fmt.Sprintf("We encountered an error during analysis: %v", err),
			Severity:    "high",
		}},
	}}
}

// IsErrorResult reports whether r is a whole-analysis replacement.
func IsErrorResult(r domain.Result) bool {
	return len(r) == 1 && r[0].Category == domain.CategoryError
}
