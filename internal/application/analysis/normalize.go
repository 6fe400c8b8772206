package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

const (
	defaultIssueTitle = "Unnamed Issue"
	defaultRecTitle   = "Unnamed Recommendation"
	defaultDesc       = "No description provided"
	defaultSeverity   = "medium"
	defaultRecType    = "improvement"
)

var (
	fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	braceSpan   = regexp.MustCompile(`(?s)\{.*\}`)

	severities = map[string]bool{"high": true, "medium": true, "low": true}
	recTypes   = map[string]bool{"improvement": true, "fix": true, "enhancement": true}
)

// parsed is the tagged outcome of one extraction attempt: ok means the
// candidate text was valid JSON, whatever its type.
type parsed struct {
	value any
	ok    bool
}

type extractor func(text string) parsed

// extractors run in order; the first one yielding valid JSON wins.
var extractors = []extractor{
	wholeText,
	fencedCodeBlock,
	outerBraces,
}

// Normalize turns free-form model output into a Response. It never fails:
// anything that cannot be read as a JSON object yields DefaultResponse.
func Normalize(text string) domain.Response {
	if strings.TrimSpace(text) == "" {
		return DefaultResponse()
	}
	for _, extract := range extractors {
		p := extract(text)
		if !p.ok {
			continue
		}
		obj, isObject := p.value.(map[string]any)
		if !isObject {
			return DefaultResponse()
		}
		return fromObject(obj)
	}
	return DefaultResponse()
}

// DefaultResponse is the fallback used when model output is unreadable.
func DefaultResponse() domain.Response {
	return domain.Response{
		Issues: []domain.Issue{{
			Title:       "Analysis Formatting Error",
			Description: "The AI provided analysis but in an unstructured format. Please try again.",
			Severity:    "medium",
		}},
		Recommendations: []domain.Recommendation{{
			Title:       "Retry Analysis",
			Description: "Please try analyzing again with this same image.",
			Type:        "fix",
		}},
	}
}

func wholeText(text string) parsed {
	return decode(text)
}

func fencedCodeBlock(text string) parsed {
	m := fencedBlock.FindStringSubmatch(text)
	if m == nil {
		return parsed{}
	}
	return decode(strings.TrimSpace(m[1]))
}

func outerBraces(text string) parsed {
	span := braceSpan.FindString(text)
	if span == "" {
		return parsed{}
	}
	return decode(span)
}

func decode(s string) parsed {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return parsed{}
	}
	return parsed{value: v, ok: true}
}

// fromObject validates the issues/recommendations arrays. Entries that are
// not objects are dropped; missing fields get placeholders.
func fromObject(obj map[string]any) domain.Response {
	resp := domain.Response{
		Issues:          []domain.Issue{},
		Recommendations: []domain.Recommendation{},
	}
	for _, m := range objects(obj["issues"]) {
		resp.Issues = append(resp.Issues, domain.Issue{
			Title:       field(m, "title", defaultIssueTitle),
			Description: field(m, "description", defaultDesc),
			Severity:    oneOf(m["severity"], severities, defaultSeverity),
		})
	}
	for _, m := range objects(obj["recommendations"]) {
		resp.Recommendations = append(resp.Recommendations, domain.Recommendation{
			Title:       field(m, "title", defaultRecTitle),
			Description: field(m, "description", defaultDesc),
			Type:        oneOf(m["type"], recTypes, defaultRecType),
		})
	}
	return resp
}

func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func field(m map[string]any, key, fallback string) string {
	switch v := m[key].(type) {
	case nil:
		return fallback
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return fallback
	default:
		return fmt.Sprint(v)
	}
}

func oneOf(v any, allowed map[string]bool, fallback string) string {
	s, _ := v.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if allowed[s] {
		return s
	}
	return fallback
}
