package prompt

import (
	"fmt"

	"github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

const schemaFormat = `
Format your response as a structured JSON object with the following format:
{
  "issues": [
    {
      "title": "%s",
      "description": "%s",
      "severity": "high | medium | low"
    }
  ],
  "recommendations": [
    {
      "title": "Brief recommendation title",
      "description": "%s",
      "type": "improvement | fix | enhancement"
    }
  ]
}
`

const strictJSON = `
YOU MUST RETURN A VALID JSON OBJECT. DO NOT INCLUDE ANY EXPLANATION TEXT BEFORE OR AFTER THE JSON.
`

type template struct {
	task      string
	issueHint string
	issueDesc string
	recDesc   string
	focus     string
}

func (t template) render() string {
	return t.task + "\n" + fmt.Sprintf(schemaFormat, t.issueHint, t.issueDesc, t.recDesc) + "\n" + t.focus + "\n" + strictJSON
}

var templates = map[analysis.Category]template{
	analysis.CategoryVisual: {
		task:      "Analyze this UI screenshot for visual design consistency issues. Consider color palette, typography, spacing, and alignment. Identify any inconsistencies and suggest improvements.",
		issueHint: "Brief issue title",
		issueDesc: "Detailed explanation of the issue",
		recDesc:   "Detailed explanation of the recommendation",
		focus:     "Include 3-5 key issues and recommendations, making sure they are specific and actionable.",
	},
	analysis.CategoryUXLaws: {
		task:      "Evaluate this UI based on UX laws and principles such as Fitts's Law, Hick's Law, and Jakob's Law. Identify any violations and suggest improvements.",
		issueHint: "Brief issue title with relevant UX law",
		issueDesc: "Detailed explanation of the issue and how it violates the UX law",
		recDesc:   "Detailed explanation of the recommendation",
		focus:     "Include 3-5 key UX laws that apply to this design, but do not include gestalt principles. For each law, explain what it is, how it applies to this UI, and what specific improvements could be made.",
	},
	analysis.CategoryCognitive: {
		task:      "Assess the cognitive load in this UI. Identify areas that might be overwhelming or confusing for users, and suggest ways to reduce cognitive burden.",
		issueHint: "Brief issue title related to cognitive load",
		issueDesc: "Detailed explanation of how this causes cognitive load",
		recDesc:   "Detailed explanation of how this reduces cognitive load",
		focus:     "Focus on 3-5 specific areas where cognitive load could be reduced. For each area, explain why it might be causing cognitive strain and provide a specific solution.",
	},
	analysis.CategoryPsychological: {
		task:      "Analyze the psychological effects of this UI design. How does it influence user behavior and perception? Consider aspects like color psychology, visual hierarchy, and emotional response.",
		issueHint: "Brief issue title related to psychological effects",
		issueDesc: "Detailed explanation of the psychological impact",
		recDesc:   "Detailed explanation of the psychological improvement",
		focus:     "Focus on 3-5 psychological aspects of the design. For each aspect, explain its current impact and suggest how it could be optimized for better user experience.",
	},
	analysis.CategoryGestalt: {
		task:      "Evaluate how this UI applies Gestalt principles (proximity, similarity, continuity, closure, etc.). Identify any areas where these principles could be better applied.",
		issueHint: "Brief issue title related to Gestalt principles",
		issueDesc: "Detailed explanation of how this violates Gestalt principles",
		recDesc:   "Detailed explanation of how to better apply Gestalt principles",
		focus:     "Focus on 3-5 Gestalt principles that are most relevant to this design. For each principle, explain how it's currently being used (or not), and suggest specific improvements.",
	},
}

// Categories builds the category -> prompt mapping. Callers get their own copy.
func Categories() map[analysis.Category]string {
	out := make(map[analysis.Category]string, len(templates))
	for c, t := range templates {
		out[c] = t.render()
	}
	return out
}
