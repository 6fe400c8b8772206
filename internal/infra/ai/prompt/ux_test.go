package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

func TestCategoriesCoverEveryCategory(t *testing.T) {
	prompts := Categories()
	require.Len(t, prompts, len(analysis.AllCategories()))

	for _, c := range analysis.AllCategories() {
		p, ok := prompts[c]
		require.True(t, ok, "missing prompt for %s", c)
		assert.Contains(t, p, `"issues"`)
		assert.Contains(t, p, `"recommendations"`)
		assert.Contains(t, p, "YOU MUST RETURN A VALID JSON OBJECT")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	a := Categories()
	a[analysis.CategoryVisual] = "changed"
	assert.NotEqual(t, "changed", Categories()[analysis.CategoryVisual])
}
