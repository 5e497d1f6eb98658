// internal/enrichment/queries_test.go
package enrichment

import (
	"testing"

	"food-recommender/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestImageQueries(t *testing.T) {
	got := ImageQueries(models.Food{Name: "김치찌개", Category: models.CategoryKorean})
	assert.Equal(t, []string{
		"kimchi stew authentic korean dish",
		"kimchi stew korean cuisine",
		"kimchi stew food",
		"kimchi stew dish",
		"kimchi jjigae authentic korean dish",
		"kimchi jjigae korean cuisine",
		"kimchi jjigae food",
		"kimchi jjigae dish",
		"김치찌개 authentic korean dish",
		"김치찌개 korean cuisine",
		"김치찌개 food",
		"김치찌개 dish",
		"korean cuisine",
	}, got)
}

func TestImageQueries_NameOverridesCuisine(t *testing.T) {
	got := ImageQueries(models.Food{Name: "파스타", Category: models.CategoryWestern})
	assert.Equal(t, "pasta authentic italian dish", got[0])
	assert.Equal(t, "italian cuisine", got[len(got)-1])
}

func TestImageQueries_UnknownCategory(t *testing.T) {
	got := ImageQueries(models.Food{Name: "모둠전", Category: " 기타 "})
	assert.Equal(t, []string{
		"모둠전 authentic 기타 dish",
		"모둠전 기타 cuisine",
		"모둠전 food",
		"모둠전 dish",
		"기타 cuisine",
	}, got)
}

func TestImageQueries_NoCategory(t *testing.T) {
	got := ImageQueries(models.Food{Name: "모둠전"})
	assert.Equal(t, []string{"모둠전 food", "모둠전 dish"}, got)
}

func TestRecipeQueries(t *testing.T) {
	tests := []struct {
		name string
		item models.Food
		want []string
	}{
		{
			name: "known dish",
			item: models.Food{Name: "파스타", Category: models.CategoryWestern},
			want: []string{"pasta", "pasta italian", "파스타", "italian"},
		},
		{
			name: "unknown dish",
			item: models.Food{Name: "모둠전", Category: models.CategoryKorean},
			want: []string{"모둠전 korean", "모둠전", "korean"},
		},
		{
			name: "unmapped category",
			item: models.Food{Name: "모둠전", Category: "기타"},
			want: []string{"모둠전 기타", "모둠전", "기타"},
		},
		{
			name: "no cuisine",
			item: models.Food{Name: "모둠전"},
			want: []string{"모둠전"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecipeQueries(tt.item))
		})
	}
}

func TestScoreResult(t *testing.T) {
	r := Result{
		Title:       "Kimchi stew in a bowl",
		Description: "hot kimchi stew",
		Tags:        []string{"Korean", "soup"},
	}
	// kimchi stew: title 3 + description 1; korean: tag 2
	assert.Equal(t, 6, scoreResult(r, []string{"kimchi stew", "korean"}))
	assert.Equal(t, 0, scoreResult(Result{Title: "salad"}, []string{"kimchi stew"}))
}

func TestRankResults(t *testing.T) {
	results := []Result{
		{ID: "a", Title: "plain", URL: "u-a"},
		{ID: "b", Title: "bibimbap", URL: "u-b"},
		{ID: "c", Title: "bibimbap", URL: ""},
		{ID: "d", Title: "also plain", URL: "u-d"},
	}
	ranked := rankResults(results, []string{"bibimbap"})

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"b", "a", "d"}, ids)
}

func TestSearchTerms(t *testing.T) {
	terms := searchTerms(models.Food{Name: "비빔밥", Category: models.CategoryKorean}, "Bibimbap food")
	assert.Equal(t, []string{"bibimbap food", "비빔밥", "bibimbap", "korean"}, terms)
}
