// internal/enrichment/queries.go
package enrichment

import (
	"sort"
	"strings"

	"food-recommender/internal/models"
)

// englishNames maps catalog names to the English phrasings providers index best.
var englishNames = map[string][]string{
	"불고기":   {"bulgogi", "korean beef"},
	"김치찌개":  {"kimchi stew", "kimchi jjigae"},
	"비빔밥":   {"bibimbap"},
	"탕수육":   {"tangsuyuk", "sweet and sour pork"},
	"짜장면":   {"jjajangmyeon", "black bean noodles"},
	"짬뽕":    {"jjamppong", "spicy seafood noodle soup"},
	"초밥":    {"sushi"},
	"스시":    {"sushi"},
	"라멘":    {"ramen"},
	"우동":    {"udon"},
	"돈까스":   {"tonkatsu", "pork cutlet"},
	"스테이크":  {"steak"},
	"파스타":   {"pasta"},
	"피자":    {"pizza"},
	"햄버거":   {"burger"},
	"샐러드":   {"salad"},
	"치킨":    {"fried chicken"},
	"떡볶이":   {"tteokbokki", "spicy rice cakes"},
	"순두부찌개": {"sundubu jjigae", "soft tofu stew"},
	"된장찌개":  {"doenjang jjigae", "soybean paste stew"},
	"갈비":    {"galbi", "korean ribs"},
	"삼겹살":   {"samgyeopsal", "pork belly"},
	"잡채":    {"japchae", "glass noodles"},
	"김밥":    {"kimbap"},
	"라면":    {"ramyeon", "instant noodles"},
	"만두":    {"mandu", "dumplings"},
	"냉면":    {"naengmyeon", "cold noodles"},
	"칼국수":   {"kalguksu", "knife cut noodles"},
	"미역국":   {"miyeok guk", "seaweed soup"},
	"티라미수":  {"tiramisu"},
	"케이크":   {"cake"},
	"아이스크림": {"ice cream"},
}

var categoryCuisine = map[string]string{
	models.CategoryKorean:   "korean",
	models.CategoryChinese:  "chinese",
	models.CategoryJapanese: "japanese",
	models.CategoryWestern:  "western",
	models.CategoryDessert:  "dessert",
}

// nameCuisine overrides the category cuisine for dishes whose category is too coarse.
var nameCuisine = map[string]string{
	"파스타":  "italian",
	"피자":   "italian",
	"스테이크": "western",
	"초밥":   "japanese",
	"라멘":   "japanese",
	"짜장면":  "chinese",
	"짬뽕":   "chinese",
}

// cuisineOf resolves the cuisine word for queries. Categories without a mapping are used as is.
func cuisineOf(item models.Food) string {
	name := strings.TrimSpace(item.Name)
	if c, ok := nameCuisine[name]; ok {
		return c
	}
	category := strings.TrimSpace(item.Category)
	if c, ok := categoryCuisine[category]; ok {
		return c
	}
	return category
}

// ImageQueries lists photo-search variants: English phrasings with the cuisine first, then the
// catalog name, then the cuisine alone.
func ImageQueries(item models.Food) []string {
	name := strings.TrimSpace(item.Name)
	cuisine := cuisineOf(item)

	var out []string
	add := func(parts ...string) {
		for _, p := range parts {
			if p == "" {
				return
			}
		}
		out = append(out, strings.Join(parts, " "))
	}

	variants := append(append([]string{}, englishNames[name]...), name)
	for _, en := range variants {
		if cuisine != "" {
			add(en, "authentic", cuisine, "dish")
			add(en, cuisine, "cuisine")
		}
		add(en, "food")
		add(en, "dish")
	}
	if cuisine != "" {
		add(cuisine, "cuisine")
	}
	return dedupe(out)
}

// RecipeQueries lists recipe-search variants: the English name, the English name with the cuisine,
// the catalog name, then the cuisine alone.
func RecipeQueries(item models.Food) []string {
	name := strings.TrimSpace(item.Name)
	cuisine := cuisineOf(item)

	eng := name
	var out []string
	if names := englishNames[name]; len(names) > 0 {
		eng = names[0]
		out = append(out, eng)
	}
	if cuisine != "" && eng != "" {
		out = append(out, eng+" "+cuisine)
	}
	if name != "" {
		out = append(out, name)
	}
	if cuisine != "" {
		out = append(out, cuisine)
	}
	return dedupe(out)
}

// searchTerms are the lowercase phrases a result is scored against.
func searchTerms(item models.Food, query string) []string {
	terms := []string{query, item.Name}
	terms = append(terms, englishNames[strings.TrimSpace(item.Name)]...)
	terms = append(terms, cuisineOf(item))

	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return dedupe(out)
}

// scoreResult awards 3 per term found in the title, 2 per term found in any tag and 1 per term
// found in the description.
func scoreResult(r Result, terms []string) int {
	title := strings.ToLower(r.Title)
	desc := strings.ToLower(r.Description)
	tags := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = strings.ToLower(t)
	}

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 3
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				score += 2
				break
			}
		}
		if strings.Contains(desc, term) {
			score++
		}
	}
	return score
}

// rankResults drops results without a URL and orders the rest by score, keeping provider order on
// ties.
func rankResults(results []Result, terms []string) []Result {
	type scored struct {
		r     Result
		score int
	}
	list := make([]scored, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		list = append(list, scored{r: r, score: scoreResult(r, terms)})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	out := make([]Result, len(list))
	for i, s := range list {
		out[i] = s.r
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
