// internal/recommend/rules.go
package recommend

import (
	"strings"

	"food-recommender/internal/models"
)

// TemperatureRange is an inclusive Celsius interval.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r TemperatureRange) Contains(t float64) bool {
	return t >= r.Min && t <= r.Max
}

// WeatherRule maps a temperature band or a set of condition keywords to the tags and categories
// that suit it. Exactly one of Temperature or Conditions is set.
type WeatherRule struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Temperature *TemperatureRange `json:"temperature,omitempty"`
	Conditions  []string          `json:"conditions,omitempty"`
	Tags        []string          `json:"tags"`
	Categories  []string          `json:"categories"`
	Weight      float64           `json:"weight"`
}

// Matches reports whether the rule applies. desc must already be lower-cased.
func (r WeatherRule) Matches(temperature float64, desc string) bool {
	if r.Temperature != nil && r.Temperature.Contains(temperature) {
		return true
	}
	for _, c := range r.Conditions {
		if strings.Contains(desc, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// MoodRule describes the food that suits a mood.
type MoodRule struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	MoodTags    []string `json:"moodTags"`
	Categories  []string `json:"categories"`
}

// RuleTable is the static rule data consulted by the signal scorers.
type RuleTable struct {
	Weather         []WeatherRule
	DefaultWeather  WeatherRule
	Moods           []MoodRule
	NeutralMood     string
	PopularKeywords []string
}

// MatchWeather returns every rule matching the context, or the default rule when none does.
func (t *RuleTable) MatchWeather(temperature float64, description string) []WeatherRule {
	desc := strings.ToLower(description)
	var matched []WeatherRule
	for _, r := range t.Weather {
		if r.Matches(temperature, desc) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return []WeatherRule{t.DefaultWeather}
	}
	return matched
}

// Mood looks a mood up case-insensitively. Unknown keys resolve to the neutral mood.
func (t *RuleTable) Mood(key string) MoodRule {
	key = strings.ToLower(strings.TrimSpace(key))
	var neutral MoodRule
	for _, m := range t.Moods {
		if m.Key == key {
			return m
		}
		if m.Key == t.NeutralMood {
			neutral = m
		}
	}
	return neutral
}

// DefaultRuleTable returns the built-in rule data.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Weather: []WeatherRule{
			{
				Name:        "cold",
				Description: "hearty food that warms you up on a cold day",
				Temperature: &TemperatureRange{Min: -50, Max: 5},
				Tags:        []string{"따뜻한", "국물", "보양", "전통음식"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese},
				Weight:      1.0,
			},
			{
				Name:        "chilly",
				Description: "warm dishes for a chilly day",
				Temperature: &TemperatureRange{Min: 5, Max: 12},
				Tags:        []string{"따뜻한", "면요리", "국물"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese, models.CategoryJapanese},
				Weight:      1.0,
			},
			{
				Name:        "warm",
				Description: "light food for warm weather",
				Temperature: &TemperatureRange{Min: 25, Max: 30},
				Tags:        []string{"차가움", "달콤한", "시원한", "가벼움"},
				Categories:  []string{models.CategoryDessert, models.CategoryWestern},
				Weight:      1.0,
			},
			{
				Name:        "hot",
				Description: "something cool for a hot day",
				Temperature: &TemperatureRange{Min: 30, Max: 50},
				Tags:        []string{"차가움", "달콤한", "시원한"},
				Categories:  []string{models.CategoryDessert},
				Weight:      1.0,
			},
			{
				Name:        "rainy",
				Description: "warm and spicy food for a rainy day",
				Conditions:  []string{"rain", "drizzle", "thunderstorm", "비"},
				Tags:        []string{"따뜻한", "면요리", "국물", "매운맛"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese, models.CategoryJapanese},
				Weight:      1.0,
			},
			{
				Name:        "sunny",
				Description: "fresh and healthy food for a clear day",
				Conditions:  []string{"clear", "sunny", "맑"},
				Tags:        []string{"신선한", "건강한", "가벼움", "채소"},
				Categories:  []string{models.CategoryWestern, models.CategoryKorean},
				Weight:      1.0,
			},
			{
				Name:        "cloudy",
				Description: "filling food for an overcast day",
				Conditions:  []string{"clouds", "overcast", "구름", "흐림"},
				Tags:        []string{"따뜻한", "면요리", "고기"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese},
				Weight:      1.0,
			},
		},
		DefaultWeather: WeatherRule{
			Name:        "default",
			Description: "popular everyday picks",
			Tags:        []string{"인기메뉴", "따뜻한"},
			Categories:  []string{models.CategoryKorean},
			Weight:      1.0,
		},
		Moods: []MoodRule{
			{
				Key:         "happy",
				Description: "sweet, cheerful food for a happy mood",
				Tags:        []string{"달콤한", "달콤", "달콤함", "달콤한맛", "달콤한음식"},
				MoodTags:    []string{"행복", "기쁨", "즐거움", "만족"},
				Categories:  []string{models.CategoryDessert, models.CategoryWestern, models.CategoryKorean},
			},
			{
				Key:         "excited",
				Description: "bold, spicy food to match the excitement",
				Tags:        []string{"매운맛", "매운", "얼큰한", "자극적인"},
				MoodTags:    []string{"신남", "흥분", "활기", "에너지"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese, models.CategoryJapanese},
			},
			{
				Key:         "relaxed",
				Description: "soft, mild food for a relaxed mood",
				Tags:        []string{"부드러운", "담백한", "가벼운", "건강한"},
				MoodTags:    []string{"편안", "평온", "여유", "안정"},
				Categories:  []string{models.CategoryWestern, models.CategoryKorean, models.CategoryJapanese},
			},
			{
				Key:         "sad",
				Description: "sweet and warm comfort food",
				Tags:        []string{"달콤한", "달콤", "달콤함", "달콤한맛", "달콤한음식", "따뜻한"},
				MoodTags:    []string{"슬픔", "우울", "힘듦", "위로"},
				Categories:  []string{models.CategoryDessert, models.CategoryKorean, models.CategoryChinese},
			},
			{
				Key:         "stressed",
				Description: "spicy food that helps blow off stress",
				Tags:        []string{"매운맛", "매운", "얼큰한", "자극적인", "따뜻한"},
				MoodTags:    []string{"스트레스", "압박", "긴장", "해소"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese, models.CategoryJapanese},
			},
			{
				Key:         "tired",
				Description: "warm, nourishing food that restores energy",
				Tags:        []string{"따뜻한", "보양", "영양", "에너지", "달콤한"},
				MoodTags:    []string{"피곤", "지침", "무기력", "회복"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese},
			},
			{
				Key:         "angry",
				Description: "fiery food to let the anger out",
				Tags:        []string{"매운맛", "매운", "얼큰한", "자극적인", "따뜻한"},
				MoodTags:    []string{"화남", "짜증", "분노", "해소"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese},
			},
			{
				Key:         "neutral",
				Description: "light, healthy everyday food",
				Tags:        []string{"담백한", "가벼운", "건강한", "신선한"},
				MoodTags:    []string{"평범", "보통", "일상", "안정"},
				Categories:  []string{models.CategoryKorean, models.CategoryWestern, models.CategoryJapanese},
			},
			{
				Key:         "hungry",
				Description: "filling food for an empty stomach",
				Tags:        []string{"든든한", "포만감", "영양", "고기", "면요리"},
				MoodTags:    []string{"배고픔", "공복", "욕구", "만족"},
				Categories:  []string{models.CategoryKorean, models.CategoryChinese, models.CategoryJapanese},
			},
		},
		NeutralMood: "neutral",
		PopularKeywords: []string{
			"김치찌개", "파스타", "떡볶이", "라면", "아이스크림", "샐러드", "연어", "케이크",
			"한식", "양식", "디저트", "매운맛", "달콤한", "따뜻한", "차가움", "면요리", "국물",
			"food", "cooking", "recipe", "delicious", "spicy", "sweet", "warm", "cold",
		},
	}
}
