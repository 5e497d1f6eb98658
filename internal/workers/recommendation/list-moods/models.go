// internal/workers/recommendation/list-moods/models.go
package listmoods

// Input is empty; the task takes no variables.
type Input struct{}

type Mood struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

type Output struct {
	Moods []Mood `json:"moods"`
}
