package models

// Recommendation is a recipe-style suggestion served from a fixed catalog.
// Tags are matched against a user's preference tags to personalize ordering.
type Recommendation struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	PrepMinutes int      `json:"prepMinutes"`
	Tags        []string `json:"tags"`
}
