package types

// TimelineEvent is one entry of the wedding-day schedule.
type TimelineEvent struct {
	Time  string `json:"time" validate:"max=64"`
	Label string `json:"label" validate:"required,max=200"`
}

// Recommendation is a guest-facing suggestion: attractions, dining, shopping
// and lodging all share this shape.
type Recommendation struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Address     string `json:"address,omitempty" validate:"max=500"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

type FAQ struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=4000"`
}
