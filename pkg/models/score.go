package models

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns a sortable order, lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Difficulty estimates implementation effort for a recommendation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recommendation is one concrete improvement suggestion attached to a
// report.
type Recommendation struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	Difficulty  Difficulty  `json:"difficulty"`
	Impact      ImpactLevel `json:"impact"`
	Category    string      `json:"category"` // Component the advice targets
	CodeExample string      `json:"code_example,omitempty"`
	Resources   []string    `json:"resources,omitempty"`
}

// ScoreComponent is one weighted slice of a composite score. MaxScore is
// the component's weight, so the composite total is the plain sum of
// component scores.
type ScoreComponent struct {
	Name       string   `json:"name"`
	Score      float64  `json:"score"`
	MaxScore   float64  `json:"max_score"`
	Percentage float64  `json:"percentage"` // Score/MaxScore * 100
	Issues     []string `json:"issues,omitempty"`
	Strengths  []string `json:"strengths,omitempty"`
}

// CompositeScore is a weighted total over ordered components with its
// letter grade.
type CompositeScore struct {
	Total      float64          `json:"total"` // [0, 100]
	Grade      string           `json:"grade"`
	Components []ScoreComponent `json:"components"`
}

// Grade maps a numeric score to a US-style letter grade.
func Grade(score float64) string {
	switch {
	case score >= 97:
		return "A+"
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 73:
		return "C"
	case score >= 70:
		return "C-"
	case score >= 67:
		return "D+"
	case score >= 63:
		return "D"
	case score >= 60:
		return "D-"
	default:
		return "F"
	}
}
