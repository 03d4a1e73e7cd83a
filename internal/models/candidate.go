package models

// Candidate is a normalized profile loaded from the spreadsheet store.
// Immutable once loaded for a given request.
type Candidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Skills     []string `json:"skills"`
	Experience float64  `json:"experience"`
	Education  string   `json:"education"`
	Email      string   `json:"email"`
}

// ScoredCandidate is a candidate with its oracle (or fallback) score attached.
type ScoredCandidate struct {
	Candidate
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights"`
}
