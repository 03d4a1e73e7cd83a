package services

import (
	"fmt"
	"strings"

	"talentrank/candidate-ranker/internal/models"
)

// Heuristic weights mirror the oracle's scoring rubric: skills 50%,
// experience 30%, education 20%.
const (
	heuristicSkillsWeight     = 0.5
	heuristicExperienceWeight = 0.3
	heuristicEducationWeight  = 0.2
	heuristicExperienceCap    = 10.0
)

// HeuristicScore produces a deterministic stand-in score when the oracle is
// unavailable for a batch: lexical overlap between the candidate's skills and
// the job description, experience years with a capped contribution, and
// presence of an education field.
func HeuristicScore(jobDescription string, candidate models.Candidate) models.ScoredCandidate {
	jobTokens := tokenize(jobDescription)

	matched := 0
	var matchedSkills []string
	for _, skill := range candidate.Skills {
		for token := range tokenize(skill) {
			if _, ok := jobTokens[token]; ok {
				matched++
				matchedSkills = append(matchedSkills, skill)
				break
			}
		}
	}

	skillScore := 0.0
	if len(candidate.Skills) > 0 {
		skillScore = float64(matched) / float64(len(candidate.Skills)) * 100
	}

	experience := candidate.Experience
	if experience > heuristicExperienceCap {
		experience = heuristicExperienceCap
	}
	experienceScore := experience / heuristicExperienceCap * 100

	educationScore := 0.0
	if strings.TrimSpace(candidate.Education) != "" {
		educationScore = 100.0
	}

	score := heuristicSkillsWeight*skillScore +
		heuristicExperienceWeight*experienceScore +
		heuristicEducationWeight*educationScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	highlights := []string{"Heuristic score (scoring model unavailable)"}
	if len(matchedSkills) > 0 {
		highlights = append(highlights, "Matching skills: "+strings.Join(matchedSkills, ", "))
	}
	if candidate.Experience > 0 {
		highlights = append(highlights, fmt.Sprintf("%.1f years of experience", candidate.Experience))
	}

	return models.ScoredCandidate{
		Candidate:  candidate,
		Score:      score,
		Highlights: highlights,
	}
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '+' || r == '#')
	}) {
		tokens[field] = struct{}{}
	}
	return tokens
}
