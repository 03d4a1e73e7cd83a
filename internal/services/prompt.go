package services

import (
	"fmt"
	"strings"

	"talentrank/candidate-ranker/internal/models"
)

// Field truncation bounds keep the per-batch payload small. A spreadsheet
// with an essay in the education column should not blow up token cost.
const (
	maxJobDescriptionChars = 400
	maxEducationChars      = 120
	maxSkillsPerCandidate  = 15
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SystemPrompt returns the fixed scoring instructions shared by every batch.
func (pb *PromptBuilder) SystemPrompt() string {
	return `You are an expert HR professional with 15 years of experience in technical matching.
Analyze the following candidates and assign a score from 0-100 considering:
1. Exact match of technical skills (50% weight)
2. Relevant experience measured in years (30% weight)
3. Education and certifications (20% weight)

Respond EXCLUSIVELY with valid JSON using this format:
{
  "candidates": [
    {
      "id": "string",
      "score": number,
      "highlights": string[]
    }
  ]
}`
}

// BuildBatchPrompt renders one candidate group against the job description.
func (pb *PromptBuilder) BuildBatchPrompt(jobDescription string, candidates []models.Candidate) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "**Position to fill:**\n%s\n\n**Candidates to evaluate:**\n",
		truncate(jobDescription, maxJobDescriptionChars))

	for i, c := range candidates {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		skills := c.Skills
		if len(skills) > maxSkillsPerCandidate {
			skills = skills[:maxSkillsPerCandidate]
		}

		fmt.Fprintf(&sb, "ID: %s\nSkills: %s\nExperience: %.1f years\nEducation: %s",
			c.ID,
			strings.Join(skills, ", "),
			c.Experience,
			truncate(c.Education, maxEducationChars))
	}

	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
