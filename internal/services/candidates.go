package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/models"
)

// candidatesCacheKey holds the normalized candidate list between uploads so
// every scoring request does not renegotiate with the storage collaborator.
const candidatesCacheKey = "candidates-data"

// Row is a raw spreadsheet row keyed by its original column header. Uploaded
// sheets use Spanish or English headers interchangeably; normalization
// accepts both.
type Row map[string]any

// SpreadsheetStore is the object-storage collaborator: it finds the most
// recently uploaded candidate spreadsheet and returns its rows. Parsing the
// spreadsheet itself happens behind this interface.
type SpreadsheetStore interface {
	LatestRows(ctx context.Context) ([]Row, error)
}

// LocalFileReader reads the bundled default spreadsheet from disk.
type LocalFileReader interface {
	ReadRows() ([]Row, error)
}

// CandidateSource produces the normalized candidate list for a scoring
// request. It never fails: collaborator errors degrade to an empty list,
// which the orchestrator replaces with the embedded example set.
type CandidateSource interface {
	LoadCandidates(ctx context.Context) []models.Candidate
}

type candidateSource struct {
	store SpreadsheetStore
	local LocalFileReader
	cache *cache.TieredCache
	ttl   time.Duration
}

func NewCandidateSource(store SpreadsheetStore, local LocalFileReader, tiered *cache.TieredCache, ttl time.Duration) CandidateSource {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &candidateSource{
		store: store,
		local: local,
		cache: tiered,
		ttl:   ttl,
	}
}

func (s *candidateSource) LoadCandidates(ctx context.Context) []models.Candidate {
	if data, ok := s.cache.Get(candidatesCacheKey); ok {
		var cached []models.Candidate
		if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
			slog.Debug("using cached candidate list", "count", len(cached))
			return cached
		}
	}

	rows := s.loadRows(ctx)
	candidates := PreprocessCandidates(NormalizeRows(rows))

	if len(candidates) > 0 {
		if data, err := json.Marshal(candidates); err == nil {
			if err := s.cache.Set(candidatesCacheKey, data, s.ttl); err != nil {
				slog.Warn("candidate list cached in memory tier only", "error", err)
			}
		}
	}

	return candidates
}

func (s *candidateSource) loadRows(ctx context.Context) []Row {
	if s.store != nil {
		rows, err := s.store.LatestRows(ctx)
		if err != nil {
			slog.Warn("spreadsheet store unavailable, trying local file", "error", err)
		} else if len(rows) > 0 {
			slog.Info("loaded candidate rows from spreadsheet store", "count", len(rows))
			return rows
		}
	}

	if s.local != nil {
		rows, err := s.local.ReadRows()
		if err != nil {
			slog.Warn("local candidate file unavailable", "error", err)
		} else if len(rows) > 0 {
			slog.Info("loaded candidate rows from local file", "count", len(rows))
			return rows
		}
	}

	return nil
}

// NormalizeRows converts raw bilingual spreadsheet rows into candidates,
// synthesizing sequence-based ids and names where the sheet left them blank.
func NormalizeRows(rows []Row) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(rows))

	for i, row := range rows {
		skills := splitSkills(rowString(row, "Habilidades", "Skills"))

		id := rowString(row, "ID", "Id")
		if id == "" {
			id = fmt.Sprintf("C%03d", i+1)
		}

		name := rowString(row, "Nombre", "Name")
		if name == "" {
			name = fmt.Sprintf("Candidate %d", i+1)
		}

		candidates = append(candidates, models.Candidate{
			ID:         id,
			Name:       name,
			Skills:     skills,
			Experience: rowFloat(row, "Experiencia", "Experience"),
			Education:  rowString(row, "Educacion", "Educación", "Education"),
			Email:      rowString(row, "Email", "Correo"),
		})
	}

	return candidates
}

// PreprocessCandidates deduplicates by email or by (name, experience) and
// normalizes skills to trimmed lowercase tokens.
func PreprocessCandidates(candidates []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(candidates))

	for _, c := range candidates {
		duplicate := false
		for _, seen := range out {
			if (c.Email != "" && seen.Email == c.Email) ||
				(seen.Name == c.Name && seen.Experience == c.Experience) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		c.Skills = normalizeSkills(c.Skills)
		c.Experience = math.Round(c.Experience*10) / 10
		out = append(out, c)
	}

	return out
}

// ExampleCandidates is the embedded minimal data set used when no candidate
// source yields anything; it keeps the ranking pipeline exercisable with no
// configured data.
func ExampleCandidates() []models.Candidate {
	return []models.Candidate{
		{
			ID:         "C001",
			Name:       "John Doe",
			Skills:     []string{"React", "TypeScript", "NextJS", "TailwindCSS"},
			Experience: 5.2,
			Education:  "Computer Science Engineer, National University",
			Email:      "john.doe@example.com",
		},
		{
			ID:         "C002",
			Name:       "Jane Smith",
			Skills:     []string{"UI/UX", "Figma", "HTML", "CSS", "JavaScript"},
			Experience: 3.5,
			Education:  "UX/UI Designer, Google Certification",
			Email:      "jane.smith@example.com",
		},
		{
			ID:         "C003",
			Name:       "Michael Johnson",
			Skills:     []string{"Python", "Django", "SQL", "React", "AWS"},
			Experience: 7.8,
			Education:  "Master in Data Science, Technology University",
			Email:      "michael.johnson@example.com",
		},
	}
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))

	for _, skill := range skills {
		norm := strings.ToLower(strings.TrimSpace(skill))
		norm = strings.Map(func(r rune) rune {
			if 'a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == ' ' {
				return r
			}
			return -1
		}, norm)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}

	return out
}

func rowString(row Row, keys ...string) string {
	for _, key := range keys {
		if v, ok := row[key]; ok {
			switch value := v.(type) {
			case string:
				if s := strings.TrimSpace(value); s != "" {
					return s
				}
			case float64:
				return strconv.FormatFloat(value, 'f', -1, 64)
			case int:
				return strconv.Itoa(value)
			}
		}
	}
	return ""
}

func rowFloat(row Row, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := row[key]; ok {
			switch value := v.(type) {
			case float64:
				return value
			case int:
				return float64(value)
			case string:
				if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
					return f
				}
			}
		}
	}
	return 0
}
