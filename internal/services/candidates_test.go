package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/models"
	"talentrank/candidate-ranker/internal/repositories"
	"talentrank/candidate-ranker/internal/services"
)

type stubStore struct {
	rows []services.Row
	err  error
}

func (s *stubStore) LatestRows(context.Context) ([]services.Row, error) {
	return s.rows, s.err
}

type stubLocal struct {
	rows []services.Row
	err  error
}

func (s *stubLocal) ReadRows() ([]services.Row, error) {
	return s.rows, s.err
}

var _ = Describe("NormalizeRows", func() {
	It("reads Spanish column headers", func() {
		rows := []services.Row{{
			"ID":          "C010",
			"Nombre":      "María García",
			"Habilidades": "Go, Postgres",
			"Experiencia": 4.5,
			"Educación":   "Ingeniería de Sistemas",
			"Correo":      "maria@example.com",
		}}

		candidates := services.NormalizeRows(rows)

		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].ID).To(Equal("C010"))
		Expect(candidates[0].Name).To(Equal("María García"))
		Expect(candidates[0].Skills).To(Equal([]string{"Go", "Postgres"}))
		Expect(candidates[0].Experience).To(Equal(4.5))
		Expect(candidates[0].Education).To(Equal("Ingeniería de Sistemas"))
		Expect(candidates[0].Email).To(Equal("maria@example.com"))
	})

	It("reads English column headers", func() {
		rows := []services.Row{{
			"Id":         "C011",
			"Name":       "John Smith",
			"Skills":     "React, TypeScript",
			"Experience": "6",
			"Education":  "BSc",
			"Email":      "john@example.com",
		}}

		candidates := services.NormalizeRows(rows)

		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].Name).To(Equal("John Smith"))
		Expect(candidates[0].Experience).To(Equal(6.0))
	})

	It("synthesizes ids and names for blank cells", func() {
		rows := []services.Row{
			{"Skills": "go"},
			{"Skills": "python"},
		}

		candidates := services.NormalizeRows(rows)

		Expect(candidates[0].ID).To(Equal("C001"))
		Expect(candidates[0].Name).To(Equal("Candidate 1"))
		Expect(candidates[1].ID).To(Equal("C002"))
	})

	It("coerces numeric id cells to strings", func() {
		rows := []services.Row{{"ID": 7, "Name": "N"}}
		Expect(services.NormalizeRows(rows)[0].ID).To(Equal("7"))
	})
})

var _ = Describe("PreprocessCandidates", func() {
	It("deduplicates by email", func() {
		in := []models.Candidate{
			{ID: "A", Name: "Ana", Email: "ana@example.com"},
			{ID: "B", Name: "Ana Maria", Email: "ana@example.com"},
		}

		out := services.PreprocessCandidates(in)

		Expect(out).To(HaveLen(1))
		Expect(out[0].ID).To(Equal("A"))
	})

	It("deduplicates by name and experience when email is missing", func() {
		in := []models.Candidate{
			{ID: "A", Name: "Ana", Experience: 3},
			{ID: "B", Name: "Ana", Experience: 3},
			{ID: "C", Name: "Ana", Experience: 5},
		}

		out := services.PreprocessCandidates(in)

		Expect(out).To(HaveLen(2))
	})

	It("lowercases and strips skill tokens", func() {
		in := []models.Candidate{{ID: "A", Name: "Ana", Skills: []string{" Go ", "GO", "C++!", ""}}}

		out := services.PreprocessCandidates(in)

		Expect(out[0].Skills).To(Equal([]string{"go", "c"}))
	})

	It("rounds experience to one decimal", func() {
		in := []models.Candidate{{ID: "A", Name: "Ana", Experience: 5.1234}}
		Expect(services.PreprocessCandidates(in)[0].Experience).To(Equal(5.1))
	})
})

var _ = Describe("CandidateSource", func() {
	var tiered *cache.TieredCache

	BeforeEach(func() {
		tiered = cache.NewTieredCache(repositories.NewCacheRepository(nil), cache.NewMemoryStore(100))
	})

	It("prefers the spreadsheet store over the local file", func() {
		store := &stubStore{rows: []services.Row{{"ID": "S1", "Name": "Store"}}}
		local := &stubLocal{rows: []services.Row{{"ID": "L1", "Name": "Local"}}}

		source := services.NewCandidateSource(store, local, tiered, time.Minute)
		candidates := source.LoadCandidates(context.Background())

		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].ID).To(Equal("S1"))
	})

	It("falls back to the local file when the store fails", func() {
		store := &stubStore{err: errors.New("bucket gone")}
		local := &stubLocal{rows: []services.Row{{"ID": "L1", "Name": "Local"}}}

		source := services.NewCandidateSource(store, local, tiered, time.Minute)
		candidates := source.LoadCandidates(context.Background())

		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].ID).To(Equal("L1"))
	})

	It("returns an empty list when every collaborator fails", func() {
		source := services.NewCandidateSource(
			&stubStore{err: errors.New("down")},
			&stubLocal{err: errors.New("missing")},
			tiered, time.Minute)

		Expect(source.LoadCandidates(context.Background())).To(BeEmpty())
	})

	It("caches the normalized list", func() {
		store := &stubStore{rows: []services.Row{{"ID": "S1", "Name": "Store"}}}
		source := services.NewCandidateSource(store, nil, tiered, time.Minute)

		first := source.LoadCandidates(context.Background())
		store.rows = nil
		second := source.LoadCandidates(context.Background())

		Expect(second).To(Equal(first))
	})
})
