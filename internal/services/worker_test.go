package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"talentrank/candidate-ranker/internal/models"
	"talentrank/candidate-ranker/internal/services"
)

// stubOrchestrator returns a canned result or error for every request.
type stubOrchestrator struct {
	results []models.ScoredCandidate
	err     error
}

func (s *stubOrchestrator) ScoreCandidates(context.Context, string) ([]models.ScoredCandidate, error) {
	return s.results, s.err
}

var _ = Describe("Worker", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("processes an enqueued job to completion", func() {
		orch := &stubOrchestrator{results: []models.ScoredCandidate{
			{Candidate: models.Candidate{ID: "C001"}, Score: 80},
		}}

		w := services.NewWorker(orch, 1, 10)
		w.Start(ctx)
		defer w.Stop()

		jobID, err := w.EnqueueScore("Backend engineer with Go experience")
		Expect(err).ToNot(HaveOccurred())
		Expect(jobID).ToNot(BeEmpty())

		Eventually(func() models.ScoreJobStatus {
			job, _ := w.GetJob(jobID)
			return job.Status
		}, time.Second, 10*time.Millisecond).Should(Equal(models.JobCompleted))

		job, ok := w.GetJob(jobID)
		Expect(ok).To(BeTrue())
		Expect(job.Results).To(HaveLen(1))
		Expect(job.Error).To(BeEmpty())
	})

	It("records a failed job with its error message", func() {
		orch := &stubOrchestrator{err: &services.ValidationError{Message: "jobDescription must be between 10 and 200 characters, got 5"}}

		w := services.NewWorker(orch, 1, 10)
		w.Start(ctx)
		defer w.Stop()

		jobID, err := w.EnqueueScore("short")
		Expect(err).ToNot(HaveOccurred())

		Eventually(func() models.ScoreJobStatus {
			job, _ := w.GetJob(jobID)
			return job.Status
		}, time.Second, 10*time.Millisecond).Should(Equal(models.JobError))

		job, _ := w.GetJob(jobID)
		Expect(job.Error).To(ContainSubstring("between 10 and 200"))
	})

	It("reports unknown job ids", func() {
		w := services.NewWorker(&stubOrchestrator{}, 1, 10)
		_, ok := w.GetJob("nope")
		Expect(ok).To(BeFalse())
	})

	It("rejects enqueues after Stop", func() {
		w := services.NewWorker(&stubOrchestrator{}, 1, 10)
		w.Start(ctx)
		w.Stop()

		_, err := w.EnqueueScore("Backend engineer with Go experience")
		Expect(err).To(MatchError(services.ErrWorkerStopped))
	})

	It("evicts the oldest tracked job beyond capacity", func() {
		orch := &stubOrchestrator{results: []models.ScoredCandidate{}}

		w := services.NewWorker(orch, 1, 2)
		w.Start(ctx)
		defer w.Stop()

		first, err := w.EnqueueScore("Backend engineer with Go experience")
		Expect(err).ToNot(HaveOccurred())
		second, err := w.EnqueueScore("Backend engineer with Go experience")
		Expect(err).ToNot(HaveOccurred())
		third, err := w.EnqueueScore("Backend engineer with Go experience")
		Expect(err).ToNot(HaveOccurred())

		_, ok := w.GetJob(first)
		Expect(ok).To(BeFalse())
		_, ok = w.GetJob(second)
		Expect(ok).To(BeTrue())
		_, ok = w.GetJob(third)
		Expect(ok).To(BeTrue())
	})
})
