package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"talentrank/candidate-ranker/internal/models"
)

var ErrWorkerStopped = errors.New("worker is stopped")

// Worker runs scoring requests asynchronously so clients can poll instead of
// holding a connection open through oracle latency. Job state is in-memory
// and bounded; completed jobs age out under capacity pressure.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueScore(jobDescription string) (string, error)
	GetJob(id string) (*models.ScoreJob, bool)
}

type scoreTask struct {
	jobID          string
	jobDescription string
}

type worker struct {
	orchestrator Orchestrator
	jobQueue     chan scoreTask
	concurrency  int
	wg           sync.WaitGroup
	stopChan     chan struct{}

	mu       sync.Mutex
	jobs     map[string]*models.ScoreJob
	jobOrder []string
	maxJobs  int
}

func NewWorker(orchestrator Orchestrator, concurrency, maxJobs int) Worker {
	if concurrency <= 0 {
		concurrency = 3
	}
	if maxJobs <= 0 {
		maxJobs = 100
	}

	return &worker{
		orchestrator: orchestrator,
		jobQueue:     make(chan scoreTask, maxJobs),
		concurrency:  concurrency,
		stopChan:     make(chan struct{}),
		jobs:         make(map[string]*models.ScoreJob),
		maxJobs:      maxJobs,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting scoring worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Scoring worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping scoring worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Scoring worker stopped")
}

// EnqueueScore implements Worker.
func (w *worker) EnqueueScore(jobDescription string) (string, error) {
	select {
	case <-w.stopChan:
		return "", ErrWorkerStopped
	default:
	}

	jobID := uuid.New().String()

	w.mu.Lock()
	w.storeLocked(&models.ScoreJob{ID: jobID, Status: models.JobProcessing})
	w.mu.Unlock()

	select {
	case w.jobQueue <- scoreTask{jobID: jobID, jobDescription: jobDescription}:
		log.Printf("📥 Scoring job %s enqueued\n", jobID)
		return jobID, nil
	case <-w.stopChan:
		return "", ErrWorkerStopped
	}
}

// GetJob implements Worker.
func (w *worker) GetJob(id string) (*models.ScoreJob, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	job, ok := w.jobs[id]
	if !ok {
		return nil, false
	}

	copied := *job
	return &copied, true
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case task := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, task.jobID)

			results, err := w.orchestrator.ScoreCandidates(ctx, task.jobDescription)

			w.mu.Lock()
			if err != nil {
				log.Printf("❌ Worker #%d failed job %s: %v\n", workerID, task.jobID, err)
				w.updateLocked(&models.ScoreJob{
					ID:     task.jobID,
					Status: models.JobError,
					Error:  err.Error(),
				})
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, task.jobID)
				w.updateLocked(&models.ScoreJob{
					ID:      task.jobID,
					Status:  models.JobCompleted,
					Results: results,
				})
			}
			w.mu.Unlock()
		}
	}
}

// storeLocked inserts a new job and evicts the oldest tracked job beyond
// capacity. Caller holds w.mu.
func (w *worker) storeLocked(job *models.ScoreJob) {
	if _, exists := w.jobs[job.ID]; !exists {
		w.jobOrder = append(w.jobOrder, job.ID)
	}
	w.jobs[job.ID] = job

	for len(w.jobOrder) > w.maxJobs {
		oldest := w.jobOrder[0]
		w.jobOrder = w.jobOrder[1:]
		delete(w.jobs, oldest)
	}
}

// updateLocked replaces the state of a tracked job. An id already evicted
// under capacity pressure stays evicted. Caller holds w.mu.
func (w *worker) updateLocked(job *models.ScoreJob) {
	if _, exists := w.jobs[job.ID]; !exists {
		return
	}
	w.jobs[job.ID] = job
}
