package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"talentrank/candidate-ranker/internal/metrics"
	"talentrank/candidate-ranker/internal/models"
	"talentrank/candidate-ranker/internal/services"
)

type ScoreHandler struct {
	orchestrator services.Orchestrator
	worker       services.Worker
}

func NewScoreHandler(orchestrator services.Orchestrator, worker services.Worker) *ScoreHandler {
	return &ScoreHandler{
		orchestrator: orchestrator,
		worker:       worker,
	}
}

// HandleScore handles POST /score
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	start := time.Now()

	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.RecordRequest("invalid", time.Since(start))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	results, err := h.orchestrator.ScoreCandidates(c.Context(), req.JobDescription)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			metrics.RecordRequest("invalid", time.Since(start))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Message,
			})
		}

		metrics.RecordRequest("error", time.Since(start))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.RecordRequest("ok", time.Since(start))
	return c.JSON(results)
}

// HandleScoreAsync handles POST /score/async
func (h *ScoreHandler) HandleScoreAsync(c *fiber.Ctx) error {
	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	jobID, err := h.worker.EnqueueScore(req.JobDescription)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Scoring worker is not accepting jobs",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.ScoreJobResponse{
		JobID:  jobID,
		Status: "started",
	})
}

// HandleScoreStatus handles GET /score/status/:id
func (h *ScoreHandler) HandleScoreStatus(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job ID required",
		})
	}

	job, ok := h.worker.GetJob(jobID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(job)
}
