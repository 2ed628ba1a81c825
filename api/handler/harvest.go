package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/aeroharvest/harvest"
	"github.com/use-agent/aeroharvest/models"
	"github.com/use-agent/aeroharvest/store"
)

// HarvesterFactory builds a harvester for one job request. The server owns
// the fetch engine and selectors; the request only narrows letters and
// concurrency.
type HarvesterFactory func(req models.HarvestRequest) (*harvest.Harvester, error)

// jobStore holds all in-flight and completed harvest jobs. Stored job
// values are never mutated: state changes swap in a fresh *HarvestJob, so
// concurrent pollers only ever see complete snapshots.
var jobStore sync.Map

func init() {
	// Background goroutine to expire harvest jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			jobStore.Range(func(key, value any) bool {
				job := value.(*models.HarvestJob)
				if job.CreatedAt < cutoff {
					jobStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostHarvest returns a handler for POST /api/v1/harvest.
// It validates the request, creates a job, and launches the crawl in the
// background. When a store is attached, completed jobs are also persisted.
func PostHarvest(factory HarvesterFactory, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.HarvestRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		h, err := factory(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		jobID := "harvest-" + randomID()
		createdAt := time.Now().Unix()
		jobStore.Store(jobID, &models.HarvestJob{
			ID:        jobID,
			Status:    "processing",
			CreatedAt: createdAt,
		})

		go runHarvest(h, jobID, createdAt, st)

		c.JSON(http.StatusOK, models.HarvestResponse{
			ID:     jobID,
			Status: "processing",
		})
	}
}

// GetHarvest returns a handler for GET /api/v1/harvest/:id.
func GetHarvest() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := jobStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "harvest job not found",
				},
			})
			return
		}

		job := val.(*models.HarvestJob)
		c.JSON(http.StatusOK, models.HarvestStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Count:     job.Count,
			ElapsedMs: job.ElapsedMs,
			Records:   job.Records,
			Error:     job.Error,
		})
	}
}

// runHarvest drives one background harvest and swaps the finished job
// snapshot into the store. The in-flight job value is left untouched, so
// pollers racing the finish read either "processing" or the complete
// outcome, never a half-written job. A failed run keeps no partial records.
func runHarvest(h *harvest.Harvester, jobID string, createdAt int64, st *store.Store) {
	result, err := h.Run(context.Background())
	if err != nil {
		slog.Error("harvest job failed", "id", jobID, "error", err)
		jobStore.Store(jobID, &models.HarvestJob{
			ID:        jobID,
			Status:    "failed",
			Error:     errorDetail(err),
			CreatedAt: createdAt,
		})
		return
	}

	done := &models.HarvestJob{
		ID:        jobID,
		Status:    "completed",
		Count:     len(result.Records),
		ElapsedMs: result.Elapsed.Milliseconds(),
		Records:   result.Records,
		CreatedAt: createdAt,
	}
	jobStore.Store(jobID, done)

	if st != nil {
		if err := st.SaveRecords(context.Background(), result.Records); err != nil {
			slog.Error("persist harvest records", "id", jobID, "error", err)
		}
	}

	slog.Info("harvest job finished",
		"id", jobID,
		"records", done.Count,
		"elapsed_ms", done.ElapsedMs,
	)
}

func errorDetail(err error) *models.ErrorDetail {
	var herr *models.HarvestError
	if errors.As(err, &herr) {
		return herr.ToDetail()
	}
	return &models.ErrorDetail{Code: models.ErrCodeInternal, Message: err.Error()}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
