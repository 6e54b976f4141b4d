package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/optimald/medequiptech/internal/lifecycle"
	"github.com/optimald/medequiptech/internal/models"
	"github.com/optimald/medequiptech/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// JobHandler - структура для обработки HTTP-запросов по работам.
type JobHandler struct {
	Service *lifecycle.Service
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewJobHandler создает новый экземпляр JobHandler.
func NewJobHandler(service *lifecycle.Service, logger *zap.Logger, timeout time.Duration) *JobHandler {
	return &JobHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateJob обрабатывает запросы для создания работы.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var jobReq models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&jobReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.Service.CreateJob(ctx, jobReq, actor)
	if err != nil {
		writeError(w, h.Logger, err, "failed to create job")
		return
	}

	if err := utils.SendJSON(w, http.StatusCreated, job); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// GetJobSummary обрабатывает запросы для получения публичной сводки по работе.
func (h *JobHandler) GetJobSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.GetJobSummary(ctx, chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, h.Logger, err, "failed to retrieve job")
		return
	}

	if err := utils.SendJSON(w, http.StatusOK, summary); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// CancelJob обрабатывает запросы для отмены работы до присуждения.
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	job, err := h.Service.CancelJob(ctx, chi.URLParam(r, "jobID"), actor)
	if err != nil {
		writeError(w, h.Logger, err, "failed to cancel job")
		return
	}

	if err := utils.SendJSON(w, http.StatusOK, job); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// AwardJob обрабатывает запросы для присуждения работы.
func (h *JobHandler) AwardJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var awardReq models.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&awardReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	award, err := h.Service.AwardJob(ctx, chi.URLParam(r, "jobID"), awardReq.BidID, actor, awardReq.Amount, awardReq.Notes)
	if err != nil {
		writeError(w, h.Logger, err, "failed to award job")
		return
	}

	if err := utils.SendJSON(w, http.StatusCreated, award); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// UpdateJobStatus обрабатывает запросы исполнителя на смену статуса
// выполнения работы.
func (h *JobHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var statusReq struct {
		Status models.JobStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.Service.UpdateExecutionStatus(ctx, chi.URLParam(r, "jobID"), actor, statusReq.Status)
	if err != nil {
		writeError(w, h.Logger, err, "failed to update job status")
		return
	}

	if err := utils.SendJSON(w, http.StatusOK, job); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// GetUserAwardedJobs обрабатывает запросы для получения работ, присужденных
// пользователю.
func (h *JobHandler) GetUserAwardedJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.Service.ListUserAwardedJobs(ctx, chi.URLParam(r, "userID"), actor, limit, offset)
	if err != nil {
		writeError(w, h.Logger, err, "failed to retrieve awarded jobs")
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	if err := utils.SendJSON(w, http.StatusOK, jobs); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}
