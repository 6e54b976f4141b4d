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

// BidHandler - структура для обработки HTTP-запросов по предложениям.
type BidHandler struct {
	Service *lifecycle.Service
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *lifecycle.Service, logger *zap.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateBid обрабатывает запросы для подачи предложения по работе.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var bidReq models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&bidReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bidReq.JobID = chi.URLParam(r, "jobID")
	bidReq.BidderID = actor

	newBid, err := h.Service.SubmitBid(ctx, bidReq)
	if err != nil {
		writeError(w, h.Logger, err, "failed to create bid")
		return
	}

	if err := utils.SendJSON(w, http.StatusCreated, newBid); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// WithdrawBid обрабатывает запросы для отзыва предложения.
func (h *BidHandler) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actor := actorID(r)
	if actor == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	if err := h.Service.WithdrawBid(ctx, chi.URLParam(r, "bidID"), actor); err != nil {
		writeError(w, h.Logger, err, "failed to withdraw bid")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetJobBids обрабатывает запросы для получения списка предложений по работе.
func (h *BidHandler) GetJobBids(w http.ResponseWriter, r *http.Request) {
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

	bids, err := h.Service.ListJobBids(ctx, chi.URLParam(r, "jobID"), actor, limit, offset)
	if err != nil {
		writeError(w, h.Logger, err, "failed to retrieve bids")
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	if err := utils.SendJSON(w, http.StatusOK, bids); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// GetUserBids обрабатывает запросы для получения списка предложений
// пользователя.
func (h *BidHandler) GetUserBids(w http.ResponseWriter, r *http.Request) {
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

	bids, err := h.Service.ListUserBids(ctx, chi.URLParam(r, "userID"), actor, limit, offset)
	if err != nil {
		writeError(w, h.Logger, err, "failed to retrieve bids")
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	if err := utils.SendJSON(w, http.StatusOK, bids); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}
