package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/SuperFreelas/google-ads-gateway/internal/ads"
	"github.com/SuperFreelas/google-ads-gateway/internal/apperr"
	"github.com/SuperFreelas/google-ads-gateway/internal/observability"
)

type Handler struct {
	Svc *ads.Service
}

func NewHandler(svc *ads.Service) *Handler {
	return &Handler{Svc: svc}
}

type errorBody struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	observability.RequestErrors.WithLabelValues(string(kind)).Inc()
	log.Warn().Str("path", r.URL.Path).Str("kind", string(kind)).Err(err).Msg("request failed")
	writeJSON(w, kind.HTTPStatus(), errorBody{ErrorKind: string(kind), Message: apperr.MessageOf(err)})
}

func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Svc.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) Campaigns(w http.ResponseWriter, r *http.Request) {
	req, err := ads.NewCampaignListRequest(
		chi.URLParam(r, "customer_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	campaigns, err := h.Svc.ListCampaigns(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := ads.NewPerformanceRequest(
		chi.URLParam(r, "customer_id"),
		q.Get("campaign_ids"),
		q.Get("date_range"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.Svc.GetPerformance(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) UpdateBidBudget(w http.ResponseWriter, r *http.Request) {
	var req ads.BidBudgetUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.New(apperr.Validation, "invalid JSON body: %s", err))
		return
	}
	result, err := h.Svc.UpdateBidBudget(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) UpdateBiddingStrategy(w http.ResponseWriter, r *http.Request) {
	var req ads.BiddingStrategyUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.New(apperr.Validation, "invalid JSON body: %s", err))
		return
	}
	result, err := h.Svc.UpdateBiddingStrategy(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
