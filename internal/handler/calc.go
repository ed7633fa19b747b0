package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/finance"
)

// KeyRate returns the current mortgage base rate and its source
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	q := h.svc.KeyRate(r.Context())
	writeJSON(w, http.StatusOK, keyRateResponse{Rate: q.Rate, Source: string(q.Source), FetchedAt: q.FetchedAt})
}

func (h *Handler) CalcAmortization(w http.ResponseWriter, r *http.Request) {
	var req amortizationRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	am, err := finance.ComputeAmortization(req.Principal, req.Rate, req.TermMonths)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, am)
}

func (h *Handler) CalcSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	start := time.Now().UTC()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	schedule, err := finance.GenerateSchedule(req.Principal, req.Rate, req.TermMonths, start)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (h *Handler) CalcDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositQuoteRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	quote, err := h.svc.QuoteDeposit(req.Amount, req.TermMonths, req.Rate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) CalcMortgage(w http.ResponseWriter, r *http.Request) {
	var req mortgageRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	quote, err := h.svc.QuoteMortgage(r.Context(), req.PropertyCost, req.DownPayment, req.TermYears)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
