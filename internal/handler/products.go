package handler

import "net/http"

// CreditScore returns the itemised credit score of the account
func (h *Handler) CreditScore(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	breakdown, err := h.svc.CreditScore(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Eligibility returns the products the account qualifies for
func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := h.svc.Eligibility(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) ApplyCredit(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req creditRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	credit, err := h.svc.ApplyCredit(r.Context(), userID, accountID, req.Amount, req.TermMonths)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, credit)
}

func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	credits, err := h.svc.ListCredits(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credits)
}

func (h *Handler) RepayCredit(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	creditID, err := pathID(r, "creditID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	credit, err := h.svc.RepayCredit(r.Context(), userID, accountID, creditID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credit)
}

func (h *Handler) PayOffCredit(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	creditID, err := pathID(r, "creditID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	credit, err := h.svc.PayOffCredit(r.Context(), userID, accountID, creditID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credit)
}

func (h *Handler) CreditSchedule(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	creditID, err := pathID(r, "creditID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	schedule, err := h.svc.CreditSchedule(r.Context(), userID, accountID, creditID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (h *Handler) ApplyMortgage(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req mortgageRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	mortgage, err := h.svc.ApplyMortgage(r.Context(), userID, accountID, req.PropertyCost, req.DownPayment, req.TermYears)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mortgage)
}

func (h *Handler) ListMortgages(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mortgages, err := h.svc.ListMortgages(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mortgages)
}

func (h *Handler) RepayMortgage(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mortgageID, err := pathID(r, "mortgageID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mortgage, err := h.svc.RepayMortgage(r.Context(), userID, accountID, mortgageID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mortgage)
}

func (h *Handler) OpenDeposit(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req depositRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	deposit, err := h.svc.OpenDeposit(r.Context(), userID, accountID, req.Amount, req.TermMonths)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deposit)
}

func (h *Handler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deposits, err := h.svc.ListDeposits(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits)
}
