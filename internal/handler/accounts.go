package handler

import "net/http"

// CreateAccount opens another account for the caller
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.svc.OpenAccount(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// ListAccounts returns the caller's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, _, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	accounts, err := h.svc.ListAccounts(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.svc.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	txns, err := h.svc.ListTransactions(r.Context(), userID, accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req amountRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.svc.TopUp(r.Context(), userID, accountID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req amountRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.svc.Withdraw(r.Context(), userID, accountID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Transfer moves money from the route account to another account
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req transferRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.svc.Transfer(r.Context(), userID, accountID, req.ToAccountID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
