package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Middlewares wraps the route groups. Any of them may be nil.
type Middlewares struct {
	Logging    mux.MiddlewareFunc
	Auth       mux.MiddlewareFunc
	LoginLimit mux.MiddlewareFunc
}

// NewRouter registers every route of the API.
func NewRouter(h *Handler, mw Middlewares, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()
	if mw.Logging != nil {
		r.Use(mw.Logging)
	}

	// Public routes
	auth := r.NewRoute().Subrouter()
	if mw.LoginLimit != nil {
		auth.Use(mw.LoginLimit)
	}
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
	r.HandleFunc("/calc/amortization", h.CalcAmortization).Methods(http.MethodPost)
	r.HandleFunc("/calc/schedule", h.CalcSchedule).Methods(http.MethodPost)
	r.HandleFunc("/calc/deposit", h.CalcDeposit).Methods(http.MethodPost)
	r.HandleFunc("/calc/mortgage", h.CalcMortgage).Methods(http.MethodPost)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	// Protected routes
	api := r.PathPrefix("/accounts").Subrouter()
	if mw.Auth != nil {
		api.Use(mw.Auth)
	}
	api.HandleFunc("", h.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("", h.ListAccounts).Methods(http.MethodGet)

	acc := api.PathPrefix("/{id:[0-9]+}").Subrouter()
	acc.HandleFunc("", h.GetAccount).Methods(http.MethodGet)
	acc.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	acc.HandleFunc("/topup", h.TopUp).Methods(http.MethodPost)
	acc.HandleFunc("/withdraw", h.Withdraw).Methods(http.MethodPost)
	acc.HandleFunc("/transfer", h.Transfer).Methods(http.MethodPost)
	acc.HandleFunc("/credit-score", h.CreditScore).Methods(http.MethodGet)
	acc.HandleFunc("/eligibility", h.Eligibility).Methods(http.MethodGet)

	acc.HandleFunc("/credits", h.ApplyCredit).Methods(http.MethodPost)
	acc.HandleFunc("/credits", h.ListCredits).Methods(http.MethodGet)
	acc.HandleFunc("/credits/{creditID:[0-9]+}/repay", h.RepayCredit).Methods(http.MethodPost)
	acc.HandleFunc("/credits/{creditID:[0-9]+}/payoff", h.PayOffCredit).Methods(http.MethodPost)
	acc.HandleFunc("/credits/{creditID:[0-9]+}/schedule", h.CreditSchedule).Methods(http.MethodGet)

	acc.HandleFunc("/mortgages", h.ApplyMortgage).Methods(http.MethodPost)
	acc.HandleFunc("/mortgages", h.ListMortgages).Methods(http.MethodGet)
	acc.HandleFunc("/mortgages/{mortgageID:[0-9]+}/repay", h.RepayMortgage).Methods(http.MethodPost)

	acc.HandleFunc("/deposits", h.OpenDeposit).Methods(http.MethodPost)
	acc.HandleFunc("/deposits", h.ListDeposits).Methods(http.MethodGet)
	return r
}
